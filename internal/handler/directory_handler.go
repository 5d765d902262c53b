package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ring2park-microservices/users-service/internal/cqrs"
	"github.com/ring2park-microservices/users-service/internal/middleware"
	"github.com/ring2park-microservices/users-service/internal/models"
	"github.com/ring2park-microservices/users-service/internal/query"
)

// DirectoryQuerier defines the lookup operations used by DirectoryHandler.
type DirectoryQuerier interface {
	ListAll(ctx context.Context) ([]models.AccountView, error)
	GetByID(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error)
	SearchByUsername(ctx context.Context, q cqrs.SearchAccountsQuery) ([]models.AccountView, error)
}

// DirectoryHandler exposes the read-only lookup endpoints. A NotFoundError
// from the query service becomes a 404; anything else is a 500.
type DirectoryHandler struct {
	queries DirectoryQuerier
}

func NewDirectoryHandler(queries DirectoryQuerier) *DirectoryHandler {
	return &DirectoryHandler{queries: queries}
}

// RegisterRoutes wires the handler's endpoints onto the router. The paths
// match the upstream service exactly, singular /user/:id included.
func (h *DirectoryHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/users", h.ListUsers)
	router.GET("/user/:id", h.GetUser)
	router.GET("/users/username/:name", h.SearchUsers)
}

// ListUsers returns every account in the directory; 404 when there are none.
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	views, err := h.queries.ListAll(c.Request.Context())
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetUser returns the account with the given numeric id.
func (h *DirectoryHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), cqrs.GetAccountQuery{UserID: id})
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SearchUsers returns all accounts whose username contains the path segment,
// matched case-insensitively; 404 when nothing matches.
func (h *DirectoryHandler) SearchUsers(c *gin.Context) {
	partial := c.Param("name")
	views, err := h.queries.SearchByUsername(c.Request.Context(), cqrs.SearchAccountsQuery{Partial: partial})
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func respondLookupError(c *gin.Context, err error) {
	var notFound *query.NotFoundError
	if errors.As(err, &notFound) {
		middleware.RespondWithError(c, http.StatusNotFound, notFound.Error())
		return
	}
	middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to query users")
}
