// Package query is the read side of the directory service. Its three public
// lookup operations deliberately treat an empty result as an error: the
// upstream API returned 404 for "no users at all" and "no username matched",
// and clients depend on that, so the convention is preserved here rather
// than normalised to an empty 200 response.
package query

import (
	"context"
	"fmt"

	"github.com/ring2park-microservices/users-service/internal/cqrs"
	"github.com/ring2park-microservices/users-service/internal/models"
)

// NotFoundError reports a lookup that yielded zero accounts where the
// directory service requires at least one. Key is the query key that failed:
// the id, the partial username, or "all".
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return "No such user: " + e.Key
}

// AccountReader is the read surface the query service needs from the
// repository layer.
type AccountReader interface {
	ListAll(ctx context.Context) ([]models.AccountView, error)
	GetByID(ctx context.Context, id int64) (*models.AccountView, error)
	SearchByUsername(ctx context.Context, partial string) ([]models.AccountView, error)
	GetByUsername(ctx context.Context, username string) (*models.AccountView, error)
	GetByMobile(ctx context.Context, mobile string) (*models.AccountView, error)
	Authenticate(ctx context.Context, username, password string) (*models.AccountView, error)
	Count(ctx context.Context) (int, error)
}

// DirectoryQueryService answers account lookups against the read model.
type DirectoryQueryService struct {
	reader AccountReader
}

func NewDirectoryQueryService(reader AccountReader) *DirectoryQueryService {
	return &DirectoryQueryService{reader: reader}
}

// ListAll returns every account in the directory.
// An empty directory is a NotFoundError with key "all".
func (s *DirectoryQueryService) ListAll(ctx context.Context) ([]models.AccountView, error) {
	views, err := s.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, &NotFoundError{Key: "all"}
	}
	return views, nil
}

// GetByID returns the account with the given id, or a NotFoundError carrying
// the id.
func (s *DirectoryQueryService) GetByID(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	view, err := s.reader.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, &NotFoundError{Key: fmt.Sprintf("%d", q.UserID)}
	}
	return view, nil
}

// SearchByUsername returns all accounts whose username contains the partial
// string, case-insensitively. Zero matches is a NotFoundError carrying the
// partial string.
func (s *DirectoryQueryService) SearchByUsername(ctx context.Context, q cqrs.SearchAccountsQuery) ([]models.AccountView, error) {
	views, err := s.reader.SearchByUsername(ctx, q.Partial)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, &NotFoundError{Key: q.Partial}
	}
	return views, nil
}

// GetByUsername returns the account with the exact username, or nil when
// absent. Absence is a normal outcome here, not an error.
func (s *DirectoryQueryService) GetByUsername(ctx context.Context, username string) (*models.AccountView, error) {
	return s.reader.GetByUsername(ctx, username)
}

// GetByMobile returns the account with the exact mobile number, or nil.
func (s *DirectoryQueryService) GetByMobile(ctx context.Context, mobile string) (*models.AccountView, error) {
	return s.reader.GetByMobile(ctx, mobile)
}

// Authenticate returns the account matching both credentials exactly, or nil
// on any mismatch — a wrong password and an unknown username are
// indistinguishable to the caller.
func (s *DirectoryQueryService) Authenticate(ctx context.Context, q cqrs.AuthenticateQuery) (*models.AccountView, error) {
	return s.reader.Authenticate(ctx, q.Username, q.Password)
}

// Count returns the total number of accounts.
func (s *DirectoryQueryService) Count(ctx context.Context) (int, error) {
	return s.reader.Count(ctx)
}
