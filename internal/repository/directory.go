package repository

import (
	"context"
	"errors"

	"github.com/ring2park-microservices/users-service/internal/models"
)

// ErrDuplicate is returned by Create when the username, email or mobile of
// the new account collides with an existing one.
var ErrDuplicate = errors.New("account already exists")

var errNotFound = errors.New("account not found")

// Directory is the storage contract for accounts. Absence is never an error:
// point lookups return (nil, nil) and list lookups return an empty slice
// when nothing matches. Only storage failures surface as errors, wrapped and
// unretried.
type Directory interface {
	// FindAll returns every account, ordered by id.
	FindAll(ctx context.Context) ([]models.Account, error)

	// FindByID returns the account with the given id, or nil.
	FindByID(ctx context.Context, id int64) (*models.Account, error)

	// FindByUsername returns the account with the exact username, or nil.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)

	// FindByUsernameContaining returns all accounts whose username contains
	// the partial string, matched case-insensitively.
	FindByUsernameContaining(ctx context.Context, partial string) ([]models.Account, error)

	// FindByUsernameAndPassword returns the account matching both values
	// exactly, or nil. The comparison is direct; passwords are not hashed.
	FindByUsernameAndPassword(ctx context.Context, username, password string) (*models.Account, error)

	// FindByMobile returns the account with the exact mobile number, or nil.
	FindByMobile(ctx context.Context, mobile string) (*models.Account, error)

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int, error)

	// Create stores a new account. Unique violations on username, email or
	// mobile are reported as ErrDuplicate.
	Create(ctx context.Context, account *models.Account) error

	// UpdateVerification sets the verification code and enabled flag of an
	// existing account. Updating a missing account is an error.
	UpdateVerification(ctx context.Context, id int64, verifyCode string, enabled bool) error

	// MaxID returns the highest assigned account id, or 0 when the directory
	// is empty. Used to seed the id generator at startup.
	MaxID(ctx context.Context) (int64, error)
}
