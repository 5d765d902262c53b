package repository

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ring2park-microservices/users-service/internal/models"
	appredis "github.com/ring2park-microservices/users-service/internal/redis"
)

// AccountReadRepository serves the read side of the directory. Point lookups
// by id go to the Redis read model first, falling back to the backing
// Directory and warming the cache on a miss. List and search queries always
// hit the Directory; keeping a coherent cached copy of arbitrary substring
// matches is not worth the invalidation traffic.
//
// A nil Redis client disables caching entirely, which is how the embedded
// in-memory mode runs.
type AccountReadRepository struct {
	dir   Directory
	cache *appredis.AccountViewCache
}

func NewAccountReadRepository(dir Directory, redisClient *goredis.Client) *AccountReadRepository {
	r := &AccountReadRepository{dir: dir}
	if redisClient != nil {
		r.cache = appredis.NewAccountViewCache(redisClient, 0)
	}
	return r
}

// ListAll returns the view of every account, ordered by id.
func (r *AccountReadRepository) ListAll(ctx context.Context) ([]models.AccountView, error) {
	accounts, err := r.dir.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(accounts), nil
}

// GetByID returns the view for one account, trying the Redis read model
// first. Returns (nil, nil) when the account does not exist.
func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.AccountView, error) {
	if r.cache != nil {
		if view, ok := r.cache.Get(ctx, id); ok {
			return view, nil
		}
	}

	account, err := r.dir.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	view := account.ToView()
	r.CacheAccountView(ctx, view)
	return view, nil
}

// SearchByUsername returns views of all accounts whose username contains the
// partial string, case-insensitively. Empty slice when nothing matches.
func (r *AccountReadRepository) SearchByUsername(ctx context.Context, partial string) ([]models.AccountView, error) {
	accounts, err := r.dir.FindByUsernameContaining(ctx, partial)
	if err != nil {
		return nil, err
	}
	return toViews(accounts), nil
}

// GetByUsername returns the view for the exact username, or nil.
func (r *AccountReadRepository) GetByUsername(ctx context.Context, username string) (*models.AccountView, error) {
	return viewOf(r.dir.FindByUsername(ctx, username))
}

// GetByMobile returns the view for the exact mobile number, or nil.
func (r *AccountReadRepository) GetByMobile(ctx context.Context, mobile string) (*models.AccountView, error) {
	return viewOf(r.dir.FindByMobile(ctx, mobile))
}

// Authenticate returns the view for the account matching both username and
// password exactly, or nil on any mismatch. Plain comparison, no hashing —
// inherited behaviour, see the model docs.
func (r *AccountReadRepository) Authenticate(ctx context.Context, username, password string) (*models.AccountView, error) {
	return viewOf(r.dir.FindByUsernameAndPassword(ctx, username, password))
}

// Count returns the total number of accounts in the directory.
func (r *AccountReadRepository) Count(ctx context.Context) (int, error) {
	return r.dir.Count(ctx)
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	if r.cache != nil {
		r.cache.Set(ctx, view)
	}
}

// InvalidateAccountView removes the Redis read model entry for an account.
// Used when a peer instance announces a change this instance did not make.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, id int64) {
	if r.cache != nil {
		r.cache.Delete(ctx, id)
	}
}

// RefreshAccountView re-reads an account from the Directory and rewrites its
// cached view, evicting the entry if the account has disappeared.
func (r *AccountReadRepository) RefreshAccountView(ctx context.Context, id int64) error {
	account, err := r.dir.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		r.InvalidateAccountView(ctx, id)
		return nil
	}
	r.CacheAccountView(ctx, account.ToView())
	return nil
}

func viewOf(account *models.Account, err error) (*models.AccountView, error) {
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return account.ToView(), nil
}

func toViews(accounts []models.Account) []models.AccountView {
	views := make([]models.AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *accounts[i].ToView())
	}
	return views
}
