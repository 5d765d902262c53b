package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ring2park-microservices/users-service/internal/models"
)

// MemoryDirectory is an embedded, process-local Directory. The upstream
// system ran against an in-memory relational database seeded at startup;
// this implementation fills the same role when no DATABASE_URL is
// configured, and doubles as the store for tests.
//
// Concurrent reads are safe; the RWMutex gives each call a consistent
// snapshot of the account set.
type MemoryDirectory struct {
	mu       sync.RWMutex
	accounts map[int64]models.Account
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{accounts: make(map[int64]models.Account)}
}

func (d *MemoryDirectory) FindAll(ctx context.Context) ([]models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	all := make([]models.Account, 0, len(d.accounts))
	for _, account := range d.accounts {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (d *MemoryDirectory) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if account, ok := d.accounts[id]; ok {
		return &account, nil
	}
	return nil, nil
}

func (d *MemoryDirectory) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, account := range d.accounts {
		if account.Username == username {
			account := account
			return &account, nil
		}
	}
	return nil, nil
}

func (d *MemoryDirectory) FindByUsernameContaining(ctx context.Context, partial string) ([]models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	needle := strings.ToLower(partial)
	matches := []models.Account{}
	for _, account := range d.accounts {
		if strings.Contains(strings.ToLower(account.Username), needle) {
			matches = append(matches, account)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (d *MemoryDirectory) FindByUsernameAndPassword(ctx context.Context, username, password string) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, account := range d.accounts {
		if account.Username == username && account.Password == password {
			account := account
			return &account, nil
		}
	}
	return nil, nil
}

func (d *MemoryDirectory) FindByMobile(ctx context.Context, mobile string) (*models.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, account := range d.accounts {
		if account.Mobile == mobile {
			account := account
			return &account, nil
		}
	}
	return nil, nil
}

func (d *MemoryDirectory) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts), nil
}

func (d *MemoryDirectory) Create(ctx context.Context, account *models.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[account.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range d.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return ErrDuplicate
		}
		if account.Mobile != "" && existing.Mobile == account.Mobile {
			return ErrDuplicate
		}
	}

	stored := *account
	stored.ConfirmPassword = ""
	stored.AcceptTerms = false
	d.accounts[account.ID] = stored
	return nil
}

func (d *MemoryDirectory) UpdateVerification(ctx context.Context, id int64, verifyCode string, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, ok := d.accounts[id]
	if !ok {
		return errNotFound
	}
	account.VerifyCode = verifyCode
	account.Enabled = enabled
	d.accounts[id] = account
	return nil
}

func (d *MemoryDirectory) MaxID(ctx context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var max int64
	for id := range d.accounts {
		if id > max {
			max = id
		}
	}
	return max, nil
}
