package query

import (
	"context"
	"errors"
	"testing"

	"github.com/ring2park-microservices/users-service/internal/cqrs"
	"github.com/ring2park-microservices/users-service/internal/models"
	"github.com/ring2park-microservices/users-service/internal/repository"
)

// newTestService builds a query service over the embedded directory with
// caching disabled, seeded with the given accounts.
func newTestService(t *testing.T, accounts ...models.Account) *DirectoryQueryService {
	t.Helper()
	dir := repository.NewMemoryDirectory()
	for i := range accounts {
		if err := dir.Create(context.Background(), &accounts[i]); err != nil {
			t.Fatalf("seeding account %d: %v", accounts[i].ID, err)
		}
	}
	return NewDirectoryQueryService(repository.NewAccountReadRepository(dir, nil))
}

func account(id int64, username, password string) models.Account {
	return models.Account{
		ID:       id,
		Username: username,
		Password: password,
		Name:     "Account Holder",
		Email:    username + "@example.com",
	}
}

func wantNotFound(t *testing.T, err error, key string) {
	t.Helper()
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Key != key {
		t.Errorf("expected key %q, got %q", key, notFound.Key)
	}
}

func TestListAllReturnsEveryAccount(t *testing.T) {
	svc := newTestService(t,
		account(1, "alice", "secret1"),
		account(2, "bobby", "secret2"),
		account(3, "carol", "secret3"),
	)

	views, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(views))
	}

	again, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for i := range views {
		if views[i].ID != again[i].ID {
			t.Errorf("ListAll order changed between calls: %v vs %v", views[i].ID, again[i].ID)
		}
	}
}

func TestListAllEmptyDirectoryIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ListAll(context.Background())
	wantNotFound(t, err, "all")
}

func TestGetByIDAbsentIsNotFound(t *testing.T) {
	svc := newTestService(t, account(1, "alice", "secret1"))

	view, err := svc.GetByID(context.Background(), cqrs.GetAccountQuery{UserID: 1})
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if view.Username != "alice" {
		t.Errorf("expected alice, got %q", view.Username)
	}

	_, err = svc.GetByID(context.Background(), cqrs.GetAccountQuery{UserID: 9999})
	wantNotFound(t, err, "9999")
}

func TestSearchByUsernameCaseInsensitive(t *testing.T) {
	svc := newTestService(t,
		account(1, "Anna", "secret1"),
		account(2, "banana", "secret2"),
		account(3, "Bob", "secret3"),
	)

	views, err := svc.SearchByUsername(context.Background(), cqrs.SearchAccountsQuery{Partial: "an"})
	if err != nil {
		t.Fatalf("SearchByUsername: %v", err)
	}
	got := map[string]bool{}
	for _, v := range views {
		got[v.Username] = true
	}
	if len(views) != 2 || !got["Anna"] || !got["banana"] {
		t.Errorf("expected Anna and banana, got %v", got)
	}

	_, err = svc.SearchByUsername(context.Background(), cqrs.SearchAccountsQuery{Partial: "xyz"})
	wantNotFound(t, err, "xyz")
}

func TestAuthenticateWrongPasswordIsAbsent(t *testing.T) {
	svc := newTestService(t, account(1, "alice", "secret1"))

	view, err := svc.Authenticate(context.Background(), cqrs.AuthenticateQuery{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if view == nil {
		t.Fatal("expected account for correct credentials")
	}

	view, err = svc.Authenticate(context.Background(), cqrs.AuthenticateQuery{Username: "alice", Password: "wrongpass"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if view != nil {
		t.Error("expected nil for wrong password even though alice exists")
	}
}

func TestExactLookupsTreatAbsenceAsNil(t *testing.T) {
	svc := newTestService(t, account(1, "alice", "secret1"))

	view, err := svc.GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if view != nil {
		t.Error("expected nil for unknown username")
	}

	view, err = svc.GetByMobile(context.Background(), "0000000000")
	if err != nil {
		t.Fatalf("GetByMobile: %v", err)
	}
	if view != nil {
		t.Error("expected nil for unknown mobile")
	}
}

func TestCount(t *testing.T) {
	svc := newTestService(t, account(1, "alice", "secret1"), account(2, "bobby", "secret2"))

	count, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Key: "9999"}
	if err.Error() != "No such user: 9999" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
