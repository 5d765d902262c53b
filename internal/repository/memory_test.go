package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/ring2park-microservices/users-service/internal/models"
)

func testAccount(id int64, username string) *models.Account {
	return &models.Account{
		ID:       id,
		Username: username,
		Password: "secret1",
		Name:     username + " Example",
		Email:    username + "@example.com",
		Mobile:   fmt.Sprintf("07700900%03d", id),
	}
}

func seededDirectory(t *testing.T, usernames ...string) *MemoryDirectory {
	t.Helper()
	dir := NewMemoryDirectory()
	for i, username := range usernames {
		account := &models.Account{
			ID:       int64(i + 1),
			Username: username,
			Password: "secret1",
			Name:     "Account Holder",
			Email:    username + "@example.com",
		}
		if err := dir.Create(context.Background(), account); err != nil {
			t.Fatalf("seeding %s: %v", username, err)
		}
	}
	return dir
}

func TestCreateAndFindByIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()

	account := &models.Account{
		ID:              7,
		Username:        "alice1",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "Alice Smith",
		Email:           "alice@example.com",
		Mobile:          "0770090001",
		AcceptTerms:     true,
	}
	if err := dir.Create(ctx, account); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := dir.FindByID(ctx, 7)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID returned nil for existing account")
	}
	if got.Username != "alice1" || got.Password != "secret1" || got.Name != "Alice Smith" ||
		got.Email != "alice@example.com" || got.Mobile != "0770090001" {
		t.Errorf("stored account differs: %+v", got)
	}
	if got.ConfirmPassword != "" || got.AcceptTerms {
		t.Errorf("transient fields were persisted: %+v", got)
	}
}

func TestFindByIDAbsentIsNilNotError(t *testing.T) {
	dir := NewMemoryDirectory()
	got, err := dir.FindByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent id, got %+v", got)
	}
}

func TestFindAllStableOrder(t *testing.T) {
	ctx := context.Background()
	dir := seededDirectory(t, "carol", "alice", "bobby")

	first, err := dir.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i].ID <= first[i-1].ID {
			t.Errorf("accounts not ordered by id: %v then %v", first[i-1].ID, first[i].ID)
		}
	}

	second, err := dir.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two FindAll calls without mutation returned different results")
	}
}

func TestFindAllEmptyDirectory(t *testing.T) {
	dir := NewMemoryDirectory()
	all, err := dir.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty slice, got %d accounts", len(all))
	}
}

func TestFindByUsernameContainingIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	dir := seededDirectory(t, "Anna", "banana", "Bob")

	matches, err := dir.FindByUsernameContaining(ctx, "an")
	if err != nil {
		t.Fatalf("FindByUsernameContaining: %v", err)
	}
	got := map[string]bool{}
	for _, m := range matches {
		got[m.Username] = true
	}
	if len(matches) != 2 || !got["Anna"] || !got["banana"] {
		t.Errorf("expected Anna and banana, got %v", got)
	}

	none, err := dir.FindByUsernameContaining(ctx, "xyz")
	if err != nil {
		t.Fatalf("FindByUsernameContaining: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches for xyz, got %d", len(none))
	}
}

func TestFindByUsernameAndPasswordRequiresBoth(t *testing.T) {
	ctx := context.Background()
	dir := seededDirectory(t, "alice")

	match, err := dir.FindByUsernameAndPassword(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("FindByUsernameAndPassword: %v", err)
	}
	if match == nil {
		t.Fatal("expected match for correct credentials")
	}

	wrong, err := dir.FindByUsernameAndPassword(ctx, "alice", "wrongpass")
	if err != nil {
		t.Fatalf("FindByUsernameAndPassword: %v", err)
	}
	if wrong != nil {
		t.Error("expected nil for wrong password even though username exists")
	}
}

func TestFindByUsernameAndMobileExactMatch(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	account := testAccount(1, "alice")
	if err := dir.Create(ctx, account); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byName, err := dir.FindByUsername(ctx, "alice")
	if err != nil || byName == nil {
		t.Fatalf("FindByUsername: %v, %v", byName, err)
	}
	byMobile, err := dir.FindByMobile(ctx, account.Mobile)
	if err != nil || byMobile == nil {
		t.Fatalf("FindByMobile: %v, %v", byMobile, err)
	}
	missing, err := dir.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if missing != nil {
		t.Error("exact username match should be case-sensitive")
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	if err := dir.Create(ctx, testAccount(1, "alice")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dupUsername := testAccount(2, "alice")
	dupUsername.Email = "other@example.com"
	dupUsername.Mobile = "0770090099"
	if err := dir.Create(ctx, dupUsername); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username: expected ErrDuplicate, got %v", err)
	}

	dupEmail := testAccount(3, "bobby")
	dupEmail.Email = "alice@example.com"
	dupEmail.Mobile = "0770090098"
	if err := dir.Create(ctx, dupEmail); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email: expected ErrDuplicate, got %v", err)
	}
}

func TestCountAndMaxID(t *testing.T) {
	ctx := context.Background()
	dir := seededDirectory(t, "alice", "bobby", "carol")

	count, err := dir.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}

	max, err := dir.MaxID(ctx)
	if err != nil {
		t.Fatalf("MaxID: %v", err)
	}
	if max != 3 {
		t.Errorf("expected max id 3, got %d", max)
	}
}

func TestUpdateVerification(t *testing.T) {
	ctx := context.Background()
	dir := seededDirectory(t, "alice")

	if err := dir.UpdateVerification(ctx, 1, "123456", false); err != nil {
		t.Fatalf("UpdateVerification: %v", err)
	}
	account, _ := dir.FindByID(ctx, 1)
	if account.VerifyCode != "123456" || account.Enabled {
		t.Errorf("expected pending verification, got %+v", account)
	}

	if err := dir.UpdateVerification(ctx, 1, "", true); err != nil {
		t.Fatalf("UpdateVerification: %v", err)
	}
	account, _ = dir.FindByID(ctx, 1)
	if account.VerifyCode != "" || !account.Enabled {
		t.Errorf("expected enabled account with cleared code, got %+v", account)
	}

	if err := dir.UpdateVerification(ctx, 9999, "123456", false); err == nil {
		t.Error("expected error updating a missing account")
	}
}
