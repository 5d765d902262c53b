package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ring2park-microservices/users-service/internal/cqrs"
	"github.com/ring2park-microservices/users-service/internal/events"
	"github.com/ring2park-microservices/users-service/internal/idgen"
	"github.com/ring2park-microservices/users-service/internal/models"
	"github.com/ring2park-microservices/users-service/internal/repository"
	"github.com/ring2park-microservices/users-service/internal/validation"
)

// Publisher is the event-publishing surface the command service needs.
// A nil Publisher (embedded mode without Redis) disables announcements.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountCommandService owns all mutations of the directory: it validates
// candidates, assigns ids, writes the store, keeps the local read model warm
// and announces changes on the user events stream. The HTTP surface of this
// service is read-only; commands are driven by the bootstrap seeder and the
// verification workflow.
type AccountCommandService struct {
	dir       repository.Directory
	readRepo  *repository.AccountReadRepository
	ids       *idgen.Generator
	publisher Publisher
}

func NewAccountCommandService(
	dir repository.Directory,
	readRepo *repository.AccountReadRepository,
	ids *idgen.Generator,
	publisher Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		dir:       dir,
		readRepo:  readRepo,
		ids:       ids,
		publisher: publisher,
	}
}

// CreateAccount validates and stores a new account. The id is assigned here,
// exactly once, before the account reaches any collaborator. New accounts
// start disabled until verified.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	account := &models.Account{
		Username:        cmd.Username,
		Password:        cmd.Password,
		ConfirmPassword: cmd.ConfirmPassword,
		Name:            cmd.Name,
		Email:           cmd.Email,
		Mobile:          cmd.Mobile,
		AcceptTerms:     cmd.AcceptTerms,
		Enabled:         false,
	}
	if violations := validation.ValidateAccount(account); violations != nil {
		return nil, violations
	}

	account.ID = s.ids.Next()
	if err := s.dir.Create(ctx, account); err != nil {
		return nil, err
	}

	s.readRepo.CacheAccountView(ctx, account.ToView())
	s.announce(ctx, events.UserCreated, events.UserCreatedEvent{
		UserID:   account.ID,
		Username: account.Username,
		Email:    account.Email,
	})
	return account, nil
}

// RequestVerification stamps a fresh verification code on the account and
// disables it until the code comes back through VerifyAccount. Returns the
// code so the caller can deliver it out of band (email or SMS).
func (s *AccountCommandService) RequestVerification(ctx context.Context, userID int64) (string, error) {
	account, err := s.dir.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("account not found")
	}

	code := generateVerifyCode()
	if err := s.dir.UpdateVerification(ctx, userID, code, false); err != nil {
		return "", err
	}
	if err := s.readRepo.RefreshAccountView(ctx, userID); err != nil {
		log.Printf("Failed to refresh read model for account %d: %v", userID, err)
	}
	return code, nil
}

// VerifyAccount enables the account when the submitted code matches its
// stored verification code, then clears the code.
func (s *AccountCommandService) VerifyAccount(ctx context.Context, cmd cqrs.VerifyAccountCommand) error {
	account, err := s.dir.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("account not found")
	}
	if account.VerifyCode == "" || account.VerifyCode != cmd.Code {
		return fmt.Errorf("verification code does not match")
	}

	if err := s.dir.UpdateVerification(ctx, cmd.UserID, "", true); err != nil {
		return err
	}
	if err := s.readRepo.RefreshAccountView(ctx, cmd.UserID); err != nil {
		log.Printf("Failed to refresh read model for account %d: %v", cmd.UserID, err)
	}
	s.announce(ctx, events.UserVerified, events.UserVerifiedEvent{UserID: cmd.UserID})
	return nil
}

// HandleUserEvent is the stream subscriber handler. Another instance changed
// an account, so the cached view this instance holds may be stale.
func (s *AccountCommandService) HandleUserEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.UserCreated:
		var data events.UserCreatedEvent
		if err := decodeEventData(event.Data, &data); err != nil {
			return fmt.Errorf("failed to unmarshal user.created event: %w", err)
		}
		log.Printf("Peer created account %d (%s)", data.UserID, data.Username)
		return s.readRepo.RefreshAccountView(ctx, data.UserID)
	case events.UserVerified:
		var data events.UserVerifiedEvent
		if err := decodeEventData(event.Data, &data); err != nil {
			return fmt.Errorf("failed to unmarshal user.verified event: %w", err)
		}
		log.Printf("Peer verified account %d", data.UserID)
		s.readRepo.InvalidateAccountView(ctx, data.UserID)
	}
	return nil
}

func (s *AccountCommandService) announce(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.UserEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

// decodeEventData round-trips the loosely typed event payload into its
// concrete struct.
func decodeEventData(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
