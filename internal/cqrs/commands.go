package cqrs

// CreateAccountCommand carries everything needed to register one account.
// ConfirmPassword and AcceptTerms participate in validation only; they are
// never stored.
type CreateAccountCommand struct {
	Username        string
	Password        string
	ConfirmPassword string
	Name            string
	Email           string
	Mobile          string
	AcceptTerms     bool
}

// VerifyAccountCommand enables an account once the submitted code matches
// its stored verification code.
type VerifyAccountCommand struct {
	UserID int64
	Code   string
}
