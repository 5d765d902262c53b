package cqrs

// GetAccountQuery fetches a single account by id.
type GetAccountQuery struct {
	UserID int64
}

// SearchAccountsQuery fetches all accounts whose username contains the
// partial string, case-insensitively.
type SearchAccountsQuery struct {
	Partial string
}

// AuthenticateQuery checks a username/password pair against the directory.
type AuthenticateQuery struct {
	Username string
	Password string
}
