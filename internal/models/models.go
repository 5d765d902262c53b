package models

// Account is the persistent user record. Password is stored and compared as
// given — the upstream system never hashed it, and the credential lookup in
// the directory depends on direct comparison. Known weakness, kept visible.
//
// ConfirmPassword and AcceptTerms are creation-time fields only: they are
// never written to the store and never serialised in responses.
type Account struct {
	ID              int64  `json:"id"`
	Username        string `json:"username" validate:"required,min=4,alphanum"`
	Password        string `json:"password" validate:"required,min=6,alphanum"`
	ConfirmPassword string `json:"-" validate:"omitempty,min=6,alphanum"`
	Name            string `json:"name" validate:"required,min=6,alphaspace"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile" validate:"omitempty,min=10,number"`
	Enabled         bool   `json:"enabled"`
	AcceptTerms     bool   `json:"-"`
	VerifyCode      string `json:"verifyCode,omitempty"`
}

// AccountView is the read-optimised projection of an account. It carries
// every persisted field and is the shape stored in the Redis read model.
type AccountView struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Enabled    bool   `json:"enabled"`
	VerifyCode string `json:"verifyCode,omitempty"`
}

// ToView converts an account to its read-model projection, dropping the
// transient creation-time fields.
func (a *Account) ToView() *AccountView {
	return &AccountView{
		ID:         a.ID,
		Username:   a.Username,
		Password:   a.Password,
		Name:       a.Name,
		Email:      a.Email,
		Mobile:     a.Mobile,
		Enabled:    a.Enabled,
		VerifyCode: a.VerifyCode,
	}
}
