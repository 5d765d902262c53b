// Package validation checks candidate accounts against the directory's field
// constraints. It is pure: no storage access, no side effects, just the
// account in and the accumulated violations out.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ring2park-microservices/users-service/internal/models"
)

var validate = newValidator()

var alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z ]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// Names allow letters and spaces only; validator has no built-in for that.
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	})
	return v
}

// FieldError describes a single violated constraint on one account field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationErrors is the full set of violations for one candidate account.
// It satisfies the error interface so callers can return it directly.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "account is invalid"
	}
	msg := v[0].Message
	for _, fe := range v[1:] {
		msg += "; " + fe.Message
	}
	return msg
}

// Fields returns the names of all violated fields.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, fe := range v {
		fields = append(fields, fe.Field)
	}
	return fields
}

// ValidateAccount checks every field constraint on the candidate account and
// returns one FieldError per violation, or nil if the account is valid.
func ValidateAccount(account *models.Account) ValidationErrors {
	err := validate.Struct(account)
	if err == nil {
		return nil
	}

	var violations ValidationErrors
	for _, fe := range err.(validator.ValidationErrors) {
		violations = append(violations, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Type:    fe.Tag(),
		})
	}
	return violations
}

func messageFor(fe validator.FieldError) string {
	tooShort := fe.Tag() == "min" || fe.Tag() == "required"
	switch fe.Field() {
	case "Username":
		if tooShort {
			return "Username must be at least 4 characters"
		}
		return "Username must be alphanumeric with no spaces"
	case "Password":
		if tooShort {
			return "Password must be at least 6 characters"
		}
		return "Password must be alphanumeric with no spaces"
	case "ConfirmPassword":
		if tooShort {
			return "Confirm password must be at least 6 characters"
		}
		return "Password must be alphanumeric with no spaces"
	case "Name":
		if tooShort {
			return "Name must be at least 6 characters"
		}
		return "Name must be alphabetic with spaces"
	case "Email":
		return "A valid email address is required"
	case "Mobile":
		if tooShort {
			return "Mobile must be at least 10 characters"
		}
		return "Mobile must contain numbers only (no spaces)"
	default:
		return "Invalid value"
	}
}
