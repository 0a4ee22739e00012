package domain

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const MinPasswordLength = 7

var validate = validator.New()

// ValidateUser normalizes and checks a user record before it is persisted.
// plainPassword is the not-yet-hashed password and is only inspected when
// passwordChanged is set; an already-stored hash must never be re-checked
// (or re-hashed) against the password policy.
func ValidateUser(u *User, plainPassword string, passwordChanged bool) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Surname = strings.TrimSpace(u.Surname)
	u.Email = strings.TrimSpace(u.Email)

	fields := map[string]string{}

	if u.Name == "" {
		fields["name"] = "is required"
	}
	if u.Email == "" {
		fields["email"] = "is required"
	} else if err := validate.Var(u.Email, "email"); err != nil {
		fields["email"] = "format is not valid"
	}
	if u.Age < 0 {
		fields["age"] = "must be a positive number"
	}
	if passwordChanged {
		if msg := checkPasswordStrength(plainPassword); msg != "" {
			fields["password"] = msg
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateTask normalizes and checks a task record before it is persisted.
func ValidateTask(t *Task) error {
	t.Description = strings.TrimSpace(t.Description)

	if t.Description == "" {
		return NewValidationError("description", "is required")
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "is required")
	}
	return nil
}

// checkPasswordStrength enforces the minimum length plus a mix of character
// classes: lower, upper, digit and symbol.
func checkPasswordStrength(password string) string {
	if len(password) < MinPasswordLength {
		return "is too short"
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return "is not strong"
	}
	return ""
}
