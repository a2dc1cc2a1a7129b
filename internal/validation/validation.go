// Package validation checks the shape of incoming request bodies before any
// side effect occurs. A violation aborts the flow immediately with an Error
// carrying a human-readable reason.
package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// UsernameMaxLength bounds the display name length in characters.
const UsernameMaxLength = 20

// Error describes a rejected request body.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func newError(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// CreateUser validates the body of a create-account request.
func CreateUser(email, username, password string) error {
	if err := validEmail(email); err != nil {
		return err
	}
	if username == "" {
		return newError("username is required")
	}
	if utf8.RuneCountInString(username) > UsernameMaxLength {
		return newError("username must be at most %d characters", UsernameMaxLength)
	}
	if password == "" {
		return newError("password is required")
	}
	// No password length or complexity policy is enforced here; the original
	// flows accept any non-empty password.
	return nil
}

// Login validates the body of a login request.
func Login(email, password string) error {
	if err := validEmail(email); err != nil {
		return err
	}
	if password == "" {
		return newError("password is required")
	}
	return nil
}

// DecodeToken validates the body of a decode request.
func DecodeToken(token string) error {
	if token == "" {
		return newError("token is required")
	}
	return nil
}

func validEmail(email string) error {
	if email == "" {
		return newError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return newError("email %q is not a valid address", email)
	}
	return nil
}
