package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is matched by every login failure, whatever its kind.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput signals the input channel failed or returned unusable values.
	ErrInvalidInput = errors.New("invalid input")
)

// Kind identifies why a login was refused.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindWrongPassword Kind = "wrong_password"
	KindRoleMismatch  Kind = "role_mismatch"
)

// Error is a login failure. Callers should present it uniformly; Kind is for
// diagnostics and tests.
type Error struct {
	Kind Kind
	ID   int64
}

func (e *Error) Error() string {
	return fmt.Sprintf("login user %d: %s", e.ID, e.Kind)
}

func (e *Error) Is(target error) bool { return target == ErrInvalidCredentials }

// KindOf returns the kind of a login failure, or "" if err is not one.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// RegistrationError reports that a new account could not be persisted.
type RegistrationError struct {
	ID  int64
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register user %d: %v", e.ID, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
