// Package models holds the user account entity shared by the store and the
// auth service.
//
// Passwords are kept and compared as plain text. This is a known limitation
// of the record format, not something to copy elsewhere.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Field limits match the fixed-width buffers of the record format.
const (
	MaxNameLen     = 49
	MaxPasswordLen = 19
	MaxPhoneLen    = 14
)

var (
	ErrInvalidID       = errors.New("id must be positive")
	ErrInvalidRole     = errors.New("unknown role")
	ErrInvalidBalance  = errors.New("balance must be a finite non-negative amount")
	ErrEmptyField      = errors.New("field is required")
	ErrFieldTooLong    = errors.New("field too long")
	ErrForbiddenSymbol = errors.New("field contains a comma or line break")
)

// User captures a customer or manager account.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Password string  `json:"-"`
	Phone    string  `json:"phone"`
	Balance  float64 `json:"balance"`
	Role     Role    `json:"role"`
}

// Validate checks the invariants the record format relies on.
func (u User) Validate() error {
	if u.ID <= 0 {
		return ErrInvalidID
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if math.IsNaN(u.Balance) || math.IsInf(u.Balance, 0) || u.Balance < 0 {
		return ErrInvalidBalance
	}
	fields := []struct {
		name  string
		value string
		limit int
	}{
		{"name", u.Name, MaxNameLen},
		{"password", u.Password, MaxPasswordLen},
		{"phone", u.Phone, MaxPhoneLen},
	}
	for _, f := range fields {
		if err := checkText(f.value, f.limit); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

// CheckPassword is an exact comparison against the stored plain text.
func (u User) CheckPassword(password string) bool {
	return u.Password == password
}

// Summary renders the user for debugging output. The password is omitted.
func (u User) Summary() string {
	return fmt.Sprintf("ID:%d, Name:%s, Phone:%s, Balance:%.2f, Role:%s",
		u.ID, u.Name, u.Phone, u.Balance, u.Role)
}

func checkText(value string, limit int) error {
	if value == "" {
		return ErrEmptyField
	}
	if len(value) > limit {
		return ErrFieldTooLong
	}
	if strings.ContainsAny(value, ",\r\n") {
		return ErrForbiddenSymbol
	}
	return nil
}
