// Package record converts users to and from lines of the flat user file.
//
// A record is six comma-separated fields:
//
//	<id>,<name>,<password>,<phone>,<balance:2dp>,<role:0|1>
//
// The format has no escaping, so text fields must not contain commas or line
// breaks. models.User.Validate rejects such values before they reach Encode.
package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hongminglow/coffee-shop/internal/models"
)

const fieldCount = 6

// FormatError reports a line that cannot be parsed into a user.
type FormatError struct {
	Line   int // 1-based, 0 when unknown
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("malformed user record")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

// DecodeLine parses a single record. A trailing line terminator is ignored.
func DecodeLine(line string) (models.User, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ",")
	if len(parts) != fieldCount {
		return models.User{}, &FormatError{Reason: fmt.Sprintf("want %d fields, got %d", fieldCount, len(parts))}
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return models.User{}, &FormatError{Field: "id", Reason: fmt.Sprintf("not a positive integer: %q", parts[0])}
	}
	balance, err := strconv.ParseFloat(parts[4], 64)
	if err != nil || math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return models.User{}, &FormatError{Field: "balance", Reason: fmt.Sprintf("not a non-negative amount: %q", parts[4])}
	}
	roleCode, err := strconv.Atoi(parts[5])
	role := models.Role(roleCode)
	if err != nil || !role.Valid() {
		return models.User{}, &FormatError{Field: "role", Reason: fmt.Sprintf("want 0 or 1, got %q", parts[5])}
	}

	u := models.User{
		ID:       id,
		Name:     parts[1],
		Password: parts[2],
		Phone:    parts[3],
		Balance:  balance,
		Role:     role,
	}
	for i, field := range []string{"name", "password", "phone"} {
		if parts[i+1] == "" {
			return models.User{}, &FormatError{Field: field, Reason: "empty"}
		}
	}
	return u, nil
}

// Encode renders u as a record without the trailing newline.
func Encode(u models.User) string {
	return fmt.Sprintf("%d,%s,%s,%s,%.2f,%d", u.ID, u.Name, u.Password, u.Phone, u.Balance, int(u.Role))
}
