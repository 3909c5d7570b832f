package models

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validUser() User {
	return User{ID: 1, Name: "Alice", Password: "pw1", Phone: "12345", Role: RoleCustomer}
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, validUser().Validate())

	tests := []struct {
		name   string
		mutate func(*User)
		want   error
	}{
		{"zero id", func(u *User) { u.ID = 0 }, ErrInvalidID},
		{"bad role", func(u *User) { u.Role = 3 }, ErrInvalidRole},
		{"negative balance", func(u *User) { u.Balance = -0.01 }, ErrInvalidBalance},
		{"nan balance", func(u *User) { u.Balance = math.NaN() }, ErrInvalidBalance},
		{"empty name", func(u *User) { u.Name = "" }, ErrEmptyField},
		{"long password", func(u *User) { u.Password = strings.Repeat("x", MaxPasswordLen+1) }, ErrFieldTooLong},
		{"comma in phone", func(u *User) { u.Phone = "123,45" }, ErrForbiddenSymbol},
		{"newline in name", func(u *User) { u.Name = "Al\nice" }, ErrForbiddenSymbol},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			assert.ErrorIs(t, u.Validate(), tc.want)
		})
	}
}

func TestUserCheckPassword(t *testing.T) {
	u := validUser()
	assert.True(t, u.CheckPassword("pw1"))
	assert.False(t, u.CheckPassword("pw1 "))
	assert.False(t, u.CheckPassword("PW1"))
}

func TestUserSummary(t *testing.T) {
	u := validUser()
	u.Balance = 10
	assert.Equal(t, "ID:1, Name:Alice, Phone:12345, Balance:10.00, Role:Customer", u.Summary())
}
