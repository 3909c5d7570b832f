package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/coffee-shop/internal/auth"
)

func TestRegistration(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("Alice\n12345\npw1\n"), &out)

	reg, err := p.Registration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.Registration{Name: "Alice", Phone: "12345", Password: "pw1"}, reg)
	assert.Contains(t, out.String(), "please input your name: ")
	assert.Contains(t, out.String(), "please set your password: ")
}

func TestRegistrationTruncatesLongTokens(t *testing.T) {
	p := NewPrompter(strings.NewReader("Alice 1234567890123456789 pw1"), &bytes.Buffer{})

	reg, err := p.Registration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12345678901234", reg.Phone)
}

func TestRegistrationTruncatesOnRuneBoundary(t *testing.T) {
	name := strings.Repeat("a", 48) + "é"
	p := NewPrompter(strings.NewReader(name+" 12345 pw1"), &bytes.Buffer{})

	reg, err := p.Registration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 48), reg.Name)
	assert.True(t, utf8.ValidString(reg.Name))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "caf", truncate("café", 4))
	assert.Equal(t, "café", truncate("café", 5))
	assert.Equal(t, "", truncate("日本", 2))
}

func TestCredentials(t *testing.T) {
	p := NewPrompter(strings.NewReader("2 mgrpw\n"), &bytes.Buffer{})

	creds, err := p.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, auth.Credentials{ID: 2, Password: "mgrpw"}, creds)
}

func TestCredentialsRejectsNonNumericID(t *testing.T) {
	p := NewPrompter(strings.NewReader("alice pw1\n"), &bytes.Buffer{})

	_, err := p.Credentials(context.Background())
	assert.ErrorContains(t, err, "not a number")
}

func TestExhaustedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader("Alice"), &bytes.Buffer{})

	_, err := p.Registration(context.Background())
	assert.ErrorIs(t, err, ErrNoInput)
}
