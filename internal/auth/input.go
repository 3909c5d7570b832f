package auth

import "context"

// Registration holds the fields a new account is created from.
type Registration struct {
	Name     string
	Phone    string
	Password string
}

// Credentials identify an account at login.
type Credentials struct {
	ID       int64
	Password string
}

// Input supplies already length-bounded fields from whatever channel the
// caller uses (console prompts, HTTP payloads).
type Input interface {
	Registration(ctx context.Context) (Registration, error)
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticInput answers with fixed values.
type StaticInput struct {
	Reg   Registration
	Creds Credentials
}

func (s StaticInput) Registration(context.Context) (Registration, error) { return s.Reg, nil }

func (s StaticInput) Credentials(context.Context) (Credentials, error) { return s.Creds, nil }
