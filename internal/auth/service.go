// Package auth registers and authenticates shop accounts on top of a
// storage.UserStore.
//
// Passwords are compared as plain text, exactly as stored.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/storage"
)

// Service exposes the register and login use cases.
type Service struct {
	store storage.UserStore
	log   zerolog.Logger
}

// NewService constructs the service.
func NewService(store storage.UserStore, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Register creates an account with the given role from the fields supplied by
// in and returns its id. New accounts start with a zero balance.
func (s *Service) Register(ctx context.Context, role models.Role, in Input) (int64, error) {
	if !role.Valid() {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, models.ErrInvalidRole)
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("load users: %w", err)
	}
	reg, err := in.Registration(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user := models.User{
		ID:       NextID(users),
		Name:     reg.Name,
		Password: reg.Password,
		Phone:    reg.Phone,
		Balance:  0,
		Role:     role,
	}
	if err := s.store.Save(ctx, user); err != nil {
		s.log.Error().Err(err).Int64("id", user.ID).Str("role", role.String()).Msg("registration failed")
		return 0, &RegistrationError{ID: user.ID, Err: err}
	}

	s.log.Info().Int64("id", user.ID).Str("role", role.String()).Msg("registration successful")
	return user.ID, nil
}

// Login verifies the credentials supplied by in and that the account holds
// role. The password is checked before the role.
func (s *Service) Login(ctx context.Context, role models.Role, in Input) (int64, error) {
	creds, err := in.Credentials(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user, err := s.store.FindByID(ctx, creds.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, s.refuse(creds.ID, KindNotFound)
		}
		return 0, fmt.Errorf("find user %d: %w", creds.ID, err)
	}
	if !user.CheckPassword(creds.Password) {
		return 0, s.refuse(creds.ID, KindWrongPassword)
	}
	if user.Role != role {
		return 0, s.refuse(creds.ID, KindRoleMismatch)
	}

	s.log.Info().Int64("id", user.ID).Str("balance", fmt.Sprintf("%.2f", user.Balance)).Msg("welcome back")
	return user.ID, nil
}

func (s *Service) refuse(id int64, kind Kind) error {
	s.log.Warn().Int64("id", id).Str("reason", string(kind)).Msg("login refused")
	return &Error{Kind: kind, ID: id}
}
