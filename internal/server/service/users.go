package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/cryptox"
	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/server/repositories/users"
)

// UserService verifies user credentials against the store.
type UserService struct {
	repo   users.Repository
	logger logging.Logger
}

func NewUserService(repo users.Repository, logger logging.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger.With("module", "user_service"),
	}
}

// Login returns the user matching the credentials. A missing user and a
// wrong password are indistinguishable to the caller: both fail with
// common.ErrAuthenticationFailed.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("fetching user %q: %w", username, err)
	}

	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		s.logger.Warn(ctx, "password mismatch", "username", username)
		return nil, common.ErrAuthenticationFailed
	}

	return user, nil
}
