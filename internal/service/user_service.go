package service

import (
	"context"
	"errors"
	"strings"

	"echodrop/internal/models"
	"echodrop/internal/repository"
	"echodrop/internal/validation"

	"gorm.io/gorm"
)

const maxUsernameLen = validation.MaxUsernameLen

// UserService manages anonymous user profiles. It satisfies
// identity.ProfileAPI, so the client identity manager can run against
// it directly.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", userID)
	}
	if err != nil {
		return nil, models.NewBackendError(err)
	}
	return user, nil
}

func validUsername(username string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	if err := validUsername(user.Username); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, models.NewValidationError("Username already taken")
		}
		return nil, models.NewBackendError(err)
	}
	return user, nil
}

func (s *UserService) UpdateUsername(ctx context.Context, userID, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validUsername(username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateUsername(ctx, userID, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, models.NewValidationError("Username already taken")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, models.NewNotFoundError("User", userID)
		default:
			return nil, models.NewBackendError(err)
		}
	}
	return user, nil
}
