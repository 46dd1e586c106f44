package service

import (
	"context"
	"errors"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/apperror"
	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"github.com/AstafevaAnastasia/weather-tracker/internal/dto"
	"github.com/AstafevaAnastasia/weather-tracker/internal/repository"
	"github.com/AstafevaAnastasia/weather-tracker/internal/utils"
)

// userService implements UserService interface
type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func userResponse(user *domain.User) *dto.UserResponse {
	response := &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}

	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.Format(time.RFC3339)
		response.LastLoginAt = &lastLogin
	}

	return response
}

// Get returns a user profile
func (s *userService) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to get user", err)
	}

	return userResponse(user), nil
}

// Update applies a partial profile update. Username and email keep
// their uniqueness; a password change verifies the old password first.
func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Username == nil && req.Email == nil && req.NewPassword == nil {
		return nil, apperror.NewInvalidInput("no fields to update")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to get user", err)
	}

	if req.Username != nil {
		username := utils.SanitizeName(*req.Username)
		if !utils.ValidateUsername(username) {
			return nil, apperror.NewInvalidInput("username must be 3-64 characters of letters, digits, '_', '.' or '-'")
		}
		user.Username = username
	}

	if req.Email != nil {
		if !utils.ValidateEmail(*req.Email) {
			return nil, apperror.NewInvalidInput("invalid email format")
		}
		user.Email = utils.SanitizeEmail(*req.Email)
	}

	if req.NewPassword != nil {
		if req.OldPassword == nil {
			return nil, apperror.NewInvalidInput("old password is required to change password")
		}
		if !utils.CheckPasswordHash(*req.OldPassword, user.PasswordHash) {
			return nil, apperror.NewUnauthorized("old password does not match")
		}
		if !utils.ValidatePassword(*req.NewPassword) {
			return nil, apperror.NewInvalidInput("password must be at least 8 characters long")
		}

		passwordHash, err := utils.HashPassword(*req.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, apperror.NewInternal("failed to hash password", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperror.NewConflict("username already taken")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperror.NewConflict("email already in use")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal("failed to update user", err)
	}

	return s.Get(ctx, userID)
}

// Delete removes a user and all their favorites in one transaction
func (s *userService) Delete(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteCascade(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NewNotFound("user not found")
		}
		return apperror.NewInternal("failed to delete user", err)
	}

	return nil
}

// Search finds users by username or email substring
func (s *userService) Search(ctx context.Context, username, email string) ([]dto.UserInfo, error) {
	users, err := s.userRepo.Search(ctx, username, email)
	if err != nil {
		return nil, apperror.NewInternal("failed to search users", err)
	}

	results := make([]dto.UserInfo, 0, len(users))
	for _, user := range users {
		results = append(results, dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
	}

	return results, nil
}
