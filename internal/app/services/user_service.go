package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// UserService defines admin operations on accounts
type UserService interface {
	List(ctx context.Context, offset, limit uint64) ([]*models.User, int64, error)
	// PromoteToAdmin grants ADMIN to the account with email. The bool is false
	// when the account was already an administrator.
	PromoteToAdmin(ctx context.Context, email string) (*models.User, bool, error)
}

type userServiceImpl struct {
	userRepo repositories.IUserRepository
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.IUserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) List(ctx context.Context, offset, limit uint64) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	return users, total, nil
}

func (s *userServiceImpl) PromoteToAdmin(ctx context.Context, email string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperrors.NewResourceNotFoundError(fmt.Sprintf("未找到邮箱为 %s 的用户", email))
		}
		return nil, false, fmt.Errorf("error loading user: %w", err)
	}

	if user.IsAdmin() {
		return user, false, nil
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, false, fmt.Errorf("error promoting user: %w", err)
	}
	user.RoleType = models.RoleAdmin

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User promoted to ADMIN")
	return user, true, nil
}
