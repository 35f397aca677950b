package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/validation"
)

// User-facing auth messages
const (
	msgEmailTaken         = "该邮箱已被注册"
	msgInvalidCredentials = "邮箱或密码错误"
	msgUserNotFound       = "用户不存在"
)

// AuthService handles sign-up, login and session identity
type AuthService struct {
	userRepo      repositories.IUserRepository
	jwtService    *auth.JWTService
	defaultSchool string
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	defaultSchool string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtService:    jwtService,
		defaultSchool: defaultSchool,
		logger:        logger,
	}
}

// Register creates a STUDENT account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError("password", fmt.Sprintf("密码长度不能少于%d位", validation.PasswordMinLength))
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "姓名不能为空")
	}

	school := strings.TrimSpace(req.School)
	if school == "" {
		school = s.defaultSchool
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		School:   school,
		Major:    helpers.NullIfEmpty(req.Major),
		Phone:    helpers.NullIfEmpty(req.Phone),
		RoleType: models.RoleStudent,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.NewConflictError(msgEmailTaken)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, msgInvalidCredentials)
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to issue access token")
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.FromUser(user),
	}, nil
}

// Me returns the profile of the signed-in user
func (s *AuthService) Me(ctx context.Context, principal auth.Principal) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError(msgUserNotFound)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}
