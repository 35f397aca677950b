package dto

import (
	"time"

	"github.com/tjmun/confreg/internal/app/models"
)

// RegisterRequest is the self-service sign-up payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" label:"邮箱"`
	Password string `json:"password" binding:"required,min=6" label:"密码"`
	Name     string `json:"name" binding:"required" label:"姓名"`
	School   string `json:"school" label:"学校"`
	Major    string `json:"major" label:"专业"`
	Phone    string `json:"phone" label:"手机号"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" label:"邮箱"`
	Password string `json:"password" binding:"required" label:"密码"`
}

// UserResponse represents a user without credentials
type UserResponse struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	School    string          `json:"school"`
	Major     *string         `json:"major,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Role      models.RoleType `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		School:    u.School,
		Major:     u.Major,
		Phone:     u.Phone,
		Role:      u.RoleType,
		CreatedAt: u.CreatedAt,
	}
}

// FromUsers converts a slice of users
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
