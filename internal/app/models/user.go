package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"student@tongji.edu.cn"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	Name      string    `json:"name" db:"name" example:"张三"`
	School    string    `json:"school" db:"school" example:"同济大学"`
	Major     *string   `json:"major,omitempty" db:"major"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	RoleType  RoleType  `json:"role" db:"role" example:"STUDENT"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u.RoleType == RoleAdmin
}
