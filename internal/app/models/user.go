package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"ana@x.com"` // Login identifier; equals the email for signed-up users
	Email        string    `json:"email" db:"email" example:"ana@x.com"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never serialised
	Name         string    `json:"name" db:"name" example:"Ana"`
	Role         Role      `json:"role" db:"role" example:"USER"`
	Enabled      bool      `json:"enabled" db:"enabled" example:"true"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user carries the ADMIN role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginEvent is an append-only record of a successful login
type LoginEvent struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"admin"`
	LoginTime time.Time `json:"loginTime" db:"login_time" example:"2024-04-20T18:00:00Z"`
}
