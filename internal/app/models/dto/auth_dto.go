package dto

import (
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
)

// LoginRequest represents login credentials. LoginID is a username or an email.
type LoginRequest struct {
	LoginID  string `json:"loginId" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// SignupRequest represents a self-service registration
type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"Ana"`
	Email    string `json:"email" binding:"required" example:"ana@x.com"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse represents the identity of an authenticated user plus its access token
type LoginResponse struct {
	Username    string      `json:"username" example:"admin"`
	Name        string      `json:"name" example:"Administrator"`
	Email       string      `json:"email" example:"admin@example.com"`
	Role        models.Role `json:"role" example:"ADMIN" enums:"ADMIN,USER"`
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64       `json:"expiresIn" example:"3600"`
}

// Identity is the authenticated principal attached to a request
type Identity struct {
	UserID   int64       `json:"userId"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// LoginEventResponse represents one entry of the login log
type LoginEventResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"admin"`
	LoginTime time.Time `json:"loginTime" example:"2024-04-20T18:00:00Z"`
}

// NewLoginEventResponse maps a login event onto its response
func NewLoginEventResponse(event *models.LoginEvent) LoginEventResponse {
	return LoginEventResponse{
		ID:        event.ID,
		Username:  event.Username,
		LoginTime: event.LoginTime,
	}
}
