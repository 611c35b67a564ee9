package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Context keys set by the authentication middleware
const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "userID"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// Authenticator resolves request credentials into an identity
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*dto.Identity, error)
	ValidateToken(token string) (*dto.Identity, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Authenticate accepts either a Bearer access token or HTTP Basic credentials
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		var (
			identity *dto.Identity
			err      error
		)
		switch {
		case hasScheme(authHeader, "Bearer"):
			identity, err = m.authenticator.ValidateToken(strings.TrimSpace(authHeader[len("Bearer"):]))
		case hasScheme(authHeader, "Basic"):
			username, password, ok := c.Request.BasicAuth()
			if !ok {
				abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid basic credentials format")
				return
			}
			identity, err = m.authenticator.Authenticate(c.Request.Context(), username, password)
		default:
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Unsupported authorization scheme")
			return
		}

		if err != nil {
			code := dto.ErrorCodeUnauthorized
			details := "Invalid credentials"
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				code, details = dto.ErrorCodeExpiredToken, "Token has expired"
			case errors.Is(err, apperrors.ErrTokenInvalid):
				code, details = dto.ErrorCodeInvalidToken, "Invalid token"
			case errors.Is(err, apperrors.ErrAccountDisabled):
				details = "Account is disabled"
			case apperrors.Is(err, apperrors.ErrNoSuchUser, apperrors.ErrWrongPassword, apperrors.ErrUnauthenticated):
				// bad basic credentials
			default:
				HandleAPIError(c, err)
				c.Abort()
				return
			}
			abortUnauthorized(c, code, details)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyUsername, identity.Username)
		c.Set(ContextKeyRole, identity.Role)

		c.Next()
	}
}

// RoleRequired rejects authenticated callers whose role differs from requiredRole
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		if identity.Role != requiredRole {
			HandleAPIError(c, apperrors.NewForbiddenError("You don't have sufficient permissions for this operation"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity attached by Authenticate
func CurrentIdentity(c *gin.Context) (*dto.Identity, bool) {
	value, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*dto.Identity)
	return identity, ok && identity != nil
}

func hasScheme(header, scheme string) bool {
	return len(header) > len(scheme) &&
		strings.EqualFold(header[:len(scheme)], scheme) &&
		header[len(scheme)] == ' '
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
