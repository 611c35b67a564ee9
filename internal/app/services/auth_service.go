package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Bootstrap administrator identity
const (
	AdminUsername        = "admin"
	AdminName            = "Administrator"
	AdminEmail           = "admin@example.com"
	DefaultAdminPassword = "admin123"
	tokenTypeBearer      = "Bearer"
)

// AuthService handles authentication, signup and the login log
type AuthService struct {
	userRepo      repositories.IUserRepository
	loginRepo     repositories.ILoginEventRepository
	hasher        *auth.PasswordHasher
	jwtService    *auth.JWTService
	adminPassword string
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
// An empty adminPassword falls back to DefaultAdminPassword.
func NewAuthService(
	userRepo repositories.IUserRepository,
	loginRepo repositories.ILoginEventRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	adminPassword string,
	logger zerolog.Logger,
) *AuthService {
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	return &AuthService{
		userRepo:      userRepo,
		loginRepo:     loginRepo,
		hasher:        hasher,
		jwtService:    jwtService,
		adminPassword: adminPassword,
		logger:        logger,
		now:           time.Now,
	}
}

// Login verifies credentials, records a login event and returns the caller's identity.
// The login id is matched against usernames first, then emails.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.findByLoginID(ctx, req.LoginID)
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("username", user.Username).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrWrongPassword
	}

	if !user.Enabled {
		return nil, apperrors.ErrAccountDisabled
	}

	event := &models.LoginEvent{
		Username:  user.Username,
		LoginTime: s.now().UTC(),
	}
	if err := s.loginRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error recording login: %w", err)
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("User logged in")

	return &dto.LoginResponse{
		Username:    user.Username,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   expiresIn,
	}, nil
}

func (s *AuthService) findByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, loginID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	user, err = s.userRepo.GetByEmail(ctx, loginID)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrNoSuchUser
	}
	return nil, fmt.Errorf("error looking up user: %w", err)
}

// Signup registers a USER whose username is its email
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error checking if email exists: %w", err)
	}
	if !exists {
		// the email becomes a username, so it must not shadow an existing login id
		exists, err = s.userRepo.UsernameExists(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("error checking if username exists: %w", err)
		}
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     req.Email,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleUser,
		Enabled:      true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User signed up")
	return nil
}

// BootstrapAdmin finds or creates the admin account and resets its profile and password.
// Repeated calls keep a single admin user.
func (s *AuthService) BootstrapAdmin(ctx context.Context) error {
	hash, err := s.hasher.Hash(s.adminPassword)
	if err != nil {
		return err
	}

	admin, err := s.userRepo.GetByUsername(ctx, AdminUsername)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		admin = &models.User{Username: AdminUsername}
	case err != nil:
		return fmt.Errorf("error looking up admin user: %w", err)
	}

	admin.Name = AdminName
	admin.Email = AdminEmail
	admin.Role = models.RoleAdmin
	admin.Enabled = true
	admin.PasswordHash = hash

	if admin.ID == 0 {
		if err := s.userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("error creating admin user: %w", err)
		}
		s.logger.Info().Int64("userID", admin.ID).Msg("Admin user created")
		return nil
	}

	if err := s.userRepo.Update(ctx, admin); err != nil {
		return fmt.Errorf("error updating admin user: %w", err)
	}
	s.logger.Info().Int64("userID", admin.ID).Msg("Admin user reset")
	return nil
}

// Authenticate checks a username and password pair without recording a login event
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*dto.Identity, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNoSuchUser
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrWrongPassword
	}
	if !user.Enabled {
		return nil, apperrors.ErrAccountDisabled
	}

	return &dto.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// ValidateToken resolves a bearer token into the identity it was issued for
func (s *AuthService) ValidateToken(token string) (*dto.Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &dto.Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// ListLogins returns the login log, oldest first
func (s *AuthService) ListLogins(ctx context.Context) ([]*models.LoginEvent, error) {
	events, err := s.loginRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing logins: %w", err)
	}
	return events, nil
}
