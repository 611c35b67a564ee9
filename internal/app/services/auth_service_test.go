package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 4, 20, 18, 0, 0, 0, time.UTC)

func newTestAuthService(store *memStore) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "studentrecords.test",
	})
	svc := NewAuthService(
		memUsers{store},
		memEvents{store},
		auth.NewPasswordHasher(bcrypt.MinCost),
		jwtService,
		"",
		zerolog.Nop(),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSignupThenLoginByEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)

	require.NoError(t, svc.Signup(ctx, &dto.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw"}))

	resp, err := svc.Login(ctx, &dto.LoginRequest{LoginID: "ana@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", resp.Username)
	assert.Equal(t, "Ana", resp.Name)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	identity, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", identity.Username)
	assert.Equal(t, models.RoleUser, identity.Role)
}

func TestSignup_StoresHashNotPlaintext(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)

	require.NoError(t, svc.Signup(ctx, &dto.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw"}))

	user, err := memUsers{store}.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")))
	assert.True(t, user.Enabled)
	assert.Empty(t, store.events, "signup must not record a login")
}

func TestSignup_EmailExists(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newMemStore())

	require.NoError(t, svc.Signup(ctx, &dto.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw"}))

	err := svc.Signup(ctx, &dto.SignupRequest{Name: "Other", Email: "ana@x.com", Password: "different"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestSignup_EmailShadowingUsername(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))

	err := svc.Signup(ctx, &dto.SignupRequest{Name: "Mallory", Email: "admin", Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestSignup_MissingFields(t *testing.T) {
	svc := newTestAuthService(newMemStore())

	err := svc.Signup(context.Background(), &dto.SignupRequest{Name: "Ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	store := newMemStore()
	svc := newTestAuthService(store)

	err := svc.Signup(context.Background(), &dto.SignupRequest{
		Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("p", auth.MaxPasswordBytes+1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, store.users)

	// multi-byte runes count by their encoded length
	err = svc.Signup(context.Background(), &dto.SignupRequest{
		Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("ş", 37),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	password := strings.Repeat("p", auth.MaxPasswordBytes)
	require.NoError(t, svc.Signup(context.Background(), &dto.SignupRequest{
		Name: "Ana", Email: "ana@x.com", Password: password,
	}))
	_, err = svc.Login(context.Background(), &dto.LoginRequest{LoginID: "ana@x.com", Password: password})
	assert.NoError(t, err)
}

func TestLogin_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))

	tests := []struct {
		name    string
		req     dto.LoginRequest
		wantErr error
	}{
		{"missing password", dto.LoginRequest{LoginID: "admin"}, apperrors.ErrMissingFields},
		{"missing login id", dto.LoginRequest{Password: "admin123"}, apperrors.ErrMissingFields},
		{"unknown user", dto.LoginRequest{LoginID: "nobody", Password: "x"}, apperrors.ErrNoSuchUser},
		{"wrong password by username", dto.LoginRequest{LoginID: "admin", Password: "nope"}, apperrors.ErrWrongPassword},
		{"wrong password by email", dto.LoginRequest{LoginID: "admin@example.com", Password: "nope"}, apperrors.ErrWrongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, store.events)
}

func TestLogin_RecordsEventWithCanonicalUsername(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))

	resp, err := svc.Login(ctx, &dto.LoginRequest{LoginID: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	events, err := svc.ListLogins(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "admin", events[0].Username)
	assert.Equal(t, fixedNow, events[0].LoginTime)
}

func TestLogin_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.Signup(ctx, &dto.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw"}))

	user, err := memUsers{store}.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	user.Enabled = false
	require.NoError(t, memUsers{store}.Update(ctx, user))

	_, err = svc.Login(ctx, &dto.LoginRequest{LoginID: "ana@x.com", Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	assert.Empty(t, store.events)
}

func TestBootstrapAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)

	require.NoError(t, svc.BootstrapAdmin(ctx))
	first, err := memUsers{store}.GetByUsername(ctx, AdminUsername)
	require.NoError(t, err)

	require.NoError(t, svc.BootstrapAdmin(ctx))
	second, err := memUsers{store}.GetByUsername(ctx, AdminUsername)
	require.NoError(t, err)

	admins := 0
	for _, u := range store.users {
		if u.Username == AdminUsername {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash, "the hash is reset on every bootstrap")
	assert.Equal(t, AdminName, second.Name)
	assert.Equal(t, AdminEmail, second.Email)
	assert.Equal(t, models.RoleAdmin, second.Role)
	assert.True(t, second.Enabled)
}

func TestBootstrapAdmin_RestoresTamperedAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))

	admin, err := memUsers{store}.GetByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	admin.Enabled = false
	admin.Role = models.RoleUser
	require.NoError(t, memUsers{store}.Update(ctx, admin))

	require.NoError(t, svc.BootstrapAdmin(ctx))

	_, err = svc.Login(ctx, &dto.LoginRequest{LoginID: "admin", Password: DefaultAdminPassword})
	assert.NoError(t, err)
}

func TestBootstrapAdmin_ConfiguredPassword(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	svc.adminPassword = "s3cret"
	require.NoError(t, svc.BootstrapAdmin(ctx))

	_, err := svc.Login(ctx, &dto.LoginRequest{LoginID: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)
	_, err = svc.Login(ctx, &dto.LoginRequest{LoginID: "admin", Password: "s3cret"})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestAuthService(store)
	require.NoError(t, svc.BootstrapAdmin(ctx))

	identity, err := svc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Empty(t, store.events, "basic authentication does not record logins")

	_, err = svc.Authenticate(ctx, "admin@example.com", "admin123")
	assert.ErrorIs(t, err, apperrors.ErrNoSuchUser)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
