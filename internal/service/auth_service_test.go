package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/domain"
	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/repository"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenTTLHours:  24,
		ResetTokenTTLMinutes: 60,
		BcryptCost:           4,
	}
}

func newTestAuthService(repo repository.UserRepository) (*AuthService, *auth.TokenManager) {
	cfg := testAuthConfig()
	tokenMgr := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:   repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		TokenMgr:   tokenMgr,
	}), tokenMgr
}

func customerInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "Passw0rd",
		Phone:     "5551234567",
		Role:      "customer",
		Address: &domain.Address{
			DoorNo:  "12",
			Street:  "Main St",
			Area:    "Central",
			City:    "Springfield",
			State:   "IL",
			Pincode: "62701",
		},
	}
}

func TestRegisterIssuesRoleToken(t *testing.T) {
	svc, tokenMgr := newTestAuthService(repository.NewMemory())

	user, token, exp, err := svc.Register(context.Background(), customerInput("a@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "Passw0rd", user.PasswordHash)
	assert.True(t, exp.After(time.Now()))

	claims, err := tokenMgr.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())

	_, _, _, err := svc.Register(context.Background(), customerInput("a@x.com"))
	require.NoError(t, err)

	input := customerInput("a@x.com")
	input.Role = "agent"
	_, _, _, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())
	ctx := context.Background()

	adminAttempt := customerInput("admin@x.com")
	adminAttempt.Role = "admin"
	_, _, _, err := svc.Register(ctx, adminAttempt)
	assert.Error(t, err, "admin self-registration must be rejected")

	weak := customerInput("weak@x.com")
	weak.Password = "short1"
	_, _, _, err = svc.Register(ctx, weak)
	assert.Error(t, err)

	noDigits := customerInput("nodigits@x.com")
	noDigits.Password = "onlyletters"
	_, _, _, err = svc.Register(ctx, noDigits)
	assert.Error(t, err)

	noAddress := customerInput("noaddr@x.com")
	noAddress.Address = nil
	_, _, _, err = svc.Register(ctx, noAddress)
	assert.Error(t, err)

	partialAddress := customerInput("partial@x.com")
	partialAddress.Address.City = ""
	_, _, _, err = svc.Register(ctx, partialAddress)
	assert.Error(t, err)
}

func TestRegisterOverlongPasswordRejectedAsValidation(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())

	input := customerInput("long@x.com")
	input.Password = "a1" + strings.Repeat("x", 78)
	_, _, _, err := svc.Register(context.Background(), input)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus, "overlong password is caller error, not a server fault")
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, customerInput("a@x.com"))
	require.NoError(t, err)

	_, _, _, wrongPass := svc.Login(ctx, "a@x.com", "WrongPass1")
	_, _, _, unknown := svc.Login(ctx, "nobody@x.com", "Passw0rd")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLoginRoleClaimMatchesStoredRole(t *testing.T) {
	svc, tokenMgr := newTestAuthService(repository.NewMemory())
	ctx := context.Background()

	input := customerInput("agent@x.com")
	input.Role = "agent"
	_, _, _, err := svc.Register(ctx, input)
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "agent@x.com", "Passw0rd")
	require.NoError(t, err)

	claims, err := tokenMgr.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, domain.RoleAgent, claims.Role)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())

	token, err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetTokenLifecycle(t *testing.T) {
	repo := repository.NewMemory()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, customerInput("a@x.com"))
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// token is stored hashed, never in the clear
	stored, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, stored.HasResetToken())
	assert.NotEqual(t, token, *stored.ResetTokenHash)

	// token issued for a@x.com must not work for another account
	_, _, _, err = svc.Register(ctx, customerInput("b@x.com"))
	require.NoError(t, err)
	assert.Error(t, svc.ResetPassword(ctx, "b@x.com", token, "NewPass1"))

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", token, "NewPass1"))

	// consumed: the pair is cleared and the token single-use
	stored, err = repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, stored.HasResetToken())
	assert.Error(t, svc.ResetPassword(ctx, "a@x.com", token, "OtherPass2"))

	// old password no longer valid, new one is
	_, _, _, err = svc.Login(ctx, "a@x.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "a@x.com", "NewPass1")
	assert.NoError(t, err)
}

func TestResetTokenExpired(t *testing.T) {
	repo := repository.NewMemory()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, customerInput("a@x.com"))
	require.NoError(t, err)

	token, err := auth.NewResetToken()
	require.NoError(t, err)
	hash, err := auth.HashResetToken(token, 4)
	require.NoError(t, err)
	require.NoError(t, repo.SetResetToken(ctx, user.ID, hash, time.Now().Add(-time.Minute)))

	err = svc.ResetPassword(ctx, "a@x.com", token, "NewPass1")
	assert.Error(t, err)

	// lazy cleanup: the expired hash stays until the next issuance
	stored, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, stored.HasResetToken())

	// next issuance overwrites the stale pair
	fresh, err := svc.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NoError(t, svc.ResetPassword(ctx, "a@x.com", fresh, "NewPass1"))
}

func TestResetPasswordPolicyEnforced(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemory())
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, customerInput("a@x.com"))
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Error(t, svc.ResetPassword(ctx, "a@x.com", token, "weak"))
	// the failed attempt must not consume the token
	assert.NoError(t, svc.ResetPassword(ctx, "a@x.com", token, "NewPass1"))
}
