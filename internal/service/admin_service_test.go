package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/domain"
	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/repository"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

func newTestAdminService(repo repository.UserRepository, bootstrapEnable bool) *AdminService {
	cfg := testAuthConfig()
	return NewAdminService(cfg, config.AdminConfig{BootstrapEnable: bootstrapEnable}, AdminDependencies{
		UserRepo:   repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		TokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
	})
}

func adminTestInput(email string) AdminInput {
	return AdminInput{
		FirstName:  "Root",
		LastName:   "Admin",
		Email:      email,
		Password:   "Secret123",
		Phone:      "5550000000",
		Department: "operations",
	}
}

func TestBootstrapFirstAdmin(t *testing.T) {
	svc := newTestAdminService(repository.NewMemory(), false)

	admin, token, _, err := svc.Bootstrap(context.Background(), adminTestInput("root@x.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, []string{"view"}, admin.Permissions)
	assert.NotEmpty(t, token)
}

func TestBootstrapRefusedOnceAdminExists(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestAdminService(repo, false)
	ctx := context.Background()

	_, _, _, err := svc.Bootstrap(ctx, adminTestInput("root@x.com"))
	require.NoError(t, err)

	_, _, _, err = svc.Bootstrap(ctx, adminTestInput("second@x.com"))
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 403, domainErr.HTTPStatus)
}

func TestBootstrapOverrideFlag(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	_, _, _, err := newTestAdminService(repo, false).Bootstrap(ctx, adminTestInput("root@x.com"))
	require.NoError(t, err)

	// deliberate escape hatch: re-enabled via configuration
	_, _, _, err = newTestAdminService(repo, true).Bootstrap(ctx, adminTestInput("second@x.com"))
	assert.NoError(t, err)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestAdminService(repo, false)
	ctx := context.Background()

	creator, _, _, err := svc.Bootstrap(ctx, adminTestInput("root@x.com"))
	require.NoError(t, err)

	_, _, _, err = svc.CreateAdmin(ctx, adminTestInput("root@x.com"), creator.ID)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestCreateAdminRequiresDepartment(t *testing.T) {
	svc := newTestAdminService(repository.NewMemory(), false)

	input := adminTestInput("root@x.com")
	input.Department = ""
	_, _, _, err := svc.CreateAdmin(context.Background(), input, "")
	assert.Error(t, err)
}

func TestListCustomersPaginationAndSearch(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestAdminService(repo, false)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		user := &domain.User{
			FirstName:    fmt.Sprintf("Customer%02d", i),
			LastName:     "Test",
			Email:        fmt.Sprintf("c%02d@x.com", i),
			PasswordHash: "hash",
			Phone:        fmt.Sprintf("555%07d", i),
			Role:         domain.RoleCustomer,
		}
		require.NoError(t, repo.Create(ctx, user))
	}
	agent := &domain.User{
		FirstName: "Agent", LastName: "Test", Email: "agent@x.com",
		PasswordHash: "hash", Phone: "5559999999", Role: domain.RoleAgent,
	}
	require.NoError(t, repo.Create(ctx, agent))

	listing, err := svc.ListCustomers(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(15), listing.Total)
	assert.Len(t, listing.Items, 10)
	for _, item := range listing.Items {
		assert.Equal(t, domain.RoleCustomer, item.Role)
	}

	second, err := svc.ListCustomers(ctx, "", 2, 10)
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)

	// defaults and caps
	defaulted, err := svc.ListCustomers(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), defaulted.Page)
	assert.Equal(t, int64(10), defaulted.Limit)

	capped, err := svc.ListCustomers(ctx, "", 1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(100), capped.Limit)

	searched, err := svc.ListCustomers(ctx, "customer03", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), searched.Total)
	assert.Equal(t, "c03@x.com", searched.Items[0].Email)
}

func TestListAgentsFiltersRole(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestAdminService(repo, false)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{
		FirstName: "Agent", LastName: "One", Email: "agent@x.com",
		PasswordHash: "hash", Phone: "5551111111", Role: domain.RoleAgent,
	}))
	require.NoError(t, repo.Create(ctx, &domain.User{
		FirstName: "Customer", LastName: "One", Email: "cust@x.com",
		PasswordHash: "hash", Phone: "5552222222", Role: domain.RoleCustomer,
	}))

	listing, err := svc.ListAgents(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.Total)
	assert.Equal(t, "agent@x.com", listing.Items[0].Email)
}
