package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/domain"
	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/repository"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AdminService handles admin account creation, the one-time bootstrap, and
// account listings.
type AdminService struct {
	users           repository.UserRepository
	dispatcher      events.Dispatcher
	tokenMgr        *auth.TokenManager
	bcryptCost      int
	bootstrapEnable bool
}

// AdminDependencies encapsulates requirements for the admin service.
type AdminDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	TokenMgr   *auth.TokenManager
}

// NewAdminService builds the service.
func NewAdminService(authCfg config.AuthConfig, adminCfg config.AdminConfig, deps AdminDependencies) *AdminService {
	return &AdminService{
		users:           deps.UserRepo,
		dispatcher:      deps.Dispatcher,
		tokenMgr:        deps.TokenMgr,
		bcryptCost:      authCfg.BcryptCost,
		bootstrapEnable: adminCfg.BootstrapEnable,
	}
}

// AdminInput is the payload for admin creation and bootstrap.
type AdminInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       string
	Department  string
	Permissions []string
}

// CreateAdmin creates an admin account on behalf of an existing admin.
func (s *AdminService) CreateAdmin(ctx context.Context, input AdminInput, createdBy string) (*domain.User, string, time.Time, error) {
	return s.createAdmin(ctx, input, createdBy)
}

// Bootstrap creates the first admin account. Once any admin exists the
// endpoint refuses unless explicitly re-enabled via configuration; this is
// a deployment escape hatch, not a general admin-creation path.
func (s *AdminService) Bootstrap(ctx context.Context, input AdminInput) (*domain.User, string, time.Time, error) {
	count, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if count > 0 && !s.bootstrapEnable {
		return nil, "", time.Time{}, apperrors.NewForbidden("Admin already exists. Bootstrap disabled.")
	}
	return s.createAdmin(ctx, input, "")
}

func (s *AdminService) createAdmin(ctx context.Context, input AdminInput, createdBy string) (*domain.User, string, time.Time, error) {
	if !auth.ValidatePasswordPolicy(input.Password) {
		return nil, "", time.Time{}, apperrors.NewValidationError(passwordPolicyMessage, nil)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("A valid email is required", nil)
	}
	if input.Department == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("Department is required", nil)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	permissions := input.Permissions
	if len(permissions) == 0 {
		permissions = []string{"view"}
	}

	admin := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         domain.RoleAdmin,
		Department:   input.Department,
		Permissions:  permissions,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, "", time.Time{}, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAdminCreated,
			UserID:    admin.ID,
			Email:     admin.Email,
			Role:      admin.Role,
			Timestamp: time.Now(),
			Payload:   events.AdminCreatedPayload{Department: admin.Department, ByUserID: createdBy},
		})
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// Listing is a page of accounts.
type Listing struct {
	Items []*domain.User
	Total int64
	Page  int64
	Limit int64
}

// ListCustomers returns a searchable, paginated customer listing.
func (s *AdminService) ListCustomers(ctx context.Context, query string, page, limit int64) (*Listing, error) {
	return s.list(ctx, domain.RoleCustomer, query, page, limit)
}

// ListAgents returns a searchable, paginated agent listing.
func (s *AdminService) ListAgents(ctx context.Context, query string, page, limit int64) (*Listing, error) {
	return s.list(ctx, domain.RoleAgent, query, page, limit)
}

func (s *AdminService) list(ctx context.Context, role domain.Role, query string, page, limit int64) (*Listing, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.users.Search(ctx, role, query, page, limit)
	if err != nil {
		return nil, err
	}
	return &Listing{Items: items, Total: total, Page: page, Limit: limit}, nil
}
