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

// ErrInvalidCredentials is returned for both unknown email and wrong
// password so callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

const passwordPolicyMessage = "Password must be 8 to 72 characters and include both letters and numbers."

// AuthService coordinates registration, login, and the reset token
// lifecycle. Concurrent resets for the same account are last-writer-wins;
// no locking is applied.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	TokenMgr   *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   deps.TokenMgr,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.ResetTokenTTL(),
	}
}

// RegisterInput is the payload for self-registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      string
	Address   *domain.Address
}

// Register creates a customer or agent account and issues a session token.
// Admin accounts cannot self-register.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	role, ok := domain.ParseRole(input.Role)
	if !ok || role == domain.RoleAdmin {
		return nil, "", time.Time{}, apperrors.NewValidationError("Invalid role specified", nil)
	}
	if !auth.ValidatePasswordPolicy(input.Password) {
		return nil, "", time.Time{}, apperrors.NewValidationError(passwordPolicyMessage, nil)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("A valid email is required", nil)
	}
	if input.Address == nil || !input.Address.Complete() {
		return nil, "", time.Time{}, apperrors.NewValidationError("All address fields are required", nil)
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

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         role,
		Address:      input.Address,
	}
	if role == domain.RoleAgent {
		user.Available = true
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user, events.UserRegisteredPayload{FirstName: user.FirstName})

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates any role by email and issues a session token carrying
// id, email and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ForgotPassword issues a reset token for a known email: a random token is
// generated, its hash and expiry stored on the record (overwriting any
// previous pair), and a reset-requested event published for mail delivery.
// Unknown emails return an empty token and no error so the endpoint can
// answer identically and prevent account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return "", err
	}
	tokenHash, err := auth.HashResetToken(token, s.bcryptCost)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return "", err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user, events.PasswordResetRequestedPayload{
		RecipientName: user.FullName(),
		Token:         token,
		ExpiresAt:     expiresAt,
	})
	return token, nil
}

// ResetPassword consumes a reset token: on a matching hash with an unexpired
// expiry, the password is replaced and the token pair cleared in one write.
// An expired or mismatched token fails without clearing the stored hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if !auth.ValidatePasswordPolicy(newPassword) {
		return apperrors.NewValidationError(passwordPolicyMessage, nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("Invalid token or email", nil)
		}
		return err
	}

	if !auth.VerifyResetToken(user, token) {
		return apperrors.NewValidationError("Invalid or expired token", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetCompleted, user, nil)
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
