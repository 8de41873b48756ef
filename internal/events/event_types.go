package events

import (
	"time"

	"github.com/spec-kit/delivery-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
	EventAdminCreated           EventType = "admin_created"
)

// Event represents an account event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	FirstName string `json:"first_name"`
}

// PasswordResetRequestedPayload carries what the mail handler needs. Token
// is the plaintext reset token; it is never persisted and only surfaces in
// logs as the dev fallback when no mailer is configured.
type PasswordResetRequestedPayload struct {
	RecipientName string    `json:"recipient_name"`
	Token         string    `json:"-"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// AdminCreatedPayload payload.
type AdminCreatedPayload struct {
	Department string `json:"department"`
	ByUserID   string `json:"by_user_id,omitempty"`
}
