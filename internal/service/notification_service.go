package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/mailer"
)

// NotificationService reacts to account events. Its main job is delivering
// password reset emails; when no mailer is configured it logs the token so
// the flow can be completed in local development.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       mailer.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mail:       mail,
		logger:     logger.Named("NotificationService"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
	n.dispatcher.Subscribe(events.EventAdminCreated, n.handleAdminCreated)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("UserRegistered",
		zap.String("user_id", event.UserID),
		zap.String("role", string(event.Role)))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("PasswordResetRequested with unexpected payload", zap.String("user_id", event.UserID))
		return nil
	}

	if n.mail != nil && n.mail.Enabled() {
		if err := n.mail.SendPasswordReset(event.Email, payload.RecipientName, payload.Token); err != nil {
			n.logger.Error("failed to deliver reset email", zap.String("user_id", event.UserID), zap.Error(err))
			return err
		}
		return nil
	}

	// Dev fallback, matches the behavior this service replaces: without a
	// configured sender the token is logged so the flow stays completable.
	n.logger.Info("mailer not configured, reset token logged for development",
		zap.String("email", event.Email),
		zap.String("token", payload.Token))
	return nil
}

func (n *NotificationService) handlePasswordResetCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("PasswordResetCompleted", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleAdminCreated(_ context.Context, event events.Event) error {
	n.logger.Info("AdminCreated", zap.String("user_id", event.UserID))
	return nil
}
