package mailer

import "go.uber.org/zap"

// DisabledMailer is used when no SMTP host is configured. It never delivers;
// the notification service falls back to logging the token for development.
type DisabledMailer struct {
	logger *zap.Logger
}

// NewDisabledMailer creates a no-op mailer.
func NewDisabledMailer(logger *zap.Logger) *DisabledMailer {
	return &DisabledMailer{logger: logger.Named("DisabledMailer")}
}

// Enabled always reports false.
func (d *DisabledMailer) Enabled() bool {
	return false
}

// SendPasswordReset drops the message.
func (d *DisabledMailer) SendPasswordReset(toEmail, _ string, _ string) error {
	d.logger.Debug("mailer disabled, skipping reset email", zap.String("to", toEmail))
	return nil
}
