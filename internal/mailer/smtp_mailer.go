package mailer

import (
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/delivery-service/internal/config"
)

// SMTPMailer implements the Mailer interface using net/smtp.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger.Named("SMTPMailer")}
}

// Enabled reports whether an SMTP host is configured.
func (s *SMTPMailer) Enabled() bool {
	return s.cfg.Enabled()
}

// SendPasswordReset sends the reset token and a frontend link via SMTP.
func (s *SMTPMailer) SendPasswordReset(toEmail, toName, token string) error {
	s.logger.Info("sending password reset email",
		zap.String("to", toEmail),
		zap.String("smtp_host", s.cfg.SMTPHost))

	resetURL := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		strings.TrimRight(s.cfg.FrontendURL, "/"),
		url.QueryEscape(toEmail),
		url.QueryEscape(token))

	textBody := fmt.Sprintf("Hello %s,\r\n\r\nYou requested a password reset. Use this token: %s\r\nOr open: %s\r\n\r\nIf you did not request this, ignore this email.\r\n",
		toName, token, resetURL)
	htmlBody := fmt.Sprintf("<p>Hello %s,</p><p>You requested a password reset.</p><p>Token: <b>%s</b></p><p>Or click <a href=%q>this link</a> to reset your password.</p>",
		toName, token, resetURL)

	msg := s.buildMessage(toEmail, "Password reset request", textBody, htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error("failed to send reset email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("send reset email: %w", err)
	}

	s.logger.Info("reset email sent", zap.String("to", toEmail))
	return nil
}

func (s *SMTPMailer) buildMessage(to, subject, textBody, htmlBody string) []byte {
	from := s.cfg.FromEmail
	if s.cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.SenderName, s.cfg.FromEmail)
	}

	const boundary = "delivery-mail-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
