package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/repository"
)

type capturingMailer struct {
	toEmail string
	toName  string
	token   string
	sends   int
}

func (m *capturingMailer) SendPasswordReset(toEmail, toName, token string) error {
	m.toEmail = toEmail
	m.toName = toName
	m.token = token
	m.sends++
	return nil
}

func (m *capturingMailer) Enabled() bool { return true }

func TestResetRequestDeliversMailWithFullName(t *testing.T) {
	cfg := testAuthConfig()
	repo := repository.NewMemory()
	dispatcher := events.NewInMemoryDispatcher()
	tokenMgr := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())

	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   repo,
		Dispatcher: dispatcher,
		TokenMgr:   tokenMgr,
	})

	mail := &capturingMailer{}
	NewNotificationService(dispatcher, mail, zap.NewNop()).RegisterHandlers()

	ctx := context.Background()
	_, _, _, err := svc.Register(ctx, customerInput("a@x.com"))
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, 1, mail.sends)
	assert.Equal(t, "a@x.com", mail.toEmail)
	assert.Equal(t, "Ada Lovelace", mail.toName)
	assert.Equal(t, token, mail.token)
}

func TestResetRequestUnknownEmailSendsNothing(t *testing.T) {
	cfg := testAuthConfig()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   repository.NewMemory(),
		Dispatcher: dispatcher,
		TokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
	})

	mail := &capturingMailer{}
	NewNotificationService(dispatcher, mail, zap.NewNop()).RegisterHandlers()

	token, err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Zero(t, mail.sends)
}
