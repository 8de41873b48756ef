package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-service/internal/api/dto"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/repository"
	"github.com/spec-kit/delivery-service/internal/service"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

// AuthHandler exposes registration, login, and password-reset endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	mailCfg config.MailConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, mailCfg config.MailConfig) *AuthHandler {
	return &AuthHandler{auth: authService, mailCfg: mailCfg}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.Phone == "" || req.Role == "" {
		return apperrors.NewValidationError("firstName, lastName, email, password, phone and role are required", nil)
	}

	user, token, _, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      req.Role,
		Address:   req.Address,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperrors.NewConflict("Email already registered", nil)
		}
		return err
	}

	message := fmt.Sprintf("Registration successful! Welcome %s!", user.FirstName)
	return respond(c, http.StatusCreated, dto.NewUserResponse(user), message, token)
}

// Login handles POST /api/login. Unknown email and wrong password answer
// identically.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("Invalid email or password")
		}
		return err
	}

	return respond(c, http.StatusOK, dto.NewUserResponse(user), "", token)
}

// ForgotPassword handles POST /api/password/forgot. The response is the
// same for known and unknown emails. With MAIL_DEV_MODE set and no mail
// delivery, the raw token is returned in the body; local development only.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("Email is required", nil)
	}

	token, err := h.auth.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	if token != "" && !h.mailCfg.Enabled() && h.mailCfg.DevMode {
		return respond(c, http.StatusOK, nil, "Password reset token generated (dev)", token)
	}
	return respond(c, http.StatusOK, nil, "If that email is registered, a reset token has been sent.", "")
}

// ResetPassword handles POST /api/password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Token == "" || req.Password == "" {
		return apperrors.NewValidationError("Email, token and new password are required", nil)
	}

	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.Token, req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Password has been reset", "")
}
