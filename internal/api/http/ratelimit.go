package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/spec-kit/delivery-service/internal/config"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

// RateLimiters bundles the fixed-window limiters applied per client
// address. Counters live in the provided storage; with the default nil
// storage they are in-process and reset on restart.
type RateLimiters struct {
	Login    fiber.Handler
	Password fiber.Handler
}

// NewRateLimiters builds limiters from configuration. The login route and
// the two password-reset routes are limited independently; the password
// routes share one window.
func NewRateLimiters(cfg config.RateLimitConfig, storage fiber.Storage) RateLimiters {
	return RateLimiters{
		Login: newFixedWindow("login", cfg.LoginMax, time.Duration(cfg.LoginWindowSeconds)*time.Second, storage,
			"Too many login attempts. Please try again later."),
		Password: newFixedWindow("password", cfg.PasswordMax, time.Duration(cfg.PasswordWindowSeconds)*time.Second, storage,
			"Too many password requests. Please try again later."),
	}
}

func newFixedWindow(name string, max int, window time.Duration, storage fiber.Storage, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		Storage:           storage,
		LimiterMiddleware: limiter.FixedWindow{},
		// Keys are namespaced per limiter so the two windows never share
		// counters when backed by the same storage.
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return apperrors.NewRateLimited(message)
		},
	})
}
