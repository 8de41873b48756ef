package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection values. Redis is optional; when Addr is
// empty the rate limiter falls back to in-process counters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	AccessTokenTTLHours  int
	ResetTokenTTLMinutes int
	BcryptCost           int
}

// MailConfig configures the reset-email sender. When SMTPHost is empty the
// mailer is disabled and reset tokens are only logged. DevMode additionally
// returns the raw token in the forgot-password response body; it exists for
// local development and must never be enabled in production.
type MailConfig struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromEmail   string
	SenderName  string
	FrontendURL string
	DevMode     bool
}

// RateLimitConfig holds fixed-window thresholds per client address.
type RateLimitConfig struct {
	LoginMax              int
	LoginWindowSeconds    int
	PasswordMax           int
	PasswordWindowSeconds int
}

// AdminConfig guards the one-time bootstrap endpoint. BootstrapEnable
// re-opens it after the first admin exists; deployment escape hatch only.
type AdminConfig struct {
	BootstrapEnable bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "delivery-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "deliveryApp"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLHours:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_HOURS", 24),
			ResetTokenTTLMinutes: getEnvAsInt("AUTH_RESET_TOKEN_TTL_MINUTES", 60),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Mail: MailConfig{
			SMTPHost:    os.Getenv("MAIL_SMTP_HOST"),
			SMTPPort:    getEnvAsInt("MAIL_SMTP_PORT", 587),
			Username:    os.Getenv("MAIL_SMTP_USERNAME"),
			Password:    os.Getenv("MAIL_SMTP_PASSWORD"),
			FromEmail:   getEnv("MAIL_FROM_EMAIL", "no-reply@example.com"),
			SenderName:  getEnv("MAIL_SENDER_NAME", "Delivery Service"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
			DevMode:     getEnvAsBool("MAIL_DEV_MODE", false),
		},
		RateLimit: RateLimitConfig{
			LoginMax:              getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 5),
			LoginWindowSeconds:    getEnvAsInt("RATE_LIMIT_LOGIN_WINDOW_SECONDS", 60),
			PasswordMax:           getEnvAsInt("RATE_LIMIT_PASSWORD_MAX", 5),
			PasswordWindowSeconds: getEnvAsInt("RATE_LIMIT_PASSWORD_WINDOW_SECONDS", 900),
		},
		Admin: AdminConfig{
			BootstrapEnable: getEnvAsBool("ADMIN_BOOTSTRAP_ENABLE", false),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLHours) * time.Hour
}

// ResetTokenTTL returns the password reset token lifetime.
func (a AuthConfig) ResetTokenTTL() time.Duration {
	if a.ResetTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.ResetTokenTTLMinutes) * time.Minute
}

// Enabled reports whether an SMTP sender is configured.
func (m MailConfig) Enabled() bool {
	return m.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
