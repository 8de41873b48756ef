package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsRequestCount(t *testing.T) {
	metrics := NewMetrics()

	assert.Zero(t, metrics.RequestCount("/api/login", "POST", 200))

	metrics.RecordRequest("/api/login", "POST", 200, 5*time.Millisecond)
	metrics.RecordRequest("/api/login", "POST", 200, 7*time.Millisecond)
	metrics.RecordRequest("/api/login", "POST", 401, time.Millisecond)

	assert.Equal(t, int64(2), metrics.RequestCount("/api/login", "POST", 200))
	assert.Equal(t, int64(1), metrics.RequestCount("/api/login", "POST", 401))
	assert.Zero(t, metrics.RequestCount("/api/register", "POST", 200))
}

func TestMetricsNilReceiver(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("/p", "GET", 200, time.Millisecond)
	metrics.RecordError("/p", "GET", "INTERNAL_ERROR")
	assert.Zero(t, metrics.RequestCount("/p", "GET", 200))
}

func TestRequestLoggerRecordsMetricsAndRequestID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, int64(1), metrics.RequestCount("/ping", "GET", 200))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "fixed-id", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, int64(2), metrics.RequestCount("/ping", "GET", 200))
}
