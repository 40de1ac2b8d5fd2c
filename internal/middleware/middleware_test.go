package middleware

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRateLimiter_PerKey(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	limiter := NewRateLimiter(2)

	app := fiber.New()
	app.Use(limiter.Handler(func(c *fiber.Ctx) string { return c.Get("X-Client") }, zap.New(core)))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	call := func(client string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Client", client)
		res, err := app.Test(req)
		require.NoError(t, err)
		return res.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, call("a"))
	assert.Equal(t, fiber.StatusOK, call("a"))
	assert.Equal(t, fiber.StatusTooManyRequests, call("a"))
	assert.Equal(t, fiber.StatusOK, call("b"), "limits are tracked per client")
	assert.Equal(t, 1, logs.FilterMessage("Rate limit exceeded").Len())
}

func TestRateLimiter_Body(t *testing.T) {
	app := fiber.New()
	app.Use(NewRateLimiter(1).Handler(nil, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, fiber.StatusTooManyRequests, res.StatusCode)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Try again later."}`, string(body))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	_, err := app.Test(httptest.NewRequest("GET", "/ok?x=1", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok?x=1", entries[0].ContextMap()["url"])
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1)
	limiter.now = func() time.Time { return now }

	app := fiber.New()
	app.Use(limiter.Handler(func(c *fiber.Ctx) string { return c.Get("X-Client") }, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	call := func(client string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Client", client)
		res, err := app.Test(req)
		require.NoError(t, err)
		return res.StatusCode
	}

	for i := 0; i < 50; i++ {
		call(fmt.Sprintf("client-%d", i))
	}
	now = now.Add(20 * time.Minute)
	assert.Equal(t, fiber.StatusOK, call("recent"))
	assert.Equal(t, fiber.StatusTooManyRequests, call("recent"))
	require.Equal(t, 51, limiter.size())

	assert.Equal(t, 50, limiter.Sweep(10*time.Minute))
	assert.Equal(t, 1, limiter.size())
	assert.Equal(t, fiber.StatusTooManyRequests, call("recent"), "active clients keep their bucket")
}
