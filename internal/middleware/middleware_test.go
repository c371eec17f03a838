package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetAPIVersion(c))
	})

	tests := map[string]string{
		"":      DefaultAPIVersion,
		"1.0":   DefaultAPIVersion,
		"2.1.0": "2.1.0",
	}
	for header, want := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("X-Api-Version", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Header.Get("X-Api-Version"))
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(RequestID(zerolog.New(&logs)))
	app.Get("/", func(c *fiber.Ctx) error {
		zerolog.Ctx(c.UserContext()).Info().Msg("inside")
		return c.SendString(GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDHeader)
	assert.Len(t, id, 36)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, id, line["request_id"])
	assert.Equal(t, "GET", line["method"])
}

func TestRequestIDPropagated(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID(zerolog.Nop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(RequestID(zerolog.New(&logs)))
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(200), line["status"])

	logs.Reset()
	_, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, float64(fiber.StatusTeapot), line["status"])
	assert.Equal(t, DefaultAPIVersion, line["api_version"])
}

func TestRequestLoggerAPIVersion(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(RequestID(zerolog.New(&logs)))
	app.Use(RequestLogger())
	api := app.Group("/api", VersionMiddleware())
	api.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/ok", nil)
	req.Header.Set("X-Api-Version", "2.1.0")
	_, err := app.Test(req)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "2.1.0", line["api_version"])
	assert.NotEmpty(t, line["request_id"])
}
