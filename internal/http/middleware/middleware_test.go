package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodshare/internal/model"
	"foodshare/internal/service"
	serviceMocks "foodshare/internal/service/mocks"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace an oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", maxRequestIDLen+1))

		resp, _ := app.Test(req)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.Less(t, len(rid), maxRequestIDLen)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(Logger(zerolog.New(&buf)))

	var handlerRID string
	app.Get("/test", func(c *fiber.Ctx) error {
		zerolog.Ctx(c.UserContext()).Info().Msg("inside")
		handlerRID, _ = c.Locals(RequestIDLocalKey).(string)
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var inner map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inner))
	assert.Equal(t, handlerRID, inner["request_id"])

	var logData map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &logData))
	assert.Equal(t, handlerRID, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.Equal(t, "info", logData["level"])
	assert.NotNil(t, logData["latency"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(Logger(zerolog.New(&buf)))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	app.Test(httptest.NewRequest("GET", "/missing", nil))

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
	assert.Equal(t, "warn", logData["level"])
}

func TestRequireAuth(t *testing.T) {
	resolver := new(serviceMocks.MockAuthService)
	resolver.On("IdentityFromToken", mock.Anything, "good").Return(model.Identity{ID: "u-1", Role: model.RoleAdmin}, nil)
	resolver.On("IdentityFromToken", mock.Anything, "stale").
		Return(model.Identity{}, &service.Error{Kind: service.ErrUnauthorized, Message: "Token is not valid"})
	resolver.On("IdentityFromToken", mock.Anything, "boom").Return(model.Identity{}, errors.New("db down"))

	app := fiber.New()
	app.Use(RequireAuth(resolver))
	app.Get("/me", func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		return c.SendString(id.ID + ":" + string(id.Role))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", fiber.StatusOK, "u-1:admin"},
		{"scheme is case-insensitive", "bearer good", fiber.StatusOK, "u-1:admin"},
		{"missing header", "", fiber.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", "Basic good", fiber.StatusUnauthorized, "No token, authorization denied"},
		{"empty token", "Bearer ", fiber.StatusUnauthorized, "No token, authorization denied"},
		{"rejected token", "Bearer stale", fiber.StatusUnauthorized, "Token is not valid"},
		{"resolver failure", "Bearer boom", fiber.StatusInternalServerError, "db down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			buf := new(bytes.Buffer)
			buf.ReadFrom(resp.Body)
			assert.Equal(t, tt.wantBody, buf.String())
		})
	}
}

func TestIdentityFrom_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Equal(t, model.Identity{}, IdentityFrom(c))
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}
