package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/observability"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"fiber not found", fiber.ErrNotFound, "NOT_FOUND", fiber.StatusNotFound},
		{"fiber body too large", fiber.ErrRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fiber.StatusRequestEntityTooLarge},
		{"fiber other", fiber.ErrTeapot, "HTTP_ERROR", fiber.StatusTeapot},
		{"deadline", context.DeadlineExceeded, "TIMEOUT", fiber.StatusGatewayTimeout},
		{"domain", apperrors.NewConflict("dup", nil), "CONFLICT", fiber.StatusConflict},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toDomainError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp.Body).Error.Code)
}

func TestErrorMiddlewareRendersDetails(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Post("/validate", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("validation failed", map[string]any{"title": "is required"})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/validate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeError(t, resp.Body)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, "is required", body.Error.Details["title"])
}
