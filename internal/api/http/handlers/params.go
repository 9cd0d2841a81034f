package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/auth"
	"github.com/spec-kit/trailer-admin/internal/domain"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const allFilter = "ALL"

func actor(c *fiber.Ctx) (domain.Actor, error) {
	a, ok := auth.ActorFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return a, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}

// page reads limit/offset, accepting page/pageSize as an alternative.
func page(c *fiber.Ctx) (limit, offset int) {
	limit = parseInt(c.Query("limit"), 0)
	offset = parseInt(c.Query("offset"), 0)
	if p := parseInt(c.Query("page"), 0); p > 0 {
		size := parseInt(c.Query("pageSize"), 50)
		return size, (p - 1) * size
	}
	return limit, offset
}

// optional returns nil for empty values and the "ALL" sentinel.
func optional(val string) *string {
	val = strings.TrimSpace(val)
	if val == "" || strings.EqualFold(val, allFilter) {
		return nil
	}
	return &val
}

func optionalBool(val string) *bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return nil
	}
	return &parsed
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func data(c *fiber.Ctx, payload any) error {
	return c.JSON(fiber.Map{"data": payload})
}

func created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": payload})
}
