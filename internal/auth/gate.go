package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/domain"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// Gate turns permission checks into fiber guards.
type Gate struct {
	table *PermissionTable
}

// NewGate wires the gate to an immutable permission table.
func NewGate(table *PermissionTable) *Gate {
	return &Gate{table: table}
}

// Allowed reports whether actor may perform action on resource.
func (g *Gate) Allowed(actor domain.Actor, resource Resource, action Action) bool {
	return g.table.HasPermission(actor.Role, resource, action)
}

// RequirePermission rejects the request unless the actor's role grants action on resource.
func (g *Gate) RequirePermission(resource Resource, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !g.Allowed(actor, resource, action) {
			return apperrors.NewForbidden("you do not have permission to " + string(action) + " " + string(resource))
		}
		return c.Next()
	}
}

// RequireRole rejects the request unless the actor holds one of the allowed roles.
func (g *Gate) RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[actor.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated only checks that an actor is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
