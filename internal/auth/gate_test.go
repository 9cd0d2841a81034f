package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/trailer-admin/internal/domain"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const testSecret = "test-secret"

type stubUsers map[string]*domain.User

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func testUsers() stubUsers {
	return stubUsers{
		"admin-1":   {ID: "admin-1", Role: domain.RoleAdmin, IsActive: true, ApprovalStatus: domain.ApprovalApproved},
		"staff-1":   {ID: "staff-1", Role: domain.RoleStaff, IsActive: true, ApprovalStatus: domain.ApprovalApproved},
		"pending-1": {ID: "pending-1", Role: domain.RoleManager, IsActive: true, ApprovalStatus: domain.ApprovalPending},
		"off-1":     {ID: "off-1", Role: domain.RoleManager, IsActive: false, ApprovalStatus: domain.ApprovalApproved},
	}
}

func buildTestApp(t *testing.T, guard func(*Gate) fiber.Handler) (*fiber.App, *TokenManager, *int) {
	t.Helper()
	tokens := NewTokenManager(testSecret, 5)
	gate := NewGate(DefaultPermissionTable())
	authn := NewAuthenticator(tokens, testUsers())
	calls := 0

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	app.Post("/protected", authn.Handle, guard(gate), func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tokens, &calls
}

func doRequest(t *testing.T, app *fiber.App, tokens *TokenManager, userID string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if userID != "" {
		token, _, err := tokens.GenerateToken(&domain.User{ID: userID, Role: domain.RoleSuperAdmin})
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequirePermission(t *testing.T) {
	app, tokens, calls := buildTestApp(t, func(g *Gate) fiber.Handler {
		return g.RequirePermission(ResourceTrailers, ActionDelete)
	})

	resp := doRequest(t, app, tokens, "admin-1")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, *calls)

	resp = doRequest(t, app, tokens, "staff-1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, *calls, "handler must not run when denied")
}

func TestRoleComesFromStoredUser(t *testing.T) {
	app, tokens, calls := buildTestApp(t, func(g *Gate) fiber.Handler {
		return g.RequireRole(domain.RoleSuperAdmin)
	})

	// token claims super_admin but the stored user is staff
	resp := doRequest(t, app, tokens, "staff-1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, *calls)
}

func TestAuthenticatorRejects(t *testing.T) {
	app, tokens, calls := buildTestApp(t, func(*Gate) fiber.Handler { return RequireAuthenticated() })

	tests := []struct {
		name   string
		userID string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"unknown user", "ghost", http.StatusUnauthorized},
		{"inactive user", "off-1", http.StatusUnauthorized},
		{"pending user", "pending-1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, tokens, tt.userID)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
	assert.Zero(t, *calls)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuardsWithoutActor(t *testing.T) {
	gate := NewGate(DefaultPermissionTable())
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/perm", gate.RequirePermission(ResourceTasks, ActionRead), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/role", gate.RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for _, path := range []string{"/perm", "/role"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
