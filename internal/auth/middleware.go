package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/domain"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const (
	actorKey = "auth_actor"
	userKey  = "auth_user"
)

// UserLookup resolves the user behind a token subject.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticator validates bearer tokens and loads the calling user.
type Authenticator struct {
	tokens *TokenManager
	users  UserLookup
}

// NewAuthenticator constructs middleware.
func NewAuthenticator(tokens *TokenManager, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The role is taken from the stored
// user, so approvals and role changes apply without reissuing tokens.
func (m *Authenticator) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.IsActive {
		return apperrors.NewUnauthorized("account is deactivated")
	}
	if user.ApprovalStatus != domain.ApprovalApproved {
		return apperrors.NewForbidden("account is not approved")
	}

	SetActor(c, user)
	return c.Next()
}

// SetActor stores the authenticated user on the request.
func SetActor(c *fiber.Ctx, user *domain.User) {
	c.Locals(userKey, user)
	c.Locals(actorKey, user.Actor())
}

// ActorFromContext retrieves the authenticated caller.
func ActorFromContext(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok
}

// UserFromContext retrieves the full authenticated user record.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}
