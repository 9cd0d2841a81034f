package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// UsersHandler exposes authentication and user approval endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    dto.NewUserResponse(user),
		"message": "registration received; an administrator must approve your account",
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}

// Me handles GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Me(c.UserContext(), a)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserResponse(user))
}

// Logout handles POST /auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), a); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPending handles GET /users/pending.
func (h *UsersHandler) ListPending(c *fiber.Ctx) error {
	limit, offset := page(c)
	users, err := h.auth.ListPending(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserList(users))
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := repository.UserFilter{}
	if v := optional(c.Query("approvalStatus")); v != nil {
		status := domain.ApprovalStatus(*v)
		filter.ApprovalStatus = &status
	}
	if v := optional(c.Query("role")); v != nil {
		role := domain.Role(*v)
		filter.Role = &role
	}
	filter.Limit, filter.Offset = page(c)
	users, err := h.auth.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserList(users))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewUserResponse(user))
}

// Approve handles PATCH /users/:id/approve.
func (h *UsersHandler) Approve(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Approve(c.UserContext(), a, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewUserResponse(user))
}

// Reject handles PATCH /users/:id/reject.
func (h *UsersHandler) Reject(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	user, err := h.auth.Reject(c.UserContext(), a, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return data(c, dto.NewUserResponse(user))
}
