package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// StaffHandler exposes staff record endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	filter := repository.StaffFilter{Search: c.Query("q")}
	if v := optional(c.Query("department")); v != nil {
		dept := domain.Department(*v)
		filter.Department = &dept
	}
	filter.Active = optionalBool(c.Query("active"))
	filter.Limit, filter.Offset = page(c)

	staff, err := h.staff.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, dto.NewStaffList(staff))
}

// Get handles GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.staff.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewStaffResponse(staff))
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	staff, err := h.staff.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return created(c, dto.NewStaffResponse(staff))
}

// Update handles PUT /staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	staff, err := h.staff.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return data(c, dto.NewStaffResponse(staff))
}

// Delete handles DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staff.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
