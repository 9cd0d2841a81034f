package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// TrailersHandler manages fleet endpoints.
type TrailersHandler struct {
	trailers *service.TrailerService
}

// NewTrailersHandler constructs handler.
func NewTrailersHandler(trailerService *service.TrailerService) *TrailersHandler {
	return &TrailersHandler{trailers: trailerService}
}

// List handles GET /trailers.
func (h *TrailersHandler) List(c *fiber.Ctx) error {
	filter := repository.TrailerFilter{Search: c.Query("q")}
	if v := optional(c.Query("status")); v != nil {
		status := domain.TrailerStatus(*v)
		filter.Status = &status
	}
	filter.Limit, filter.Offset = page(c)

	trailers, err := h.trailers.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, dto.NewTrailerList(trailers))
}

// Get handles GET /trailers/:id.
func (h *TrailersHandler) Get(c *fiber.Ctx) error {
	trailer, err := h.trailers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTrailerResponse(trailer))
}

// Create handles POST /trailers.
func (h *TrailersHandler) Create(c *fiber.Ctx) error {
	var req dto.TrailerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	trailer, err := h.trailers.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return created(c, dto.NewTrailerResponse(trailer))
}

// Update handles PUT /trailers/:id.
func (h *TrailersHandler) Update(c *fiber.Ctx) error {
	var req dto.TrailerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	trailer, err := h.trailers.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return data(c, dto.NewTrailerResponse(trailer))
}

// Delete handles DELETE /trailers/:id.
func (h *TrailersHandler) Delete(c *fiber.Ctx) error {
	if err := h.trailers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Lease handles POST /trailers/:id/lease.
func (h *TrailersHandler) Lease(c *fiber.Ctx) error {
	var req dto.LeaseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var start, end time.Time
	if p := req.LeaseStart.Ptr(); p != nil {
		start = *p
	}
	if p := req.LeaseEnd.Ptr(); p != nil {
		end = *p
	}
	trailer, err := h.trailers.Lease(c.UserContext(), c.Params("id"), req.Customer, start, end)
	if err != nil {
		return err
	}
	return data(c, dto.NewTrailerResponse(trailer))
}

// Return handles POST /trailers/:id/return.
func (h *TrailersHandler) Return(c *fiber.Ctx) error {
	trailer, err := h.trailers.Return(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTrailerResponse(trailer))
}
