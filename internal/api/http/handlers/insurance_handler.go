package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// InsuranceHandler exposes the policy lifecycle.
type InsuranceHandler struct {
	insurance *service.InsuranceService
	now       func() time.Time
}

// NewInsuranceHandler constructs handler.
func NewInsuranceHandler(insuranceService *service.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{insurance: insuranceService, now: time.Now}
}

func (h *InsuranceHandler) respond(c *fiber.Ctx, status int, p *domain.InsurancePolicy) error {
	return c.Status(status).JSON(fiber.Map{"data": dto.NewInsuranceResponse(p, h.now())})
}

// List handles GET /insurance.
func (h *InsuranceHandler) List(c *fiber.Ctx) error {
	q := service.InsuranceQuery{
		TrailerID:    optional(c.Query("trailer")),
		ExpiringSoon: c.QueryBool("expiringSoon"),
	}
	if v := optional(c.Query("status")); v != nil {
		status := domain.InsuranceStatus(*v)
		q.Status = &status
	}
	if v := optional(c.Query("verificationStatus")); v != nil {
		vs := domain.VerificationStatus(*v)
		q.VerificationStatus = &vs
	}
	q.Limit, q.Offset = page(c)

	policies, err := h.insurance.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return data(c, dto.NewInsuranceList(policies, h.now()))
}

// Stats handles GET /insurance/stats.
func (h *InsuranceHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.insurance.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, stats)
}

// Get handles GET /insurance/:id.
func (h *InsuranceHandler) Get(c *fiber.Ctx) error {
	p, err := h.insurance.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// Create handles POST /insurance.
func (h *InsuranceHandler) Create(c *fiber.Ctx) error {
	var req dto.InsuranceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.insurance.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusCreated, p)
}

// Update handles PUT /insurance/:id.
func (h *InsuranceHandler) Update(c *fiber.Ctx) error {
	var req dto.InsuranceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.insurance.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// Delete handles DELETE /insurance/:id.
func (h *InsuranceHandler) Delete(c *fiber.Ctx) error {
	if err := h.insurance.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel handles PATCH /insurance/:id/cancel.
func (h *InsuranceHandler) Cancel(c *fiber.Ctx) error {
	p, err := h.insurance.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// Verify handles PATCH /insurance/:id/verify.
func (h *InsuranceHandler) Verify(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	p, err := h.insurance.Verify(c.UserContext(), c.Params("id"), a.ID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// Reject handles PATCH /insurance/:id/reject.
func (h *InsuranceHandler) Reject(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.RejectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.insurance.Reject(c.UserContext(), c.Params("id"), a.ID, req.Reason)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// RequestUpdate handles PATCH /insurance/:id/request-update.
func (h *InsuranceHandler) RequestUpdate(c *fiber.Ctx) error {
	p, err := h.insurance.RequestUpdate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// AttachDocument handles POST /insurance/:id/documents.
func (h *InsuranceHandler) AttachDocument(c *fiber.Ctx) error {
	var req dto.AttachDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.insurance.AttachDocument(c.UserContext(), c.Params("id"), req.DocumentID, req.DocumentType)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// LinkDocuSign handles PATCH /insurance/:id/docusign.
func (h *InsuranceHandler) LinkDocuSign(c *fiber.Ctx) error {
	var req dto.DocuSignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.insurance.LinkDocuSign(c.UserContext(), c.Params("id"), req.EnvelopeID)
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// MarkNotified handles PATCH /insurance/:id/notified.
func (h *InsuranceHandler) MarkNotified(c *fiber.Ctx) error {
	p, err := h.insurance.MarkNotified(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.respond(c, fiber.StatusOK, p)
}

// SendReminders handles POST /insurance/reminders/run.
func (h *InsuranceHandler) SendReminders(c *fiber.Ctx) error {
	sent, err := h.insurance.SendDueReminders(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.Map{"sent": sent})
}
