package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// CustomersHandler manages customer endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customerService}
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	filter := repository.CustomerFilter{Search: c.Query("q")}
	if v := optional(c.Query("type")); v != nil {
		t := domain.CustomerType(*v)
		filter.Type = &t
	}
	filter.Limit, filter.Offset = page(c)

	customers, err := h.customers.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return data(c, dto.NewCustomerList(customers))
}

// Get handles GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewCustomerResponse(customer))
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return created(c, dto.NewCustomerResponse(customer))
}

// Update handles PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return data(c, dto.NewCustomerResponse(customer))
}

// Delete handles DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.customers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
