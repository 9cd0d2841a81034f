package service

import (
	"context"
	"strings"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// CustomerInput is the writable part of a customer.
type CustomerInput struct {
	Name        string
	Contact     string
	Type        domain.CustomerType
	SSN         string
	DL          string
	WorkPermit  string
	CabCard     string
	TruckPolicy string
}

// CustomerService manages lessees.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (in *CustomerInput) validate() error {
	errs := fieldErrors{}
	errs.require("name", in.Name)
	errs.require("contact", in.Contact)
	if in.Type == "" {
		in.Type = domain.CustomerIndividual
	} else if !in.Type.Valid() {
		errs.add("type", "must be Individual or Company")
	}
	return errs.err()
}

func (in CustomerInput) applyTo(c *domain.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Contact = strings.TrimSpace(in.Contact)
	c.Type = in.Type
	c.SSN = in.SSN
	c.DL = in.DL
	c.WorkPermit = in.WorkPermit
	c.CabCard = in.CabCard
	c.TruckPolicy = in.TruckPolicy
}

// Create stores a customer.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	customer := &domain.Customer{}
	in.applyTo(customer)
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// List lists customers.
func (s *CustomerService) List(ctx context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// Get fetches a customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "customer", map[string]any{"customer_id": id})
	}
	return customer, nil
}

// Update replaces customer details.
func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(customer)
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, lookupError(err, "customer", map[string]any{"customer_id": id})
	}
	return customer, nil
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return lookupError(err, "customer", map[string]any{"customer_id": id})
	}
	return nil
}
