package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// TrailerInput is the writable part of a trailer.
type TrailerInput struct {
	TrailerNo          string
	Description        string
	VinNo              string
	LicensePlate       string
	RegistrationExpiry *time.Time
	OldLicensePlate    string
	Value              decimal.Decimal
	Rent               decimal.Decimal
	Advance            decimal.Decimal
	Status             domain.TrailerStatus
}

// TrailerService manages the fleet and its lease state.
type TrailerService struct {
	trailers  repository.TrailerRepository
	customers repository.CustomerRepository
}

// NewTrailerService constructs the service.
func NewTrailerService(trailers repository.TrailerRepository, customers repository.CustomerRepository) *TrailerService {
	return &TrailerService{trailers: trailers, customers: customers}
}

func validateTrailerInput(in *TrailerInput) error {
	errs := fieldErrors{}
	errs.require("trailerNo", in.TrailerNo)
	errs.require("description", in.Description)
	errs.require("vinNo", in.VinNo)
	errs.require("licensePlate", in.LicensePlate)
	if in.RegistrationExpiry == nil {
		errs.add("registrationExpiry", "is required")
	}
	for field, v := range map[string]decimal.Decimal{"value": in.Value, "rent": in.Rent, "advance": in.Advance} {
		if v.IsNegative() {
			errs.add(field, "must not be negative")
		}
	}
	if in.Status == "" {
		in.Status = domain.TrailerActive
	} else if !in.Status.Valid() {
		errs.add("status", "must be one of active, inactive, maintenance, leased")
	}
	return errs.err()
}

func (in TrailerInput) applyTo(t *domain.Trailer) {
	t.TrailerNo = strings.TrimSpace(in.TrailerNo)
	t.Description = in.Description
	t.VinNo = strings.TrimSpace(in.VinNo)
	t.LicensePlate = strings.TrimSpace(in.LicensePlate)
	t.RegistrationExpiry = *in.RegistrationExpiry
	t.OldLicensePlate = in.OldLicensePlate
	t.Value = in.Value
	t.Rent = in.Rent
	t.Advance = in.Advance
}

// Create registers a trailer. Trailer numbers are unique.
func (s *TrailerService) Create(ctx context.Context, in TrailerInput) (*domain.Trailer, error) {
	if err := validateTrailerInput(&in); err != nil {
		return nil, err
	}
	if in.Status == domain.TrailerLeased {
		return nil, apperrors.NewValidationError("use the lease operation to lease a trailer", map[string]any{"status": in.Status})
	}
	trailer := &domain.Trailer{Status: in.Status}
	in.applyTo(trailer)
	if err := s.trailers.Create(ctx, trailer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return trailer, nil
}

// List lists trailers.
func (s *TrailerService) List(ctx context.Context, filter repository.TrailerFilter) ([]domain.Trailer, error) {
	trailers, err := s.trailers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return trailers, nil
}

// Get fetches a trailer.
func (s *TrailerService) Get(ctx context.Context, id string) (*domain.Trailer, error) {
	trailer, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "trailer", map[string]any{"trailer_id": id})
	}
	return trailer, nil
}

// Update replaces trailer details. Lease fields only change through Lease and Return.
func (s *TrailerService) Update(ctx context.Context, id string, in TrailerInput) (*domain.Trailer, error) {
	if err := validateTrailerInput(&in); err != nil {
		return nil, err
	}
	trailer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if (in.Status == domain.TrailerLeased) != (trailer.Status == domain.TrailerLeased) {
		return nil, apperrors.NewValidationError("use the lease and return operations to change lease state",
			map[string]any{"status": in.Status})
	}
	in.applyTo(trailer)
	trailer.Status = in.Status
	if err := s.trailers.Update(ctx, trailer); err != nil {
		return nil, lookupError(err, "trailer", map[string]any{"trailer_id": id})
	}
	return trailer, nil
}

// Delete removes a trailer. Trailers still covered by a policy cannot be removed.
func (s *TrailerService) Delete(ctx context.Context, id string) error {
	if err := s.trailers.Delete(ctx, id); err != nil {
		return lookupError(err, "trailer", map[string]any{"trailer_id": id})
	}
	return nil
}

// Lease hands an active trailer to an existing customer.
func (s *TrailerService) Lease(ctx context.Context, id, customerID string, start, end time.Time) (*domain.Trailer, error) {
	errs := fieldErrors{}
	errs.require("customer", customerID)
	if start.IsZero() {
		errs.add("leaseStart", "is required")
	}
	if end.IsZero() {
		errs.add("leaseEnd", "is required")
	} else if !start.IsZero() && !end.After(start) {
		errs.add("leaseEnd", "must be after leaseStart")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	trailer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, lookupError(err, "customer", map[string]any{"customer_id": customerID})
	}
	if err := trailer.Lease(customerID, start, end); err != nil {
		return nil, leaseError(err, trailer)
	}
	if err := s.trailers.Update(ctx, trailer); err != nil {
		return nil, lookupError(err, "trailer", map[string]any{"trailer_id": id})
	}
	return trailer, nil
}

// Return ends the current lease.
func (s *TrailerService) Return(ctx context.Context, id string) (*domain.Trailer, error) {
	trailer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := trailer.Return(); err != nil {
		return nil, leaseError(err, trailer)
	}
	if err := s.trailers.Update(ctx, trailer); err != nil {
		return nil, lookupError(err, "trailer", map[string]any{"trailer_id": id})
	}
	return trailer, nil
}

func leaseError(err error, t *domain.Trailer) error {
	if errors.Is(err, domain.ErrTrailerNotAvailable) || errors.Is(err, domain.ErrTrailerNotLeased) {
		return apperrors.NewConflict(err.Error(), map[string]any{"trailer_id": t.ID, "status": t.Status})
	}
	return apperrors.MapError(err)
}
