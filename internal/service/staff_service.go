package service

import (
	"context"
	"strings"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// StaffInput is the writable part of a staff record.
type StaffInput struct {
	Name       string
	RoleLabel  string
	Department domain.Department
	Contact    string
	Active     *bool
	UserID     *string
}

// StaffService manages personnel records.
type StaffService struct {
	staff repository.StaffRepository
	users repository.UserRepository
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, users repository.UserRepository) *StaffService {
	return &StaffService{staff: staff, users: users}
}

func (s *StaffService) validate(ctx context.Context, in *StaffInput) error {
	errs := fieldErrors{}
	errs.require("name", in.Name)
	errs.require("role", in.RoleLabel)
	errs.require("contact", in.Contact)
	if in.Department == "" {
		in.Department = domain.DepartmentOperations
	} else if !in.Department.Valid() {
		errs.add("department", "must be one of Operations, Sales, HR, Finance, Drivers")
	}
	if err := errs.err(); err != nil {
		return err
	}
	if in.UserID != nil && *in.UserID != "" {
		if _, err := s.users.GetByID(ctx, *in.UserID); err != nil {
			return lookupError(err, "user", map[string]any{"user_id": *in.UserID})
		}
	}
	return nil
}

// Create adds a staff record. New records are active unless stated otherwise.
func (s *StaffService) Create(ctx context.Context, in StaffInput) (*domain.StaffMember, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	staff := &domain.StaffMember{
		Name:       strings.TrimSpace(in.Name),
		RoleLabel:  strings.TrimSpace(in.RoleLabel),
		Department: in.Department,
		Contact:    strings.TrimSpace(in.Contact),
		Active:     in.Active == nil || *in.Active,
		UserID:     in.UserID,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// List lists staff with filters.
func (s *StaffService) List(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	staff, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// Get fetches staff.
func (s *StaffService) Get(ctx context.Context, id string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "staff member", map[string]any{"staff_id": id})
	}
	return staff, nil
}

// Update replaces staff details. A nil UserID keeps the existing link.
func (s *StaffService) Update(ctx context.Context, id string, in StaffInput) (*domain.StaffMember, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	staff, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.Name = strings.TrimSpace(in.Name)
	staff.RoleLabel = strings.TrimSpace(in.RoleLabel)
	staff.Department = in.Department
	staff.Contact = strings.TrimSpace(in.Contact)
	if in.Active != nil {
		staff.Active = *in.Active
	}
	if in.UserID != nil {
		staff.UserID = in.UserID
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, lookupError(err, "staff member", map[string]any{"staff_id": id})
	}
	return staff, nil
}

// Delete removes a staff record. Tasks that reference it keep the dangling id.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return lookupError(err, "staff member", map[string]any{"staff_id": id})
	}
	return nil
}
