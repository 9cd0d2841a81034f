package dto

import (
	"time"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// StaffRequest payload for creating or updating a staff record.
type StaffRequest struct {
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Department   domain.Department `json:"department"`
	Contact      string            `json:"contact"`
	Active       *bool             `json:"active"`
	LinkedUserID *string           `json:"linkedUserId"`
}

// Input converts the request for the service.
func (r StaffRequest) Input() service.StaffInput {
	return service.StaffInput{
		Name:       r.Name,
		RoleLabel:  r.Role,
		Department: r.Department,
		Contact:    r.Contact,
		Active:     r.Active,
		UserID:     r.LinkedUserID,
	}
}

// StaffResponse is the public view of a staff record.
type StaffResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Department   domain.Department `json:"department"`
	Contact      string            `json:"contact"`
	Active       bool              `json:"active"`
	LinkedUserID *string           `json:"linkedUserId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// NewStaffResponse maps a staff member.
func NewStaffResponse(s *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Role:         s.RoleLabel,
		Department:   s.Department,
		Contact:      s.Contact,
		Active:       s.Active,
		LinkedUserID: s.UserID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// NewStaffList maps staff members.
func NewStaffList(staff []domain.StaffMember) []StaffResponse {
	out := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, NewStaffResponse(&staff[i]))
	}
	return out
}
