package dto

import (
	"time"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// CustomerRequest payload for creating or replacing a customer.
type CustomerRequest struct {
	Name        string              `json:"name"`
	Contact     string              `json:"contact"`
	Type        domain.CustomerType `json:"type"`
	SSN         string              `json:"ssn"`
	DL          string              `json:"dl"`
	WorkPermit  string              `json:"workPermit"`
	CabCard     string              `json:"cabCard"`
	TruckPolicy string              `json:"truckPolicy"`
}

// Input converts the request for the service.
func (r CustomerRequest) Input() service.CustomerInput {
	return service.CustomerInput{
		Name:        r.Name,
		Contact:     r.Contact,
		Type:        r.Type,
		SSN:         r.SSN,
		DL:          r.DL,
		WorkPermit:  r.WorkPermit,
		CabCard:     r.CabCard,
		TruckPolicy: r.TruckPolicy,
	}
}

// CustomerResponse is the public view of a customer.
type CustomerResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Contact     string              `json:"contact"`
	Type        domain.CustomerType `json:"type"`
	SSN         string              `json:"ssn,omitempty"`
	DL          string              `json:"dl,omitempty"`
	WorkPermit  string              `json:"workPermit,omitempty"`
	CabCard     string              `json:"cabCard,omitempty"`
	TruckPolicy string              `json:"truckPolicy,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Contact:     c.Contact,
		Type:        c.Type,
		SSN:         c.SSN,
		DL:          c.DL,
		WorkPermit:  c.WorkPermit,
		CabCard:     c.CabCard,
		TruckPolicy: c.TruckPolicy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewCustomerList maps customers.
func NewCustomerList(customers []domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, NewCustomerResponse(&customers[i]))
	}
	return out
}
