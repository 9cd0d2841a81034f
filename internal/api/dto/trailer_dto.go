package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// TrailerRequest payload for creating or replacing a trailer.
type TrailerRequest struct {
	TrailerNo          string               `json:"trailerNo"`
	Description        string               `json:"description"`
	VinNo              string               `json:"vinNo"`
	LicensePlate       string               `json:"licensePlate"`
	RegistrationExpiry *Date                `json:"registrationExpiry"`
	OldLicensePlate    string               `json:"oldLicensePlate"`
	Value              decimal.Decimal      `json:"value"`
	Rent               decimal.Decimal      `json:"rent"`
	Advance            decimal.Decimal      `json:"advance"`
	Status             domain.TrailerStatus `json:"status"`
}

// Input converts the request for the service.
func (r TrailerRequest) Input() service.TrailerInput {
	return service.TrailerInput{
		TrailerNo:          r.TrailerNo,
		Description:        r.Description,
		VinNo:              r.VinNo,
		LicensePlate:       r.LicensePlate,
		RegistrationExpiry: r.RegistrationExpiry.Ptr(),
		OldLicensePlate:    r.OldLicensePlate,
		Value:              r.Value,
		Rent:               r.Rent,
		Advance:            r.Advance,
		Status:             r.Status,
	}
}

// LeaseRequest hands a trailer to a customer.
type LeaseRequest struct {
	Customer   string `json:"customer"`
	LeaseStart *Date  `json:"leaseStart"`
	LeaseEnd   *Date  `json:"leaseEnd"`
}

// TrailerResponse is the public view of a trailer.
type TrailerResponse struct {
	ID                 string               `json:"id"`
	TrailerNo          string               `json:"trailerNo"`
	Description        string               `json:"description"`
	VinNo              string               `json:"vinNo"`
	LicensePlate       string               `json:"licensePlate"`
	RegistrationExpiry time.Time            `json:"registrationExpiry"`
	OldLicensePlate    string               `json:"oldLicensePlate,omitempty"`
	Value              decimal.Decimal      `json:"value"`
	Rent               decimal.Decimal      `json:"rent"`
	Advance            decimal.Decimal      `json:"advance"`
	Status             domain.TrailerStatus `json:"status"`
	LeasedTo           *string              `json:"leasedTo,omitempty"`
	LeaseStart         *time.Time           `json:"leaseStart,omitempty"`
	LeaseEnd           *time.Time           `json:"leaseEnd,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// NewTrailerResponse maps a trailer.
func NewTrailerResponse(t *domain.Trailer) TrailerResponse {
	return TrailerResponse{
		ID:                 t.ID,
		TrailerNo:          t.TrailerNo,
		Description:        t.Description,
		VinNo:              t.VinNo,
		LicensePlate:       t.LicensePlate,
		RegistrationExpiry: t.RegistrationExpiry,
		OldLicensePlate:    t.OldLicensePlate,
		Value:              t.Value,
		Rent:               t.Rent,
		Advance:            t.Advance,
		Status:             t.Status,
		LeasedTo:           t.LeasedTo,
		LeaseStart:         t.LeaseStart,
		LeaseEnd:           t.LeaseEnd,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// NewTrailerList maps trailers.
func NewTrailerList(trailers []domain.Trailer) []TrailerResponse {
	out := make([]TrailerResponse, 0, len(trailers))
	for i := range trailers {
		out = append(out, NewTrailerResponse(&trailers[i]))
	}
	return out
}
