package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrailerStatus enumerates fleet availability.
type TrailerStatus string

const (
	TrailerActive      TrailerStatus = "active"
	TrailerInactive    TrailerStatus = "inactive"
	TrailerMaintenance TrailerStatus = "maintenance"
	TrailerLeased      TrailerStatus = "leased"
)

// Valid reports whether s is a known trailer status.
func (s TrailerStatus) Valid() bool {
	switch s {
	case TrailerActive, TrailerInactive, TrailerMaintenance, TrailerLeased:
		return true
	}
	return false
}

// Trailer is a company-owned unit available for lease.
type Trailer struct {
	ID                 string
	TrailerNo          string
	Description        string
	VinNo              string
	LicensePlate       string
	RegistrationExpiry time.Time
	OldLicensePlate    string
	Value              decimal.Decimal
	Rent               decimal.Decimal
	Advance            decimal.Decimal
	Status             TrailerStatus
	LeasedTo           *string
	LeaseStart         *time.Time
	LeaseEnd           *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Lease hands the trailer to a customer for the given period.
func (t *Trailer) Lease(customerID string, start, end time.Time) error {
	if t.Status != TrailerActive {
		return ErrTrailerNotAvailable
	}
	t.Status = TrailerLeased
	t.LeasedTo = &customerID
	t.LeaseStart = &start
	t.LeaseEnd = &end
	return nil
}

// Return puts a leased trailer back into the active pool.
func (t *Trailer) Return() error {
	if t.Status != TrailerLeased {
		return ErrTrailerNotLeased
	}
	t.Status = TrailerActive
	t.LeasedTo = nil
	t.LeaseStart = nil
	t.LeaseEnd = nil
	return nil
}
