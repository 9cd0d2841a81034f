package domain

import "time"

// CustomerType distinguishes people from businesses.
type CustomerType string

const (
	CustomerIndividual CustomerType = "Individual"
	CustomerCompany    CustomerType = "Company"
)

// Valid reports whether t is a known customer type.
func (t CustomerType) Valid() bool {
	return t == CustomerIndividual || t == CustomerCompany
}

// Customer leases or buys trailers.
type Customer struct {
	ID          string
	Name        string
	Contact     string
	Type        CustomerType
	SSN         string
	DL          string
	WorkPermit  string
	CabCard     string
	TruckPolicy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
