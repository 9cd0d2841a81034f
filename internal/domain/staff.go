package domain

import "time"

// Department enumerates organisational units a staff member belongs to.
type Department string

const (
	DepartmentOperations Department = "Operations"
	DepartmentSales      Department = "Sales"
	DepartmentHR         Department = "HR"
	DepartmentFinance    Department = "Finance"
	DepartmentDrivers    Department = "Drivers"
)

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	switch d {
	case DepartmentOperations, DepartmentSales, DepartmentHR, DepartmentFinance, DepartmentDrivers:
		return true
	}
	return false
}

// StaffMember is the business-facing personnel record. RoleLabel is free text for display;
// authorization always goes through the linked user's Role.
type StaffMember struct {
	ID         string
	Name       string
	RoleLabel  string
	Department Department
	Contact    string
	Active     bool
	UserID     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
