package domain

import "time"

// ApprovalStatus tracks the registration review of a user.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// User is an authentication identity for back-office personnel.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	Phone           string
	Address         string
	ApprovalStatus  ApprovalStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Actor projects the user onto the identity used by authorization checks.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
