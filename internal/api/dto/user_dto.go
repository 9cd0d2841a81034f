package dto

import (
	"time"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// RegisterRequest payload for self-service registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RejectRequest carries an optional or mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Role            domain.Role           `json:"role"`
	Phone           string                `json:"phone,omitempty"`
	Address         string                `json:"address,omitempty"`
	ApprovalStatus  domain.ApprovalStatus `json:"approvalStatus"`
	ApprovedBy      *string               `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time            `json:"approvedAt,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Phone:           u.Phone,
		Address:         u.Address,
		ApprovalStatus:  u.ApprovalStatus,
		ApprovedBy:      u.ApprovedBy,
		ApprovedAt:      u.ApprovedAt,
		RejectionReason: u.RejectionReason,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// NewUserList maps users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
