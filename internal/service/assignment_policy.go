package service

import (
	"context"
	"net/http"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const (
	ReasonAssigneeNotFound = "assignee not found"
	ReasonAssignUpward     = "you may only assign tasks to users at your role level or below"
)

// AssignmentDecision is the outcome of an assignment check.
type AssignmentDecision struct {
	Allowed bool
	Reason  string
}

// Err converts a denial into a Forbidden error; nil when allowed.
func (d AssignmentDecision) Err(assigneeStaffID string) error {
	if d.Allowed {
		return nil
	}
	return apperrors.NewDomainError("FORBIDDEN", d.Reason, http.StatusForbidden, map[string]any{"assigned_to": assigneeStaffID})
}

// AssignmentPolicy decides whether an actor may give work to a staff member. The staff
// record's free-text role label is ignored; the linked user's Role is authoritative.
type AssignmentPolicy struct {
	staff repository.StaffRepository
	users repository.UserRepository
}

// NewAssignmentPolicy creates the policy.
func NewAssignmentPolicy(staff repository.StaffRepository, users repository.UserRepository) *AssignmentPolicy {
	return &AssignmentPolicy{staff: staff, users: users}
}

// CheckAssignment resolves the assignee's role and compares it with the actor's. The error
// is only set when the store could not answer.
func (p *AssignmentPolicy) CheckAssignment(ctx context.Context, actor domain.Actor, assigneeStaffID string) (AssignmentDecision, error) {
	denied := AssignmentDecision{Reason: ReasonAssigneeNotFound}
	if assigneeStaffID == "" {
		return denied, nil
	}

	staff, err := p.staff.GetByID(ctx, assigneeStaffID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return denied, nil
		}
		return AssignmentDecision{}, apperrors.NewUpstreamFailure(err)
	}
	if staff.UserID == nil || *staff.UserID == "" {
		return denied, nil
	}

	assignee, err := p.users.GetByID(ctx, *staff.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return denied, nil
		}
		return AssignmentDecision{}, apperrors.NewUpstreamFailure(err)
	}

	if !domain.CanAssignTaskTo(actor.Role, assignee.Role) {
		return AssignmentDecision{Reason: ReasonAssignUpward}, nil
	}
	return AssignmentDecision{Allowed: true}, nil
}

// Enforce runs CheckAssignment and turns a denial into an error.
func (p *AssignmentPolicy) Enforce(ctx context.Context, actor domain.Actor, assigneeStaffID string) error {
	decision, err := p.CheckAssignment(ctx, actor, assigneeStaffID)
	if err != nil {
		return err
	}
	return decision.Err(assigneeStaffID)
}
