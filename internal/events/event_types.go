package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskAssigned         EventType = "task_assigned"
	EventTaskStatusChanged    EventType = "task_status_changed"
	EventInsuranceVerified    EventType = "insurance_verified"
	EventInsuranceRejected    EventType = "insurance_rejected"
	EventInsuranceReminderDue EventType = "insurance_reminder_due"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, entityID, actorID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: at,
		Payload:   payload,
	}
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	AssigneeStaffID string              `json:"assignee_staff_id"`
	Title           string              `json:"title"`
	Priority        domain.TaskPriority `json:"priority"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// InsuranceReviewedPayload is shared by verified and rejected events.
type InsuranceReviewedPayload struct {
	PolicyNumber string `json:"policy_number"`
	Reason       string `json:"reason,omitempty"`
}

// InsuranceReminderPayload carries what a reminder needs to be delivered.
type InsuranceReminderPayload struct {
	PolicyNumber    string                 `json:"policy_number"`
	Provider        string                 `json:"provider"`
	TrailerID       string                 `json:"trailer_id"`
	ExpiryDate      time.Time              `json:"expiry_date"`
	DaysUntilExpiry int                    `json:"days_until_expiry"`
	Status          domain.InsuranceStatus `json:"status"`
	NotifyByEmail   bool                   `json:"notify_by_email"`
	NotifyBySMS     bool                   `json:"notify_by_sms"`
}
