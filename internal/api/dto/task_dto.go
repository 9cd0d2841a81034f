package dto

import (
	"time"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// TaskRequest payload for creating or replacing a task.
type TaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssignedTo  string              `json:"assignedTo"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *Date               `json:"dueDate"`
}

// Input converts the request for the service.
func (r TaskRequest) Input() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate.Ptr(),
	}
}

// TaskStatusRequest patches a task's status.
type TaskStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssignedTo  string              `json:"assignedTo"`
	AssignedBy  string              `json:"assignedBy"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewTaskResponse maps a task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskList maps tasks.
func NewTaskList(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}
