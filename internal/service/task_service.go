package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/events"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// TaskInput is the writable part of a task.
type TaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskService coordinates task lifecycle and assignment checks.
type TaskService struct {
	tasks      repository.TaskRepository
	staff      repository.StaffRepository
	policy     *AssignmentPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// TaskDependencies bundles collaborators.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	StaffRepo  repository.StaffRepository
	Policy     *AssignmentPolicy
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewTaskService creates the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		staff:      deps.StaffRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     defaultLogger(deps.Logger),
		now:        defaultClock(deps.Clock),
	}
}

func validateTaskInput(in *TaskInput) error {
	errs := fieldErrors{}
	errs.require("title", in.Title)
	errs.require("assignedTo", in.AssignedTo)
	if in.Status == "" {
		in.Status = domain.TaskStatusPending
	} else if !in.Status.Valid() {
		errs.add("status", "must be one of Pending, In Progress, Completed, Cancelled")
	}
	if in.Priority == "" {
		in.Priority = domain.TaskPriorityMedium
	} else if !in.Priority.Valid() {
		errs.add("priority", "must be one of Low, Medium, High, Urgent")
	}
	return errs.err()
}

// Create stores a new task after the assignment policy allows it.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in TaskInput) (*domain.Task, error) {
	if err := validateTaskInput(&in); err != nil {
		return nil, err
	}
	if err := s.policy.Enforce(ctx, actor, in.AssignedTo); err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  actor.ID,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
	task.SetStatus(in.Status, now)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishAssigned(ctx, actor, task)
	return task, nil
}

// Get returns a single task.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "task", map[string]any{"task_id": id})
	}
	return task, nil
}

// List returns tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// Update replaces the writable fields. Reassignment goes through the assignment policy again
// and staff-role callers may only edit their own tasks.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in TaskInput) (*domain.Task, error) {
	if err := validateTaskInput(&in); err != nil {
		return nil, err
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnTask(ctx, actor, task); err != nil {
		return nil, err
	}

	reassigned := task.AssignedTo != in.AssignedTo
	if reassigned {
		if err := s.policy.Enforce(ctx, actor, in.AssignedTo); err != nil {
			return nil, err
		}
	}

	oldStatus := task.Status
	task.Title = strings.TrimSpace(in.Title)
	task.Description = in.Description
	task.AssignedTo = in.AssignedTo
	task.Priority = in.Priority
	task.DueDate = in.DueDate
	task.SetStatus(in.Status, s.now())

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, lookupError(err, "task", map[string]any{"task_id": id})
	}

	if reassigned {
		s.publishAssigned(ctx, actor, task)
	}
	if oldStatus != task.Status {
		s.publishStatusChanged(ctx, actor, task, oldStatus)
	}
	return task, nil
}

// UpdateStatus patches only the status. Staff-role callers may only move their own tasks.
func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnTask(ctx, actor, task); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.SetStatus(status, s.now())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, lookupError(err, "task", map[string]any{"task_id": id})
	}
	if oldStatus != task.Status {
		s.publishStatusChanged(ctx, actor, task, oldStatus)
	}
	return task, nil
}

// requireOwnTask restricts staff-role actors to tasks assigned to their own staff record.
func (s *TaskService) requireOwnTask(ctx context.Context, actor domain.Actor, task *domain.Task) error {
	if actor.Role != domain.RoleStaff {
		return nil
	}
	own, err := s.staff.GetByUserID(ctx, actor.ID)
	if err != nil && !apperrors.IsNotFound(err) {
		return apperrors.MapError(err)
	}
	if own == nil || own.ID != task.AssignedTo {
		return apperrors.NewForbidden("you may only update tasks assigned to you")
	}
	return nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return lookupError(err, "task", map[string]any{"task_id": id})
	}
	return nil
}

func (s *TaskService) publishAssigned(ctx context.Context, actor domain.Actor, task *domain.Task) {
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventTaskAssigned, task.ID, actor.ID, s.now(),
		events.TaskAssignedPayload{
			AssigneeStaffID: task.AssignedTo,
			Title:           task.Title,
			Priority:        task.Priority,
			DueDate:         task.DueDate,
		}))
}

func (s *TaskService) publishStatusChanged(ctx context.Context, actor domain.Actor, task *domain.Task, old domain.TaskStatus) {
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventTaskStatusChanged, task.ID, actor.ID, s.now(),
		events.TaskStatusChangedPayload{OldStatus: old, NewStatus: task.Status}))
}
