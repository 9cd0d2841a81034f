package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/events"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

func newTaskFixture() (*TaskService, *fakeTasks, *recordingDispatcher) {
	staff, users := orgFixture()
	tasks := newFakeTasks()
	dispatcher := newRecordingDispatcher()
	svc := NewTaskService(TaskDependencies{
		TaskRepo:   tasks,
		StaffRepo:  staff,
		Policy:     NewAssignmentPolicy(staff, users),
		Dispatcher: dispatcher,
		Clock:      fixedClock,
	})
	return svc, tasks, dispatcher
}

var (
	managerActor = domain.Actor{ID: "u-manager", Role: domain.RoleManager}
	staffActor   = domain.Actor{ID: "u-staff", Role: domain.RoleStaff}
)

func TestCreateTaskManagerToStaff(t *testing.T) {
	svc, tasks, dispatcher := newTaskFixture()

	task, err := svc.Create(context.Background(), managerActor, TaskInput{Title: " Inspect trailer 12 ", AssignedTo: "s-staff"})
	require.NoError(t, err)

	assert.Equal(t, "Inspect trailer 12", task.Title)
	assert.Equal(t, "u-manager", task.AssignedBy)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Len(t, tasks.items, 1)
	assert.Equal(t, []events.EventType{events.EventTaskAssigned}, dispatcher.types())
}

func TestCreateTaskUpwardDeniedCreatesNothing(t *testing.T) {
	svc, tasks, dispatcher := newTaskFixture()

	_, err := svc.Create(context.Background(), staffActor, TaskInput{Title: "Approve budget", AssignedTo: "s-manager"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, ReasonAssignUpward, de.Message)
	assert.Empty(t, tasks.items)
	assert.Empty(t, dispatcher.published)
}

func TestCreateTaskValidation(t *testing.T) {
	svc, tasks, _ := newTaskFixture()

	_, err := svc.Create(context.Background(), managerActor, TaskInput{Priority: "Whenever"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "title")
	assert.Contains(t, de.Details, "assignedTo")
	assert.Contains(t, de.Details, "priority")
	assert.Empty(t, tasks.items)
}

func TestUpdateTaskReassignmentRechecksPolicy(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	task, err := svc.Create(context.Background(), managerActor, TaskInput{Title: "Wash", AssignedTo: "s-staff"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), managerActor, task.ID, TaskInput{Title: "Wash", AssignedTo: "s-admin"})
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, "s-staff", tasks.items[task.ID].AssignedTo)

	updated, err := svc.Update(context.Background(), managerActor, task.ID, TaskInput{Title: "Wash", AssignedTo: "s-staff", Status: domain.TaskStatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, testNow, *updated.CompletedAt)
}

func TestUpdateStatusStaffOwnTaskOnly(t *testing.T) {
	svc, _, dispatcher := newTaskFixture()
	own, err := svc.Create(context.Background(), managerActor, TaskInput{Title: "Mine", AssignedTo: "s-staff"})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), managerActor, TaskInput{Title: "Theirs", AssignedTo: "s-manager"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), staffActor, own.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Contains(t, dispatcher.types(), events.EventTaskStatusChanged)

	_, err = svc.UpdateStatus(context.Background(), staffActor, other.ID, domain.TaskStatusCompleted)
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.UpdateStatus(context.Background(), managerActor, other.ID, "Done")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestUpdateStaffOwnTaskOnly(t *testing.T) {
	svc, tasks, _ := newTaskFixture()
	own, err := svc.Create(context.Background(), managerActor, TaskInput{Title: "Mine", AssignedTo: "s-staff"})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), managerActor, TaskInput{Title: "Theirs", AssignedTo: "s-manager"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), staffActor, own.ID, TaskInput{
		Title:      "Mine, revised",
		AssignedTo: "s-staff",
		Status:     domain.TaskStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mine, revised", updated.Title)

	_, err = svc.Update(context.Background(), staffActor, other.ID, TaskInput{
		Title:      "Hijacked",
		AssignedTo: "s-manager",
		Status:     domain.TaskStatusCompleted,
	})
	assert.Equal(t, http.StatusForbidden, apperrors.ToDomainError(err).HTTPStatus)

	stored, err := tasks.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theirs", stored.Title)
	assert.Equal(t, domain.TaskStatusPending, stored.Status)

	_, err = svc.Update(context.Background(), managerActor, other.ID, TaskInput{
		Title:      "Theirs, revised",
		AssignedTo: "s-manager",
	})
	assert.NoError(t, err)
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc, _, _ := newTaskFixture()

	err := svc.Delete(context.Background(), "task-404")
	assert.True(t, apperrors.IsNotFound(err))
}
