package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trailer-admin/internal/api/dto"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: taskService}
}

func parseTaskFilter(c *fiber.Ctx) repository.TaskFilter {
	filter := repository.TaskFilter{
		Search:     c.Query("q"),
		AssignedTo: optional(c.Query("assignedTo")),
	}
	if v := optional(c.Query("status")); v != nil {
		status := domain.TaskStatus(*v)
		filter.Status = &status
	}
	if v := optional(c.Query("priority")); v != nil {
		priority := domain.TaskPriority(*v)
		filter.Priority = &priority
	}
	filter.Limit, filter.Offset = page(c)
	return filter
}

// List handles GET /tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), parseTaskFilter(c))
	if err != nil {
		return err
	}
	return data(c, dto.NewTaskList(tasks))
}

// Get handles GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	task, err := h.tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, dto.NewTaskResponse(task))
}

// Create handles POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.TaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.Create(c.UserContext(), a, req.Input())
	if err != nil {
		return err
	}
	return created(c, dto.NewTaskResponse(task))
}

// Update handles PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.TaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.Update(c.UserContext(), a, c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return data(c, dto.NewTaskResponse(task))
}

// UpdateStatus handles PATCH /tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.TaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.UpdateStatus(c.UserContext(), a, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return data(c, dto.NewTaskResponse(task))
}

// Delete handles DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
