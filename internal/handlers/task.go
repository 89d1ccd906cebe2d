package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks matching the query filters, newest first.
// Filters: projectId, status, priority, assigneeId (conjunctive, exact).
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filter repository.TaskFilter

	if v := c.Query("projectId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			dto.FailError(c, http.StatusBadRequest, "Invalid projectId")
			return
		}
		filter.ProjectID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		if !models.ValidStatus(status) {
			dto.FailError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		if !models.ValidPriority(priority) {
			dto.FailError(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		filter.Priority = &priority
	}
	if v := c.Query("assigneeId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			dto.FailError(c, http.StatusBadRequest, "Invalid assigneeId")
			return
		}
		filter.AssigneeID = &id
	}

	tasks, err := h.taskService.ListTasks(filter)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list tasks")
		dto.FailError(c, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToTaskDTOs(tasks), "Tasks retrieved successfully")
}

// GetTask returns a task by ID with joined summaries.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondTaskError(c, err, "Failed to fetch task")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToTaskDTO(*task), "Task retrieved successfully")
}

// CreateTask creates a task. Any status in the request body is ignored:
// new tasks always start in todo.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		ProjectID   uint                `json:"projectId" binding:"required"`
		AssigneeID  *uint               `json:"assigneeId"`
		DueDate     *time.Time          `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Title and projectId are required")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err, "Failed to create task")
		return
	}

	dto.OK(c, http.StatusCreated, dto.ToTaskDTO(*task), "Task created successfully")
}

// UpdateTask applies a partial update. The raw body is inspected so that
// an omitted field keeps its value while an explicit null clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if v, ok := raw["title"]; ok {
		s, ok := v.(string)
		if !ok {
			dto.FailError(c, http.StatusBadRequest, "Invalid title")
			return
		}
		input.Title = &s
	}
	if v, ok := raw["description"]; ok {
		if v == nil {
			input.ClearDescription = true
		} else if s, ok := v.(string); ok {
			input.Description = &s
		} else {
			dto.FailError(c, http.StatusBadRequest, "Invalid description")
			return
		}
	}
	if v, ok := raw["priority"]; ok {
		s, ok := v.(string)
		if !ok {
			dto.FailError(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		p := models.TaskPriority(s)
		input.Priority = &p
	}
	if v, ok := raw["status"]; ok {
		s, ok := v.(string)
		if !ok {
			dto.FailError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		st := models.TaskStatus(s)
		input.Status = &st
	}
	if v, ok := raw["assigneeId"]; ok {
		if v == nil {
			input.ClearAssignee = true
		} else if f, ok := v.(float64); ok {
			assigneeID := uint(f)
			input.AssigneeID = &assigneeID
		} else {
			dto.FailError(c, http.StatusBadRequest, "Invalid assigneeId")
			return
		}
	}
	if v, ok := raw["dueDate"]; ok {
		if v == nil {
			input.ClearDueDate = true
		} else if s, ok := v.(string); ok {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				dto.FailError(c, http.StatusBadRequest, "Invalid dueDate format")
				return
			}
			input.DueDate = &parsed
		} else {
			dto.FailError(c, http.StatusBadRequest, "Invalid dueDate format")
			return
		}
	}

	task, err := h.taskService.UpdateTask(id, input)
	if err != nil {
		respondTaskError(c, err, "Failed to update task")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToTaskDTO(*task), "Task updated successfully")
}

// DeleteTask hard-deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		respondTaskError(c, err, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Task deleted successfully"})
}

func respondTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		dto.FailError(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		dto.FailError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		dto.FailError(c, http.StatusNotFound, "Assignee not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus):
		dto.FailError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Get().Error().Err(err).Msg(fallback)
		dto.FailError(c, http.StatusInternalServerError, fallback)
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
