package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/metrics"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/gorm"
)

const maxTitleLength = 200

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = fmt.Errorf("title must be at most %d characters", maxTitleLength)
	ErrInvalidPriority  = errors.New("priority must be one of urgent, normal, low")
	ErrInvalidStatus    = errors.New("status must be one of todo, in-progress, review, done")
)

// taskJoins are the relations loaded for every task returned or broadcast.
var taskJoins = []string{"Project", "Assignee"}

// TaskService validates and applies task state transitions and broadcasts
// the result to all connected sessions.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	events      EventPublisher
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, events EventPublisher) *TaskService {
	if events == nil {
		events = NopPublisher{}
	}
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	ProjectID   uint
	AssigneeID  *uint
	DueDate     *time.Time
}

// CreateTask creates a task inside a project. The initial status is always
// todo regardless of caller input; priority defaults to normal.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.ProjectID == 0 {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}
	if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.AssigneeID != nil {
		if err := s.ensureUserExists(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.StatusTodo,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID, taskJoins...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("task", "create").Inc()
	s.events.Publish(EventTaskCreated, dto.ToTaskDTO(*created))
	return created, nil
}

// UpdateTaskInput represents a partial task update. Nil pointers mean the
// field was not sent and keeps its prior value; the Clear flags carry an
// explicit null that empties the optional field.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Priority         *models.TaskPriority
	Status           *models.TaskStatus
	AssigneeID       *uint
	ClearAssignee    bool
	DueDate          *time.Time
	ClearDueDate     bool
}

// UpdateTask applies the provided fields. Any status value may follow any
// other; the four-member enum is the only rule. An empty field set is a
// valid no-op update and still broadcasts.
func (s *TaskService) UpdateTask(taskID uint, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if input.ClearDescription {
		task.Description = ""
	} else if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
		task.Assignee = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureUserExists(*input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	// Last write wins: no version check, no conflict detection. The
	// broadcast carries whatever state this commit produced.
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindByID(task.ID, taskJoins...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("task", "update").Inc()
	s.events.Publish(EventTaskUpdated, dto.ToTaskDTO(*updated))
	return updated, nil
}

// DeleteTask hard-deletes a task regardless of its lifecycle state.
func (s *TaskService) DeleteTask(taskID uint) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("task", "delete").Inc()
	s.events.Publish(EventTaskDeleted, DeletedPayload{ID: taskID})
	return nil
}

// GetTask returns a task joined with its project and assignee summaries.
func (s *TaskService) GetTask(taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskJoins...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filter, newest-created first.
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ensureUserExists(userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}
