package dto

import (
	"time"

	"github.com/tablecraft/tablecraft-api/internal/models"
)

// ProjectSummaryDTO is the joined project shape embedded in task responses.
type ProjectSummaryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses, including the joined project
// and assignee summaries.
type TaskDTO struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	ProjectID   uint                `json:"projectId"`
	AssigneeID  *uint               `json:"assigneeId"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Project     *ProjectSummaryDTO  `json:"project,omitempty"`
	Assignee    *UserSummaryDTO     `json:"assignee,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO. Project and assignee
// summaries are included when the relations were preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	out := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Project.ID != 0 {
		out.Project = &ProjectSummaryDTO{ID: task.Project.ID, Name: task.Project.Name}
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserSummaryDTO(*task.Assignee)
		out.Assignee = &assignee
	}

	return out
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
