package dto

import (
	"time"

	"github.com/tablecraft/tablecraft-api/internal/models"
)

// ProjectTaskItemDTO is the minimal task shape listed under a project.
type ProjectTaskItemDTO struct {
	ID     uint              `json:"id"`
	Status models.TaskStatus `json:"status"`
}

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	OwnerID     uint                 `json:"ownerId"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Owner       *UserSummaryDTO      `json:"owner,omitempty"`
	Tasks       []ProjectTaskItemDTO `json:"tasks,omitempty"`
}

// ProjectDetailDTO is the single-project response carrying full tasks with
// their assignee summaries.
type ProjectDetailDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint            `json:"ownerId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Owner       *UserSummaryDTO `json:"owner,omitempty"`
	Tasks       []TaskDTO       `json:"tasks"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	out := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserSummaryDTO(project.Owner)
		out.Owner = &owner
	}
	if len(project.Tasks) > 0 {
		out.Tasks = make([]ProjectTaskItemDTO, len(project.Tasks))
		for i, t := range project.Tasks {
			out.Tasks[i] = ProjectTaskItemDTO{ID: t.ID, Status: t.Status}
		}
	}

	return out
}

func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	out := ProjectDetailDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Tasks:       ToTaskDTOs(project.Tasks),
	}

	if project.Owner.ID != 0 {
		owner := ToUserSummaryDTO(project.Owner)
		out.Owner = &owner
	}

	return out
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}
