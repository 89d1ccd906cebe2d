package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/metrics"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/gorm"
)

const maxProjectNameLength = 100

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrProjectNameMissing = errors.New("name and ownerId are required")
	ErrProjectNameTooLong = fmt.Errorf("name must be at most %d characters", maxProjectNameLength)
)

// ProjectService handles project lifecycle. Projects carry no status state
// machine; existence and ownership are the invariants.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	events      EventPublisher
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, events EventPublisher) *ProjectService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint
}

// CreateProject creates a project owned by an existing user.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.OwnerID == 0 {
		return nil, ErrProjectNameMissing
	}
	if utf8.RuneCountInString(name) > maxProjectNameLength {
		return nil, ErrProjectNameTooLong
	}

	if _, err := s.userRepo.FindByID(input.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	created, err := s.projectRepo.FindByID(project.ID, "Owner")
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("project", "create").Inc()
	s.events.Publish(EventProjectCreated, dto.ToProjectDTO(*created))
	return created, nil
}

// UpdateProjectInput holds the mutable project fields. Ownership is
// immutable after creation.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject applies name/description changes.
func (s *ProjectService) UpdateProject(projectID uint, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameMissing
		}
		if utf8.RuneCountInString(name) > maxProjectNameLength {
			return nil, ErrProjectNameTooLong
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.projectRepo.FindByID(project.ID, "Owner")
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("project", "update").Inc()
	s.events.Publish(EventProjectUpdated, dto.ToProjectDTO(*updated))
	return updated, nil
}

// DeleteProject removes the project's tasks and then the project, so no
// orphaned tasks remain.
func (s *ProjectService) DeleteProject(projectID uint) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("project", "delete").Inc()
	s.events.Publish(EventProjectDeleted, DeletedPayload{ID: projectID})
	return nil
}

// GetProject returns a project with its owner and full task list including
// assignee summaries.
func (s *ProjectService) GetProject(projectID uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner", "Tasks", "Tasks.Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjects returns projects newest first, optionally filtered by owner.
func (s *ProjectService) ListProjects(filter repository.ProjectFilter) ([]models.Project, error) {
	projects, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}
