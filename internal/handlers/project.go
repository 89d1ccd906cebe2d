package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns projects newest first, optionally filtered by owner.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filter repository.ProjectFilter
	if v := c.Query("ownerId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			dto.FailError(c, http.StatusBadRequest, "Invalid ownerId")
			return
		}
		filter.OwnerID = &id
	}

	projects, err := h.projectService.ListProjects(filter)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list projects")
		dto.FailError(c, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToProjectDTOs(projects), "Projects retrieved successfully")
}

// GetProject returns a project with its owner and full task list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(id)
	if err != nil {
		respondProjectError(c, err, "Failed to fetch project")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToProjectDetailDTO(*project), "Project retrieved successfully")
}

// CreateProject creates a project for an existing owner.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
		OwnerID     uint   `json:"ownerId" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Name and ownerId are required")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		respondProjectError(c, err, "Failed to create project")
		return
	}

	dto.OK(c, http.StatusCreated, dto.ToProjectDTO(*project), "Project created successfully")
}

// UpdateProject changes a project's name and/or description. Ownership is
// immutable.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err, "Failed to update project")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToProjectDTO(*project), "Project updated successfully")
}

// DeleteProject deletes a project after its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondProjectError(c, err, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "Project deleted successfully"})
}

func respondProjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		dto.FailError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, services.ErrOwnerNotFound):
		dto.FailError(c, http.StatusNotFound, "Owner not found")
	case errors.Is(err, services.ErrProjectNameMissing),
		errors.Is(err, services.ErrProjectNameTooLong):
		dto.FailError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Get().Error().Err(err).Msg(fallback)
		dto.FailError(c, http.StatusInternalServerError, fallback)
	}
}
