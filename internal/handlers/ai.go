package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// AIHandler exposes the recommendation advisor.
type AIHandler struct {
	advisor *services.AdvisorService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(advisor *services.AdvisorService) *AIHandler {
	return &AIHandler{advisor: advisor}
}

// GetRecommendations returns up to five canned suggestions for a project.
func (h *AIHandler) GetRecommendations(c *gin.Context) {
	projectID, err := parseID(c.Param("projectId"))
	if err != nil {
		dto.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	// The board passes the viewing user; default matches the original
	// client behavior.
	userID := uint(1)
	if v := c.Query("userId"); v != "" {
		if id, err := parseID(v); err == nil {
			userID = id
		}
	}

	recommendations, err := h.advisor.TaskRecommendations(projectID, userID)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to generate recommendations")
		dto.Fail(c, http.StatusInternalServerError, "Failed to get task recommendations")
		return
	}

	dto.OK(c, http.StatusOK, recommendations, "")
}

// GetInsights returns aggregate analytics for a project.
func (h *AIHandler) GetInsights(c *gin.Context) {
	projectID, err := parseID(c.Param("projectId"))
	if err != nil {
		dto.Fail(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	insights, err := h.advisor.ProjectInsights(projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			dto.Fail(c, http.StatusNotFound, "Project not found")
			return
		}
		logger.Get().Error().Err(err).Msg("failed to generate insights")
		dto.Fail(c, http.StatusInternalServerError, "Failed to get project insights")
		return
	}

	dto.OK(c, http.StatusOK, insights, "")
}

// GetAssignmentSuggestions returns the lightest-loaded candidate assignees
// for a task.
func (h *AIHandler) GetAssignmentSuggestions(c *gin.Context) {
	taskID, err := parseID(c.Param("taskId"))
	if err != nil {
		dto.Fail(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	suggestions, err := h.advisor.AssignmentSuggestions(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			dto.Fail(c, http.StatusNotFound, "Task not found")
			return
		}
		logger.Get().Error().Err(err).Msg("failed to generate assignment suggestions")
		dto.Fail(c, http.StatusInternalServerError, "Failed to get assignment suggestions")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTOs(suggestions), "")
}
