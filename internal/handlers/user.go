package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// UserHandler coordinates the admin user HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns all users ordered by display name.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to list users")
		dto.FailError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTOs(users), "Users retrieved successfully")
}

// GetUser returns a user with owned projects and assigned tasks.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err, "Failed to fetch user")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDetailDTO(*user), "User retrieved successfully")
}

// CreateUser creates a user record.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string  `json:"username" binding:"required,min=3,max=50"`
		Email    string  `json:"email" binding:"required"`
		Name     string  `json:"name" binding:"required,max=100"`
		Password string  `json:"password"`
		Avatar   *string `json:"avatar"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Username, email, and name are required")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondUserError(c, err, "Failed to create user")
		return
	}

	dto.OK(c, http.StatusCreated, dto.ToUserDTO(*user), "User created successfully")
}

// UpdateUser applies partial changes to a user record.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	type UpdateUserRequest struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Name     *string `json:"name"`
		Avatar   *string `json:"avatar"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondUserError(c, err, "Failed to update user")
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTO(*user), "User updated successfully")
}

// DeleteUser removes a user and every dependent row.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		dto.FailError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondUserError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, dto.Response{Success: true, Message: "User deleted successfully"})
}

func respondUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		dto.FailError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrIdentityTaken):
		dto.FailError(c, http.StatusBadRequest, "User with this username or email already exists")
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrPasswordTooShort):
		dto.FailError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Get().Error().Err(err).Msg(fallback)
		dto.FailError(c, http.StatusInternalServerError, fallback)
	}
}
