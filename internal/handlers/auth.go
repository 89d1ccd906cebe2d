package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tablecraft/tablecraft-api/internal/dto"
	"github.com/tablecraft/tablecraft-api/internal/middleware"
	"github.com/tablecraft/tablecraft-api/internal/services"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// authPayload is the user+credential body returned by register and login.
type authPayload struct {
	User  dto.UserDTO `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account and issues a credential.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required,max=100"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Success: true,
		Message: "User registered successfully",
		Data:    authPayload{User: dto.ToUserDTO(*user), Token: token},
	})
}

// Login authenticates a user and issues a fresh credential.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: "Login successful",
		Data:    authPayload{User: dto.ToUserDTO(*user), Token: token},
	})
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		dto.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.authService.GetProfile(user.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTO(*profile), "")
}

// UpdateProfile applies partial changes to the authenticated user.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		dto.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Name     *string `json:"name"`
		Password *string `json:"password"`
		Avatar   *string `json:"avatar"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.authService.UpdateProfile(user.ID, services.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	dto.OK(c, http.StatusOK, dto.ToUserDTO(*updated), "")
}

// Verify confirms the bearer credential is valid and returns its user.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		dto.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: "Token is valid",
		Data:    gin.H{"user": dto.ToUserDTO(user)},
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		dto.Fail(c, http.StatusBadRequest, "Invalid email format")
	case errors.Is(err, services.ErrPasswordTooShort):
		dto.Fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
	case errors.Is(err, services.ErrEmailTaken):
		dto.Fail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrUsernameTaken):
		dto.Fail(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, services.ErrIdentityTaken):
		dto.Fail(c, http.StatusBadRequest, "Username or email is already taken")
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		dto.Fail(c, http.StatusBadRequest, "No fields to update")
	case errors.Is(err, services.ErrInvalidCredentials):
		dto.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		dto.Fail(c, http.StatusNotFound, "User not found")
	default:
		logger.Get().Error().Err(err).Msg("auth operation failed")
		dto.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
