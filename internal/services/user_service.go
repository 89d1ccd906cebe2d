package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tablecraft/tablecraft-api/internal/metrics"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the admin user surface. Deleting a user cascades to every
// dependent row; reassignment is not supported.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users ordered by display name.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user with owned-project and assigned-task summaries.
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID, "Projects", "AssignedTasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for the admin create-user operation.
// Password is optional: a user created without one cannot log in until a
// password is set through a profile update.
type CreateUserInput struct {
	Username string
	Email    string
	Name     string
	Password string
	Avatar   *string
}

// CreateUser creates a user after a single lookup covering both uniqueness
// fields.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if !emailShape.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	if existing, err := s.userRepo.FindByUsernameOrEmail(username, email); err == nil {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     input.Name,
		Avatar:   input.Avatar,
	}
	if input.Password != "" {
		if len(input.Password) < MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("user", "create").Inc()
	return user, nil
}

// UpdateUser applies the provided fields to another user's record. The
// same collision rule as profile updates applies.
func (s *UserService) UpdateUser(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var newUsername, newEmail string
	if input.Username != nil {
		newUsername = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		newEmail = strings.TrimSpace(*input.Email)
		if !emailShape.MatchString(newEmail) {
			return nil, ErrInvalidEmail
		}
	}
	if newUsername != "" || newEmail != "" {
		if _, err := s.userRepo.FindCollision(newUsername, newEmail, user.ID); err == nil {
			return nil, ErrIdentityTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing users: %w", err)
		}
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("user", "update").Inc()
	return user, nil
}

// DeleteUser removes the user along with assigned tasks, owned projects,
// and those projects' tasks, in one transaction.
func (s *UserService) DeleteUser(userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	metrics.EntityWritesTotal.WithLabelValues("user", "delete").Inc()
	return nil
}
