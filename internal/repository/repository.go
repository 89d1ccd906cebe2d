package repository

import (
	"github.com/tablecraft/tablecraft-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsernameOrEmail finds any user holding either identifier,
	// in one lookup covering both fields
	FindByUsernameOrEmail(username, email string) (*models.User, error)

	// FindCollision finds a different user already holding the username
	// or email. Empty strings are not matched.
	FindCollision(username, email string, excludeID uint) (*models.User, error)

	// List returns all users ordered by display name
	List() ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes the user and every dependent row: tasks assigned to
	// the user, tasks of projects the user owns, and the owned projects,
	// all in one transaction
	Delete(id uint) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OwnerID *uint
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint, preload ...string) (*models.Project, error)

	// List retrieves projects newest first, with owner and task summaries
	List(filter ProjectFilter) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes the project's tasks and then the project row, in one
	// transaction, so no orphaned tasks remain
	Delete(id uint) error
}

// TaskFilter holds the conjunctive exact-match filters for listing tasks.
// Only fields that are set participate.
type TaskFilter struct {
	ProjectID  *uint
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest-created first,
	// joined with project and assignee relations
	List(filter TaskFilter) ([]models.Task, error)

	// ListByProject returns up to limit of a project's tasks, newest
	// first (read-only snapshot for the advisor)
	ListByProject(projectID uint, limit int) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete hard-deletes a task
	Delete(id uint) error

	// CountOpenByAssignee counts a user's tasks that are not done
	CountOpenByAssignee(userID uint) (int64, error)
}
