package dto

import "github.com/tablecraft/tablecraft-api/internal/models"

// UserDTO represents a user in API responses. The credential hash never
// leaves the auth layer.
type UserDTO struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
}

// UserSummaryDTO is the joined assignee/owner shape embedded in task and
// project responses.
type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// UserDetailDTO is the single-user response including owned projects and
// assigned tasks.
type UserDetailDTO struct {
	UserDTO
	Projects      []ProjectSummaryDTO  `json:"projects"`
	AssignedTasks []TaskAssignedItemDTO `json:"assignedTasks"`
}

// TaskAssignedItemDTO is the minimal task shape listed under a user.
type TaskAssignedItemDTO struct {
	ID       uint                `json:"id"`
	Title    string              `json:"title"`
	Status   models.TaskStatus   `json:"status"`
	Priority models.TaskPriority `json:"priority"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Avatar:   user.Avatar,
	}
}

func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
	}
}

func ToUserDetailDTO(user models.User) UserDetailDTO {
	detail := UserDetailDTO{
		UserDTO:       ToUserDTO(user),
		Projects:      make([]ProjectSummaryDTO, len(user.Projects)),
		AssignedTasks: make([]TaskAssignedItemDTO, len(user.AssignedTasks)),
	}
	for i, p := range user.Projects {
		detail.Projects[i] = ProjectSummaryDTO{ID: p.ID, Name: p.Name}
	}
	for i, t := range user.AssignedTasks {
		detail.AssignedTasks[i] = TaskAssignedItemDTO{
			ID:       t.ID,
			Title:    t.Title,
			Status:   t.Status,
			Priority: t.Priority,
		}
	}
	return detail
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
