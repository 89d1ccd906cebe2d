package models

import "time"

type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityNormal TaskPriority = "normal"
	PriorityLow    TaskPriority = "low"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityUrgent, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the four known statuses. Any
// status may follow any other; the enum membership is the only rule.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'normal';index" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	ProjectID   uint         `gorm:"not null;index" json:"projectId"`
	AssigneeID  *uint        `gorm:"index" json:"assigneeId"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
