package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/gorm"
)

const (
	maxRecommendations  = 5
	snapshotLimit       = 50
	assignmentShortlist = 3
	// Days beyond which a task is considered slow to complete.
	slowTaskThresholdDays = 7
)

// Recommendation is one suggestion record.
type Recommendation struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       models.TaskPriority `json:"priority"`
	EstimatedHours int                 `json:"estimatedHours"`
	Confidence     float64             `json:"confidence"`
	Reason         string              `json:"reason"`
}

// ProjectInsight is the aggregate analytics record for a project.
type ProjectInsight struct {
	ProjectID            uint     `json:"projectId"`
	ProjectName          string   `json:"projectName"`
	TotalTasks           int      `json:"totalTasks"`
	CompletedTasks       int      `json:"completedTasks"`
	CompletionRate       float64  `json:"completionRate"`
	AverageTaskDuration  float64  `json:"averageTaskDuration"`
	RecommendedNextSteps []string `json:"recommendedNextSteps"`
}

// projectStats is the read-only snapshot a rule predicate sees.
type projectStats struct {
	name              string // lowercased project name
	total             int
	incomplete        int
	urgent            int
	avgCompletionDays float64
}

// suggestionRule pairs an independent predicate with the fixed suggestion
// it contributes.
type suggestionRule struct {
	when    func(projectStats) bool
	suggest Recommendation
}

// suggestionRules is evaluated in fixed order; results cap at
// maxRecommendations.
var suggestionRules = []suggestionRule{
	{
		when: func(s projectStats) bool { return s.incomplete > 0 },
		suggest: Recommendation{
			ID:             "rec-1",
			Title:          "Complete pending tasks",
			Description:    "Focus on completing existing tasks before starting new ones",
			Priority:       models.PriorityUrgent,
			EstimatedHours: 2,
			Confidence:     0.9,
			Reason:         "High number of incomplete tasks detected",
		},
	},
	{
		when: func(s projectStats) bool { return s.urgent > 0 },
		suggest: Recommendation{
			ID:             "rec-2",
			Title:          "Review high priority items",
			Description:    "Review and update priority levels for better project flow",
			Priority:       models.PriorityNormal,
			EstimatedHours: 1,
			Confidence:     0.8,
			Reason:         "Multiple high priority tasks identified",
		},
	},
	{
		when: func(s projectStats) bool { return s.avgCompletionDays > slowTaskThresholdDays },
		suggest: Recommendation{
			ID:             "rec-3",
			Title:          "Break down complex tasks",
			Description:    "Consider breaking larger tasks into smaller, manageable pieces",
			Priority:       models.PriorityNormal,
			EstimatedHours: 3,
			Confidence:     0.7,
			Reason:         "Tasks taking longer than average to complete",
		},
	},
	{
		when: func(s projectStats) bool {
			return strings.Contains(s.name, "website") || strings.Contains(s.name, "web")
		},
		suggest: Recommendation{
			ID:             "rec-4",
			Title:          "Add responsive design testing",
			Description:    "Ensure website works well on mobile and tablet devices",
			Priority:       models.PriorityNormal,
			EstimatedHours: 4,
			Confidence:     0.6,
			Reason:         "Web project detected - common requirement",
		},
	},
	{
		when: func(s projectStats) bool {
			return strings.Contains(s.name, "api") || strings.Contains(s.name, "backend")
		},
		suggest: Recommendation{
			ID:             "rec-5",
			Title:          "Add API documentation",
			Description:    "Create comprehensive API documentation for developers",
			Priority:       models.PriorityNormal,
			EstimatedHours: 6,
			Confidence:     0.7,
			Reason:         "Backend/API project detected - documentation is crucial",
		},
	},
}

// AdvisorService produces canned recommendations from aggregate statistics
// over read-only task snapshots: a fixed table of independent
// predicate-to-suggestion rules evaluated in insertion order. It holds no
// state of its own.
type AdvisorService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewAdvisorService creates a new AdvisorService.
func NewAdvisorService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *AdvisorService {
	return &AdvisorService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// TaskRecommendations evaluates the rule table against the project's
// recent task snapshot. An unknown project or user yields an empty list
// rather than an error.
func (s *AdvisorService) TaskRecommendations(projectID, userID uint) ([]Recommendation, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Recommendation{}, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Recommendation{}, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID, snapshotLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot tasks: %w", err)
	}

	stats := buildStats(project.Name, tasks)

	recommendations := make([]Recommendation, 0, maxRecommendations)
	for _, rule := range suggestionRules {
		if len(recommendations) == maxRecommendations {
			break
		}
		if rule.when(stats) {
			recommendations = append(recommendations, rule.suggest)
		}
	}
	return recommendations, nil
}

// ProjectInsights computes the aggregate analytics for a project.
func (s *AdvisorService) ProjectInsights(projectID uint) (*ProjectInsight, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(projectID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot tasks: %w", err)
	}

	completed := 0
	urgent := 0
	totalDays := 0.0
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			completed++
		}
		if t.Priority == models.PriorityUrgent {
			urgent++
		}
		totalDays += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
	}

	completionRate := 0.0
	avgDuration := 0.0
	if len(tasks) > 0 {
		completionRate = float64(completed) / float64(len(tasks)) * 100
		avgDuration = totalDays / float64(len(tasks))
	}

	var nextSteps []string
	if completionRate < 50 {
		nextSteps = append(nextSteps, "Focus on completing existing tasks before adding new ones")
	}
	if avgDuration > slowTaskThresholdDays {
		nextSteps = append(nextSteps, "Consider breaking down larger tasks into smaller pieces")
	}
	if urgent > 3 {
		nextSteps = append(nextSteps, "Review and prioritize urgent tasks")
	}
	if len(nextSteps) == 0 {
		nextSteps = append(nextSteps, "Project is progressing well - continue current approach")
	}

	return &ProjectInsight{
		ProjectID:            project.ID,
		ProjectName:          project.Name,
		TotalTasks:           len(tasks),
		CompletedTasks:       completed,
		CompletionRate:       round2(completionRate),
		AverageTaskDuration:  round2(avgDuration),
		RecommendedNextSteps: nextSteps,
	}, nil
}

// AssignmentSuggestions returns the users with the lightest open-task
// workload as candidates for the task, lightest first.
func (s *AdvisorService) AssignmentSuggestions(taskID uint) ([]models.User, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	type workload struct {
		user models.User
		open int64
	}
	loads := make([]workload, 0, len(users))
	for _, u := range users {
		open, err := s.taskRepo.CountOpenByAssignee(u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count workload: %w", err)
		}
		loads = append(loads, workload{user: u, open: open})
	}

	sort.SliceStable(loads, func(i, j int) bool { return loads[i].open < loads[j].open })

	n := assignmentShortlist
	if len(loads) < n {
		n = len(loads)
	}
	suggested := make([]models.User, n)
	for i := 0; i < n; i++ {
		suggested[i] = loads[i].user
	}
	return suggested, nil
}

func buildStats(projectName string, tasks []models.Task) projectStats {
	stats := projectStats{
		name:  strings.ToLower(projectName),
		total: len(tasks),
	}

	completedDays := 0.0
	completed := 0
	for _, t := range tasks {
		if t.Status != models.StatusDone {
			stats.incomplete++
		} else {
			completed++
			completedDays += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
		}
		if t.Priority == models.PriorityUrgent {
			stats.urgent++
		}
	}
	if completed > 0 {
		stats.avgCompletionDays = completedDays / float64(completed)
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
