package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type advisorTestEnv struct {
	db      *gorm.DB
	advisor *AdvisorService
	user    models.User
}

func setupAdvisorTestEnv(t *testing.T) advisorTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	advisor := NewAdvisorService(projectRepo, taskRepo, userRepo)

	user := models.User{Username: "viewer", Email: "viewer@example.com", Name: "Viewer"}
	require.NoError(t, db.Create(&user).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return advisorTestEnv{db: db, advisor: advisor, user: user}
}

func (env advisorTestEnv) createProject(t *testing.T, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name, OwnerID: env.user.ID}
	require.NoError(t, env.db.Create(&project).Error)
	return project
}

func recommendationIDs(recs []Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}

func TestAdvisor_TaskRecommendations_IncompleteAndUrgent(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Internal Tooling")

	tasks := []models.Task{
		{Title: "open", Status: models.StatusTodo, Priority: models.PriorityUrgent, ProjectID: project.ID},
		{Title: "closed", Status: models.StatusDone, Priority: models.PriorityNormal, ProjectID: project.ID},
	}
	for i := range tasks {
		require.NoError(t, env.db.Create(&tasks[i]).Error)
	}

	recs, err := env.advisor.TaskRecommendations(project.ID, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"rec-1", "rec-2"}, recommendationIDs(recs))
	require.Equal(t, "Complete pending tasks", recs[0].Title)
	require.Equal(t, models.PriorityUrgent, recs[0].Priority)
}

// Name matching is substring-based, so "Website Redesign" and "Customer
// API" each pull in their domain suggestion.
func TestAdvisor_TaskRecommendations_NameRules(t *testing.T) {
	env := setupAdvisorTestEnv(t)

	website := env.createProject(t, "Website Redesign")
	recs, err := env.advisor.TaskRecommendations(website.ID, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"rec-4"}, recommendationIDs(recs))

	api := env.createProject(t, "Customer API")
	recs, err = env.advisor.TaskRecommendations(api.ID, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"rec-5"}, recommendationIDs(recs))
}

func TestAdvisor_TaskRecommendations_SlowCompletions(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Migration")

	now := time.Now()
	task := models.Task{
		Title:     "took forever",
		Status:    models.StatusDone,
		Priority:  models.PriorityNormal,
		ProjectID: project.ID,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		UpdatedAt: now,
	}
	require.NoError(t, env.db.Create(&task).Error)

	recs, err := env.advisor.TaskRecommendations(project.ID, env.user.ID)
	require.NoError(t, err)
	require.Contains(t, recommendationIDs(recs), "rec-3")
}

func TestAdvisor_TaskRecommendations_UnknownProjectOrUser(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Real")

	recs, err := env.advisor.TaskRecommendations(999, env.user.ID)
	require.NoError(t, err)
	require.Empty(t, recs)

	recs, err = env.advisor.TaskRecommendations(project.ID, 999)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestAdvisor_ProjectInsights(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Insightful")

	tasks := []models.Task{
		{Title: "done-1", Status: models.StatusDone, Priority: models.PriorityNormal, ProjectID: project.ID},
		{Title: "open-1", Status: models.StatusTodo, Priority: models.PriorityNormal, ProjectID: project.ID},
		{Title: "open-2", Status: models.StatusInProgress, Priority: models.PriorityNormal, ProjectID: project.ID},
		{Title: "open-3", Status: models.StatusReview, Priority: models.PriorityNormal, ProjectID: project.ID},
	}
	for i := range tasks {
		require.NoError(t, env.db.Create(&tasks[i]).Error)
	}

	insight, err := env.advisor.ProjectInsights(project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, insight.ProjectID)
	require.Equal(t, 4, insight.TotalTasks)
	require.Equal(t, 1, insight.CompletedTasks)
	require.Equal(t, 25.0, insight.CompletionRate)
	require.Contains(t, insight.RecommendedNextSteps, "Focus on completing existing tasks before adding new ones")
}

func TestAdvisor_ProjectInsights_HealthyProjectFallback(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Smooth Sailing")

	tasks := []models.Task{
		{Title: "done-1", Status: models.StatusDone, Priority: models.PriorityNormal, ProjectID: project.ID},
		{Title: "done-2", Status: models.StatusDone, Priority: models.PriorityNormal, ProjectID: project.ID},
	}
	for i := range tasks {
		require.NoError(t, env.db.Create(&tasks[i]).Error)
	}

	insight, err := env.advisor.ProjectInsights(project.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Project is progressing well - continue current approach"}, insight.RecommendedNextSteps)
}

func TestAdvisor_ProjectInsights_UnknownProject(t *testing.T) {
	env := setupAdvisorTestEnv(t)

	_, err := env.advisor.ProjectInsights(999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

// Suggestions are the users with the fewest open tasks, lightest first.
// Done tasks do not count toward workload.
func TestAdvisor_AssignmentSuggestions(t *testing.T) {
	env := setupAdvisorTestEnv(t)
	project := env.createProject(t, "Staffing")

	task := models.Task{Title: "needs owner", Status: models.StatusTodo, Priority: models.PriorityNormal, ProjectID: project.ID}
	require.NoError(t, env.db.Create(&task).Error)

	busy := models.User{Username: "busy", Email: "busy@example.com", Name: "Busy"}
	require.NoError(t, env.db.Create(&busy).Error)
	light := models.User{Username: "light", Email: "light@example.com", Name: "Light"}
	require.NoError(t, env.db.Create(&light).Error)
	finished := models.User{Username: "finished", Email: "finished@example.com", Name: "Finished"}
	require.NoError(t, env.db.Create(&finished).Error)

	for i := 0; i < 3; i++ {
		open := models.Task{Title: "busywork", Status: models.StatusInProgress, Priority: models.PriorityNormal, ProjectID: project.ID, AssigneeID: &busy.ID}
		require.NoError(t, env.db.Create(&open).Error)
	}
	oneOpen := models.Task{Title: "light load", Status: models.StatusTodo, Priority: models.PriorityNormal, ProjectID: project.ID, AssigneeID: &light.ID}
	require.NoError(t, env.db.Create(&oneOpen).Error)
	for i := 0; i < 5; i++ {
		done := models.Task{Title: "finished work", Status: models.StatusDone, Priority: models.PriorityNormal, ProjectID: project.ID, AssigneeID: &finished.ID}
		require.NoError(t, env.db.Create(&done).Error)
	}

	suggested, err := env.advisor.AssignmentSuggestions(task.ID)
	require.NoError(t, err)
	require.Len(t, suggested, 3)

	// viewer and finished both have zero open tasks; busy has three and
	// falls outside the shortlist.
	usernames := make([]string, len(suggested))
	for i, u := range suggested {
		usernames[i] = u.Username
	}
	require.NotContains(t, usernames, "busy")
	require.Equal(t, "light", usernames[2])
}

func TestAdvisor_AssignmentSuggestions_UnknownTask(t *testing.T) {
	env := setupAdvisorTestEnv(t)

	_, err := env.advisor.AssignmentSuggestions(999)
	require.ErrorIs(t, err, ErrTaskNotFound)
}
