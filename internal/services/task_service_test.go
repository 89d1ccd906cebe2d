package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// publishRecorder captures event names for assertions.
type publishRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *publishRecorder) Publish(event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *publishRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type taskServiceEnv struct {
	db      *gorm.DB
	service *TaskService
	events  *publishRecorder
	project models.Project
}

func setupTaskServiceEnv(t *testing.T) taskServiceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One in-memory sqlite database shared by every connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	events := &publishRecorder{}
	service := NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		events,
	)

	owner := models.User{Username: "owner", Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, db.Create(&owner).Error)
	project := models.Project{Name: "Board", OwnerID: owner.ID}
	require.NoError(t, db.Create(&project).Error)

	return taskServiceEnv{db: db, service: service, events: events, project: project}
}

// Title length is measured in characters, not bytes: a 150-character
// multibyte title is well within the 200 limit.
func TestTaskService_CreateTask_MultibyteTitle(t *testing.T) {
	env := setupTaskServiceEnv(t)

	title := strings.Repeat("日", 150)
	task, err := env.service.CreateTask(CreateTaskInput{
		Title:     title,
		ProjectID: env.project.ID,
	})
	require.NoError(t, err)
	require.Equal(t, title, task.Title)

	_, err = env.service.CreateTask(CreateTaskInput{
		Title:     strings.Repeat("日", 201),
		ProjectID: env.project.ID,
	})
	require.ErrorIs(t, err, ErrTitleTooLong)
}

func TestTaskService_UpdateTask_MultibyteTitle(t *testing.T) {
	env := setupTaskServiceEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{Title: "plain", ProjectID: env.project.ID})
	require.NoError(t, err)

	long := strings.Repeat("ü", 200)
	updated, err := env.service.UpdateTask(task.ID, UpdateTaskInput{Title: &long})
	require.NoError(t, err)
	require.Equal(t, long, updated.Title)

	tooLong := strings.Repeat("ü", 201)
	_, err = env.service.UpdateTask(task.ID, UpdateTaskInput{Title: &tooLong})
	require.ErrorIs(t, err, ErrTitleTooLong)
}

// Two racing updates both succeed; the final state is whichever commit
// landed last, with no conflict error and one broadcast per commit.
func TestTaskService_ConcurrentUpdates_LastWriteWins(t *testing.T) {
	env := setupTaskServiceEnv(t)

	task, err := env.service.CreateTask(CreateTaskInput{Title: "contested", ProjectID: env.project.ID})
	require.NoError(t, err)

	statuses := []models.TaskStatus{models.StatusReview, models.StatusDone}
	errs := make(chan error, len(statuses))
	var wg sync.WaitGroup
	for _, st := range statuses {
		wg.Add(1)
		go func(status models.TaskStatus) {
			defer wg.Done()
			_, err := env.service.UpdateTask(task.ID, UpdateTaskInput{Status: &status})
			errs <- err
		}(st)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	final, err := env.service.GetTask(task.ID)
	require.NoError(t, err)
	require.Contains(t, statuses, final.Status)

	recorded := env.events.recorded()
	require.Equal(t, []string{EventTaskCreated, EventTaskUpdated, EventTaskUpdated}, recorded)
}
