package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type projectServiceEnv struct {
	service *ProjectService
	owner   models.User
}

func setupProjectServiceEnv(t *testing.T) projectServiceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	service := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		nil,
	)

	owner := models.User{Username: "owner", Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, db.Create(&owner).Error)

	return projectServiceEnv{service: service, owner: owner}
}

// Name length is measured in characters, not bytes.
func TestProjectService_CreateProject_MultibyteName(t *testing.T) {
	env := setupProjectServiceEnv(t)

	name := strings.Repeat("企", 100)
	project, err := env.service.CreateProject(CreateProjectInput{
		Name:    name,
		OwnerID: env.owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, name, project.Name)

	_, err = env.service.CreateProject(CreateProjectInput{
		Name:    strings.Repeat("企", 101),
		OwnerID: env.owner.ID,
	})
	require.ErrorIs(t, err, ErrProjectNameTooLong)
}
