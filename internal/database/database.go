package database

import (
	"fmt"

	"github.com/tablecraft/tablecraft-api/internal/config"
	"github.com/tablecraft/tablecraft-api/internal/models"
	"github.com/tablecraft/tablecraft-api/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the database selected by the configuration. sqlite is the
// default; postgres is used when DB_DRIVER=postgres and a DSN is set.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.Path)
	case "postgres":
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER=postgres")
		}
		dialector = postgres.Open(cfg.DB.DSN)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.DB.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	logger.Get().Info().Str("driver", cfg.DB.Driver).Msg("database connection established")
	return nil
}

// Migrate creates or updates the schema for all entities.
func Migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Get().Info().Msg("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
