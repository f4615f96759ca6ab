package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/override-service/internal/config"
	"github.com/SAP-F-2025/override-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.Environment)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// gormLogLevel keeps production query logging down to errors; development
// environments get the verbose statement log.
func gormLogLevel(environment string) logger.LogLevel {
	if environment == "production" {
		return logger.Error
	}
	return logger.Info
}

// migrate creates the tables this service owns. Quizzes, users and groups are
// reference data owned elsewhere and are migrated here only so standalone
// deployments work out of the box.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Quiz{},
		&models.Group{},
		&models.User{},
		&models.QuizOverride{},
		&models.ImportBatch{},
	)
}
