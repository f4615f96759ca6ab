package repositories

import (
	"context"

	"github.com/SAP-F-2025/override-service/internal/models"
)

// OverrideRepository interface for quiz override operations
type OverrideRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, override *models.QuizOverride) error
	GetByID(ctx context.Context, id uint) (*models.QuizOverride, error)
	Update(ctx context.Context, override *models.QuizOverride) error
	Delete(ctx context.Context, id uint) error

	// GetBySubject looks up the unique override for (quiz, subject) where the
	// subject column is picked by mode. Returns (nil, nil) when absent.
	GetBySubject(ctx context.Context, quizID uint, mode models.ImportMode, subjectID uint) (*models.QuizOverride, error)

	// Query operations
	ListByQuiz(ctx context.Context, quizID uint, filters OverrideFilters) ([]*models.QuizOverride, int64, error)
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
}

// QuizRepository interface for quiz operations (read-only here; the override
// service does not own quiz data)
type QuizRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// UserRepository interface for user existence checks
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// GroupRepository interface for group existence checks
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	// ExistsInCourse reports whether the group exists and belongs to the course.
	ExistsInCourse(ctx context.Context, id, courseID uint) (bool, error)
}

// ImportBatchRepository interface for the persisted import audit trail
type ImportBatchRepository interface {
	Create(ctx context.Context, batch *models.ImportBatch) error
	GetByID(ctx context.Context, id string) (*models.ImportBatch, error)
	Update(ctx context.Context, batch *models.ImportBatch) error
	List(ctx context.Context, filters ImportBatchFilters) ([]*models.ImportBatch, int64, error)
}
