package postgres

import (
	"context"

	"github.com/SAP-F-2025/override-service/internal/repositories"
	"gorm.io/gorm"
)

// RepositoryPostgreSQL bundles the per-entity stores behind one handle so a
// transaction-bound copy can be handed to callers wholesale.
type RepositoryPostgreSQL struct {
	db       *gorm.DB
	override *OverridePostgreSQL
	quiz     *QuizPostgreSQL
	user     *UserPostgreSQL
	group    *GroupPostgreSQL
	batch    *ImportBatchPostgreSQL
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &RepositoryPostgreSQL{
		db:       db,
		override: NewOverridePostgreSQL(db),
		quiz:     NewQuizPostgreSQL(db),
		user:     NewUserPostgreSQL(db),
		group:    NewGroupPostgreSQL(db),
		batch:    NewImportBatchPostgreSQL(db),
	}
}

func (r *RepositoryPostgreSQL) Override() repositories.OverrideRepository {
	return r.override
}

func (r *RepositoryPostgreSQL) Quiz() repositories.QuizRepository {
	return r.quiz
}

func (r *RepositoryPostgreSQL) User() repositories.UserRepository {
	return r.user
}

func (r *RepositoryPostgreSQL) Group() repositories.GroupRepository {
	return r.group
}

func (r *RepositoryPostgreSQL) Batch() repositories.ImportBatchRepository {
	return r.batch
}

// Transaction runs fn against a Repository bound to a single gorm transaction.
// gorm rolls back on a non-nil error and commits otherwise.
func (r *RepositoryPostgreSQL) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
