package postgres

import (
	"context"

	"github.com/SAP-F-2025/override-service/internal/models"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) *QuizPostgreSQL {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
