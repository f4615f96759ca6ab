package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/SAP-F-2025/override-service/internal/repositories"
	"gorm.io/gorm"
)

type OverridePostgreSQL struct {
	db *gorm.DB
}

func NewOverridePostgreSQL(db *gorm.DB) *OverridePostgreSQL {
	return &OverridePostgreSQL{db: db}
}

func (o *OverridePostgreSQL) Create(ctx context.Context, override *models.QuizOverride) error {
	if err := o.db.WithContext(ctx).Create(override).Error; err != nil {
		return fmt.Errorf("failed to create override: %w", err)
	}
	return nil
}

func (o *OverridePostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizOverride, error) {
	var override models.QuizOverride
	if err := o.db.WithContext(ctx).First(&override, id).Error; err != nil {
		return nil, err
	}
	return &override, nil
}

func (o *OverridePostgreSQL) Update(ctx context.Context, override *models.QuizOverride) error {
	// Save with a full struct so cleared settings (nil pointers) are written
	// back as NULL rather than skipped.
	result := o.db.WithContext(ctx).Model(override).Select("*").
		Omit("id", "created_at").Updates(override)
	if result.Error != nil {
		return fmt.Errorf("failed to update override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (o *OverridePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := o.db.WithContext(ctx).Delete(&models.QuizOverride{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (o *OverridePostgreSQL) GetBySubject(ctx context.Context, quizID uint, mode models.ImportMode, subjectID uint) (*models.QuizOverride, error) {
	var override models.QuizOverride
	err := o.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Where(mode.SubjectColumn()+" = ?", subjectID).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up override: %w", err)
	}
	return &override, nil
}

func (o *OverridePostgreSQL) ListByQuiz(ctx context.Context, quizID uint, filters repositories.OverrideFilters) ([]*models.QuizOverride, int64, error) {
	var overrides []*models.QuizOverride
	var total int64

	query := o.db.WithContext(ctx).Model(&models.QuizOverride{}).Where("quiz_id = ?", quizID)
	if filters.Mode != nil {
		query = query.Where(filters.Mode.SubjectColumn() + " IS NOT NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&overrides).Error; err != nil {
		return nil, 0, err
	}

	return overrides, total, nil
}

func (o *OverridePostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var total int64
	err := o.db.WithContext(ctx).Model(&models.QuizOverride{}).
		Where("quiz_id = ?", quizID).Count(&total).Error
	return total, err
}
