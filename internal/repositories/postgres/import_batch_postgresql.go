package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/SAP-F-2025/override-service/internal/repositories"
	"gorm.io/gorm"
)

type ImportBatchPostgreSQL struct {
	db *gorm.DB
}

func NewImportBatchPostgreSQL(db *gorm.DB) *ImportBatchPostgreSQL {
	return &ImportBatchPostgreSQL{db: db}
}

func (b *ImportBatchPostgreSQL) Create(ctx context.Context, batch *models.ImportBatch) error {
	if err := b.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}
	return nil
}

func (b *ImportBatchPostgreSQL) GetByID(ctx context.Context, id string) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	if err := b.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (b *ImportBatchPostgreSQL) Update(ctx context.Context, batch *models.ImportBatch) error {
	if err := b.db.WithContext(ctx).Save(batch).Error; err != nil {
		return fmt.Errorf("failed to update import batch: %w", err)
	}
	return nil
}

func (b *ImportBatchPostgreSQL) List(ctx context.Context, filters repositories.ImportBatchFilters) ([]*models.ImportBatch, int64, error) {
	var batches []*models.ImportBatch
	var total int64

	query := b.db.WithContext(ctx).Model(&models.ImportBatch{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}
