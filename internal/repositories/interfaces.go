package repositories

import (
	"context"

	"github.com/SAP-F-2025/override-service/internal/models"
)

// Repository aggregates the stores the override import pipeline touches.
type Repository interface {
	Override() OverrideRepository
	Quiz() QuizRepository
	User() UserRepository
	Group() GroupRepository
	Batch() ImportBatchRepository

	// Transaction runs fn against a Repository bound to one database
	// transaction. A non-nil error from fn rolls back every change made
	// through that Repository; otherwise the transaction commits once.
	Transaction(ctx context.Context, fn func(Repository) error) error
}

// ===== SHARED FILTER STRUCTS =====

type OverrideFilters struct {
	Mode      *models.ImportMode `json:"mode"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "user_id", "group_id"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type ImportBatchFilters struct {
	Status *models.ImportBatchStatus `json:"status"`
	QuizID *uint                     `json:"quiz_id"`
	UserID *string                   `json:"user_id"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}
