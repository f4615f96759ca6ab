package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportAction classifies what committing a preview row will do to storage.
type ImportAction string

const (
	ActionInsert ImportAction = "insert"
	ActionUpdate ImportAction = "update"
	ActionDelete ImportAction = "delete"
	ActionSkip   ImportAction = "skip"
)

// ImportRow is one previewed line of an override import: the override it would
// produce, the 1-based source row number (header excluded), the classified
// action and any per-field validation errors. A row with errors is kept in the
// preview for visibility but is never committable.
type ImportRow struct {
	RowNumber   int               `json:"row_number"`
	Action      ImportAction      `json:"action"`
	Override    QuizOverride      `json:"override"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// HasErrors reports whether any field of the row failed validation.
func (r *ImportRow) HasErrors() bool {
	return len(r.FieldErrors) > 0
}

type ImportBatchStatus string

const (
	ImportPreviewed ImportBatchStatus = "previewed"
	ImportCommitted ImportBatchStatus = "committed"
	ImportFailed    ImportBatchStatus = "failed"
	ImportExpired   ImportBatchStatus = "expired"
)

// ImportBatch is the persisted audit record of one import run. The row
// snapshot itself lives in the batch store under the batch id; this table
// keeps the durable trail of who imported what and how it ended.
type ImportBatch struct {
	ID       string     `json:"id" gorm:"primaryKey;size:36"` // UUID
	QuizID   uint       `json:"quiz_id" gorm:"not null;index"`
	CourseID uint       `json:"course_id" gorm:"not null"`
	Mode     ImportMode `json:"mode" gorm:"not null;size:10" validate:"required,import_mode"`
	UserID   string     `json:"user_id" gorm:"not null;index;size:255"`

	// File info
	FileName string `json:"file_name" gorm:"not null;size:255"`
	FileType string `json:"file_type" gorm:"not null;size:20"` // csv, xlsx

	Status ImportBatchStatus `json:"status" gorm:"default:previewed;index"`

	// Processing counts
	TotalRows   int `json:"total_rows"`
	InsertCount int `json:"insert_count"`
	UpdateCount int `json:"update_count"`
	DeleteCount int `json:"delete_count"`
	ErrorCount  int `json:"error_count"`

	// Per-field validation errors keyed by row number, for the audit trail.
	Errors datatypes.JSON `json:"errors" gorm:"type:jsonb"`

	CommittedAt *time.Time `json:"committed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Quiz Quiz `json:"-" gorm:"foreignKey:QuizID" validate:"-"`
}

func (ImportBatch) TableName() string {
	return "override_import_batches"
}
