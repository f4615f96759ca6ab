package events

import (
	"time"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents different types of import events
type EventType string

const (
	EventImportPreviewed EventType = "override_import.previewed"
	EventImportCommitted EventType = "override_import.committed"
	EventImportFailed    EventType = "override_import.failed"
)

// ImportEvent is the base event structure for all override import events
type ImportEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Import event payloads

type ImportPreviewedEvent struct {
	BatchID    string            `json:"batch_id"`
	QuizID     uint              `json:"quiz_id"`
	Mode       models.ImportMode `json:"mode"`
	TotalRows  int               `json:"total_rows"`
	ErrorCount int               `json:"error_count"`
	CanCommit  bool              `json:"can_commit"`
}

type ImportCommittedEvent struct {
	BatchID     string            `json:"batch_id"`
	QuizID      uint              `json:"quiz_id"`
	Mode        models.ImportMode `json:"mode"`
	InsertCount int               `json:"insert_count"`
	UpdateCount int               `json:"update_count"`
	DeleteCount int               `json:"delete_count"`
	CommittedBy string            `json:"committed_by"`
}

type ImportFailedEvent struct {
	BatchID string            `json:"batch_id"`
	QuizID  uint              `json:"quiz_id"`
	Mode    models.ImportMode `json:"mode"`
	Reason  string            `json:"reason"`
}

// NewImportEvent wraps a payload in the event envelope.
func NewImportEvent(eventType EventType, data interface{}) *ImportEvent {
	return &ImportEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "override-service",
		Version:   "1.0",
		Data:      data,
	}
}
