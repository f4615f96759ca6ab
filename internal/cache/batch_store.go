package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrBatchNotFound is returned when a batch token is unknown or has expired.
var ErrBatchNotFound = errors.New("import batch not found or expired")

// BatchSnapshot is the pinned result of one preview run: the validated rows
// exactly as the user confirmed them, plus the parameters the run was keyed
// on. Commit refuses a snapshot whose quiz or mode does not match.
type BatchSnapshot struct {
	BatchID  string             `json:"batch_id"`
	QuizID   uint               `json:"quiz_id"`
	CourseID uint               `json:"course_id"`
	Mode     models.ImportMode  `json:"mode"`
	Rows     []models.ImportRow `json:"rows"`
}

// BatchStore pins preview snapshots between the preview and commit requests.
type BatchStore interface {
	Save(ctx context.Context, snapshot *BatchSnapshot, ttl time.Duration) error
	Get(ctx context.Context, batchID string) (*BatchSnapshot, error)
	Delete(ctx context.Context, batchID string) error
}

type redisBatchStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBatchStore(client *redis.Client, logger *slog.Logger) BatchStore {
	return &redisBatchStore{
		client: client,
		logger: logger,
	}
}

func batchKey(batchID string) string {
	return "override-import:batch:" + batchID
}

func (r *redisBatchStore) Save(ctx context.Context, snapshot *BatchSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal batch snapshot: %w", err)
	}

	if err := r.client.Set(ctx, batchKey(snapshot.BatchID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store batch snapshot: %w", err)
	}

	r.logger.Debug("Pinned import batch snapshot",
		"batch_id", snapshot.BatchID,
		"rows", len(snapshot.Rows),
		"ttl", ttl)

	return nil
}

func (r *redisBatchStore) Get(ctx context.Context, batchID string) (*BatchSnapshot, error) {
	payload, err := r.client.Get(ctx, batchKey(batchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch snapshot: %w", err)
	}

	var snapshot BatchSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch snapshot: %w", err)
	}

	return &snapshot, nil
}

func (r *redisBatchStore) Delete(ctx context.Context, batchID string) error {
	return r.client.Del(ctx, batchKey(batchID)).Err()
}

// MemoryBatchStore is an in-process BatchStore for tests. Entries never expire.
type MemoryBatchStore struct {
	snapshots map[string]*BatchSnapshot
}

func NewMemoryBatchStore() *MemoryBatchStore {
	return &MemoryBatchStore{snapshots: make(map[string]*BatchSnapshot)}
}

func (m *MemoryBatchStore) Save(ctx context.Context, snapshot *BatchSnapshot, ttl time.Duration) error {
	m.snapshots[snapshot.BatchID] = snapshot
	return nil
}

func (m *MemoryBatchStore) Get(ctx context.Context, batchID string) (*BatchSnapshot, error) {
	snapshot, ok := m.snapshots[batchID]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return snapshot, nil
}

func (m *MemoryBatchStore) Delete(ctx context.Context, batchID string) error {
	delete(m.snapshots, batchID)
	return nil
}
