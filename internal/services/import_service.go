package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAP-F-2025/override-service/internal/cache"
	"github.com/SAP-F-2025/override-service/internal/events"
	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/SAP-F-2025/override-service/internal/repositories"
	"github.com/SAP-F-2025/override-service/internal/validator"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverrideImportService drives the two-phase import of quiz scheduling
// overrides: Preview validates and classifies every row of an uploaded file
// without touching the override table; Commit applies a confirmed preview
// atomically.
type OverrideImportService interface {
	// Preview runs the full pipeline against a row source: header check, then
	// per-row validation and reconciliation. It returns the ordered preview
	// list pinned under a batch token. A *HeaderMismatchError means the file
	// was structurally wrong and no rows were read; per-row problems never
	// fail the call.
	Preview(ctx context.Context, source RowSource, params ImportParams) (*ImportPreview, error)

	// PreviewFile picks the row source from the uploaded file's extension
	// (.csv/.txt delimited text, .xlsx Excel) and delegates to Preview.
	PreviewFile(ctx context.Context, file multipart.File, filename string, params ImportParams) (*ImportPreview, error)

	// Commit applies the pinned batch to storage inside one transaction.
	// Any storage failure rolls back every row and surfaces a *CommitError.
	Commit(ctx context.Context, quizID uint, batchID string, committedBy string) (*ImportOutcome, error)

	// Batch audit trail
	GetBatch(ctx context.Context, batchID string) (*models.ImportBatch, error)
	ListBatches(ctx context.Context, filters repositories.ImportBatchFilters) ([]*models.ImportBatch, int64, error)
}

type overrideImportService struct {
	repo      repositories.Repository
	batches   cache.BatchStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	batchTTL  time.Duration
}

func NewOverrideImportService(
	repo repositories.Repository,
	batches cache.BatchStore,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	batchTTL time.Duration,
) OverrideImportService {
	return &overrideImportService{
		repo:      repo,
		batches:   batches,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		batchTTL:  batchTTL,
	}
}

// ImportParams identifies one import run. Mode and quiz are fixed for the
// whole run; the course the group check is scoped to comes from the quiz.
type ImportParams struct {
	QuizID    uint
	Mode      models.ImportMode
	UserID    string // importer, for the audit trail
	FileName  string
	Delimiter rune // zero value means comma
}

// ImportPreview is the pipeline's terminal output: every previewed row in
// file order plus the commit-eligibility flag.
type ImportPreview struct {
	BatchID     string             `json:"batch_id"`
	QuizID      uint               `json:"quiz_id"`
	Mode        models.ImportMode  `json:"mode"`
	Rows        []models.ImportRow `json:"rows"`
	TotalRows   int                `json:"total_rows"`
	InsertCount int                `json:"insert_count"`
	UpdateCount int                `json:"update_count"`
	DeleteCount int                `json:"delete_count"`
	ErrorCount  int                `json:"error_count"`
	CanCommit   bool               `json:"can_commit"`
}

// ImportOutcome reports what a committed batch changed.
type ImportOutcome struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
}

// ===== PREVIEW =====

func (s *overrideImportService) PreviewFile(ctx context.Context, file multipart.File, filename string, params ImportParams) (*ImportPreview, error) {
	s.logger.Info("Starting override import",
		"filename", filename,
		"quiz_id", params.QuizID,
		"mode", params.Mode,
		"user_id", params.UserID)

	source, err := NewRowSource(file, filename, params.Delimiter)
	if err != nil {
		return nil, err
	}

	params.FileName = filename
	return s.Preview(ctx, source, params)
}

func (s *overrideImportService) Preview(ctx context.Context, source RowSource, params ImportParams) (*ImportPreview, error) {
	if !params.Mode.Valid() {
		return nil, ErrInvalidImportMode
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, params.QuizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	expected := expectedColumns(params.Mode)
	if actual := source.Columns(); !columnsMatch(expected, actual) {
		return nil, &HeaderMismatchError{Expected: expected, Actual: actual}
	}

	preview := &ImportPreview{
		BatchID: uuid.NewString(),
		QuizID:  params.QuizID,
		Mode:    params.Mode,
	}

	rowNumber := 0
	for {
		record, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		fields := newImportRowFields(record)

		parsed, fieldErrors, err := s.validateRow(ctx, params.Mode, quiz.CourseID, fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}

		existing, err := s.reconcile(ctx, params.QuizID, params.Mode, parsed.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}

		action := classifyAction(fields.ValueFieldsEmpty(), existing)
		if action == models.ActionSkip {
			// Nothing to insert, update or delete; the row contributes
			// nothing to the preview or the commit set.
			continue
		}

		override, err := buildOverride(params.QuizID, params.Mode, parsed)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}
		if existing != nil {
			override.ID = existing.ID
		}

		row := models.ImportRow{
			RowNumber:   rowNumber,
			Action:      action,
			Override:    override,
			FieldErrors: fieldErrors,
		}
		preview.Rows = append(preview.Rows, row)

		switch action {
		case models.ActionInsert:
			preview.InsertCount++
		case models.ActionUpdate:
			preview.UpdateCount++
		case models.ActionDelete:
			preview.DeleteCount++
		}
		if row.HasErrors() {
			preview.ErrorCount++
		}
	}

	if rowNumber == 0 {
		return nil, ErrEmptyImportFile
	}

	preview.TotalRows = len(preview.Rows)
	preview.CanCommit = preview.ErrorCount == 0

	if err := s.pinBatch(ctx, quiz, params, preview); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewImportEvent(events.EventImportPreviewed, events.ImportPreviewedEvent{
		BatchID:    preview.BatchID,
		QuizID:     preview.QuizID,
		Mode:       preview.Mode,
		TotalRows:  preview.TotalRows,
		ErrorCount: preview.ErrorCount,
		CanCommit:  preview.CanCommit,
	}))

	s.logger.Info("Override import previewed",
		"batch_id", preview.BatchID,
		"quiz_id", preview.QuizID,
		"total_rows", preview.TotalRows,
		"error_count", preview.ErrorCount,
		"can_commit", preview.CanCommit)

	return preview, nil
}

// reconcile looks up the unique existing override for the subject, tolerating
// an absent subject id without querying.
func (s *overrideImportService) reconcile(ctx context.Context, quizID uint, mode models.ImportMode, subjectID *uint) (*models.QuizOverride, error) {
	if subjectID == nil {
		return nil, nil
	}
	return s.repo.Override().GetBySubject(ctx, quizID, mode, *subjectID)
}

// pinBatch stores the preview snapshot under its token and records the audit
// trail row.
func (s *overrideImportService) pinBatch(ctx context.Context, quiz *models.Quiz, params ImportParams, preview *ImportPreview) error {
	snapshot := &cache.BatchSnapshot{
		BatchID:  preview.BatchID,
		QuizID:   preview.QuizID,
		CourseID: quiz.CourseID,
		Mode:     preview.Mode,
		Rows:     preview.Rows,
	}
	if err := s.batches.Save(ctx, snapshot, s.batchTTL); err != nil {
		return fmt.Errorf("failed to pin preview batch: %w", err)
	}

	batch := &models.ImportBatch{
		ID:          preview.BatchID,
		QuizID:      preview.QuizID,
		CourseID:    quiz.CourseID,
		Mode:        preview.Mode,
		UserID:      params.UserID,
		FileName:    params.FileName,
		FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(params.FileName)), "."),
		Status:      models.ImportPreviewed,
		TotalRows:   preview.TotalRows,
		InsertCount: preview.InsertCount,
		UpdateCount: preview.UpdateCount,
		DeleteCount: preview.DeleteCount,
		ErrorCount:  preview.ErrorCount,
		Errors:      marshalRowErrors(preview.Rows),
	}
	if err := s.repo.Batch().Create(ctx, batch); err != nil {
		return fmt.Errorf("failed to record import batch: %w", err)
	}

	return nil
}

func marshalRowErrors(rows []models.ImportRow) []byte {
	errorsByRow := make(map[int]map[string]string)
	for _, row := range rows {
		if row.HasErrors() {
			errorsByRow[row.RowNumber] = row.FieldErrors
		}
	}
	if len(errorsByRow) == 0 {
		return nil
	}
	payload, err := json.Marshal(errorsByRow)
	if err != nil {
		return nil
	}
	return payload
}

// ===== COMMIT =====

func (s *overrideImportService) Commit(ctx context.Context, quizID uint, batchID string, committedBy string) (*ImportOutcome, error) {
	snapshot, err := s.batches.Get(ctx, batchID)
	if errors.Is(err, cache.ErrBatchNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preview batch: %w", err)
	}
	if snapshot.QuizID != quizID {
		return nil, ErrBatchQuizMismatch
	}

	record, err := s.repo.Batch().GetByID(ctx, batchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load import batch record: %w", err)
	}
	if record.Status != models.ImportPreviewed {
		return nil, ErrBatchAlreadyCommitted
	}

	// Defensive re-validation: preview data may have gone stale between the
	// two requests. A batch that no longer validates cleanly is refused
	// before any write happens.
	if err := s.revalidateBatch(ctx, snapshot); err != nil {
		return nil, err
	}

	outcome := &ImportOutcome{BatchID: batchID}

	err = s.repo.Transaction(ctx, func(txRepo repositories.Repository) error {
		for _, row := range snapshot.Rows {
			if err := s.applyRow(ctx, txRepo, snapshot, row, outcome); err != nil {
				return &CommitError{BatchID: batchID, RowNumber: row.RowNumber, Err: err}
			}
		}

		// The audit update works on a copy: if the transaction rolls back,
		// record still holds the preview-time counts and no commit timestamp
		// for the failure path to persist.
		now := time.Now()
		committed := *record
		committed.Status = models.ImportCommitted
		committed.InsertCount = outcome.Inserted
		committed.UpdateCount = outcome.Updated
		committed.DeleteCount = outcome.Deleted
		committed.CommittedAt = &now
		return txRepo.Batch().Update(ctx, &committed)
	})
	if err != nil {
		s.markBatchFailed(ctx, record)
		s.publishEvent(ctx, events.NewImportEvent(events.EventImportFailed, events.ImportFailedEvent{
			BatchID: batchID,
			QuizID:  snapshot.QuizID,
			Mode:    snapshot.Mode,
			Reason:  err.Error(),
		}))
		return nil, err
	}

	if err := s.batches.Delete(ctx, batchID); err != nil {
		s.logger.Warn("Failed to drop committed batch snapshot", "batch_id", batchID, "error", err)
	}

	s.publishEvent(ctx, events.NewImportEvent(events.EventImportCommitted, events.ImportCommittedEvent{
		BatchID:     batchID,
		QuizID:      snapshot.QuizID,
		Mode:        snapshot.Mode,
		InsertCount: outcome.Inserted,
		UpdateCount: outcome.Updated,
		DeleteCount: outcome.Deleted,
		CommittedBy: committedBy,
	}))

	s.logger.Info("Override import committed",
		"batch_id", batchID,
		"quiz_id", snapshot.QuizID,
		"inserted", outcome.Inserted,
		"updated", outcome.Updated,
		"deleted", outcome.Deleted)

	return outcome, nil
}

// revalidateBatch re-checks the pinned rows against live data: rows that
// carried field errors are refused outright, the assembled overrides must
// still satisfy their struct rules, and referenced users/groups must still
// exist.
func (s *overrideImportService) revalidateBatch(ctx context.Context, snapshot *cache.BatchSnapshot) error {
	for _, row := range snapshot.Rows {
		if row.HasErrors() {
			return ErrBatchNotCommittable
		}
		if row.Action == models.ActionSkip {
			continue
		}

		if err := s.validator.Validate(&row.Override); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrBatchNotCommittable, row.RowNumber, err)
		}

		subjectID := row.Override.SubjectID()
		if subjectID == nil {
			return fmt.Errorf("%w: row %d has no subject", ErrBatchNotCommittable, row.RowNumber)
		}
		exists, err := s.subjectExists(ctx, snapshot.Mode, *subjectID, snapshot.CourseID)
		if err != nil {
			return fmt.Errorf("failed to re-check subject on row %d: %w", row.RowNumber, err)
		}
		if !exists {
			return fmt.Errorf("%w: row %d references a %s that no longer exists",
				ErrBatchNotCommittable, row.RowNumber, snapshot.Mode)
		}
	}
	return nil
}

// applyRow dispatches one confirmed row inside the commit transaction. The
// action is re-reconciled against live data first: a delete whose target is
// already gone becomes a no-op, and duplicate subject rows within one file
// resolve to last-write-wins because the later row sees the earlier row's
// insert.
func (s *overrideImportService) applyRow(ctx context.Context, txRepo repositories.Repository, snapshot *cache.BatchSnapshot, row models.ImportRow, outcome *ImportOutcome) error {
	if row.Action == models.ActionSkip {
		return nil
	}

	subjectID := row.Override.SubjectID()
	if subjectID == nil {
		return nil
	}

	existing, err := txRepo.Override().GetBySubject(ctx, snapshot.QuizID, snapshot.Mode, *subjectID)
	if err != nil {
		return err
	}

	if row.Action == models.ActionDelete {
		if existing == nil {
			return nil
		}
		if err := txRepo.Override().Delete(ctx, existing.ID); err != nil {
			return err
		}
		outcome.Deleted++
		return nil
	}

	override := row.Override
	override.QuizID = snapshot.QuizID

	if existing != nil {
		override.ID = existing.ID
		if err := txRepo.Override().Update(ctx, &override); err != nil {
			return err
		}
		outcome.Updated++
		return nil
	}

	override.ID = 0
	if err := txRepo.Override().Create(ctx, &override); err != nil {
		return err
	}
	outcome.Inserted++
	return nil
}

func (s *overrideImportService) markBatchFailed(ctx context.Context, record *models.ImportBatch) {
	record.Status = models.ImportFailed
	if err := s.repo.Batch().Update(ctx, record); err != nil {
		s.logger.Error("Failed to mark import batch as failed", "batch_id", record.ID, "error", err)
	}
}

func (s *overrideImportService) publishEvent(ctx context.Context, event *events.ImportEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishImportEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish import event", "event_type", event.Type, "error", err)
	}
}

// ===== BATCH AUDIT TRAIL =====

func (s *overrideImportService) GetBatch(ctx context.Context, batchID string) (*models.ImportBatch, error) {
	batch, err := s.repo.Batch().GetByID(ctx, batchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *overrideImportService) ListBatches(ctx context.Context, filters repositories.ImportBatchFilters) ([]*models.ImportBatch, int64, error) {
	return s.repo.Batch().List(ctx, filters)
}
