package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/SAP-F-2025/override-service/internal/repositories"
	"github.com/SAP-F-2025/override-service/internal/services"
	"github.com/SAP-F-2025/override-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ImportHandler is the thin HTTP surface over the override import pipeline:
// it moves the uploaded file and the batch token around and translates
// service errors into status codes. All real logic lives in the service.
type ImportHandler struct {
	BaseHandler
	importService services.OverrideImportService
}

func NewImportHandler(importService services.OverrideImportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
	}
}

// PreviewImport accepts a multipart override file and returns the validated,
// classified preview plus the batch token the commit call needs.
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	mode := models.ImportMode(c.PostForm("mode"))
	if !mode.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid import mode",
			Details: "mode must be user or group",
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing upload file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Previewing override import",
		"quiz_id", quizID, "mode", mode, "filename", header.Filename)

	params := services.ImportParams{
		QuizID: quizID,
		Mode:   mode,
		UserID: c.GetString("user_id"),
	}
	if delimiter := c.PostForm("delimiter"); delimiter != "" {
		params.Delimiter = []rune(delimiter)[0]
	}

	preview, err := h.importService.PreviewFile(c.Request.Context(), file, header.Filename, params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Import previewed",
		Data:    preview,
	})
}

// CommitImport applies a previously previewed batch.
func (h *ImportHandler) CommitImport(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	batchID := c.Param("batch_id")

	h.LogRequest(c, "Committing override import", "quiz_id", quizID, "batch_id", batchID)

	outcome, err := h.importService.Commit(c.Request.Context(), quizID, batchID, c.GetString("user_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Import committed",
		Data:    outcome,
	})
}

// GetImportBatch returns the audit record of one import run.
func (h *ImportHandler) GetImportBatch(c *gin.Context) {
	batchID := c.Param("batch_id")

	batch, err := h.importService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

// ListImportBatches lists import runs, optionally filtered by quiz.
func (h *ImportHandler) ListImportBatches(c *gin.Context) {
	filters := repositories.ImportBatchFilters{}

	if quizStr := c.Query("quiz_id"); quizStr != "" {
		quizID, err := strconv.ParseUint(quizStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid quiz_id",
			})
			return
		}
		id := uint(quizID)
		filters.QuizID = &id
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}

	batches, total, err := h.importService.ListBatches(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batches": batches,
		"total":   total,
	})
}

func (h *ImportHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

func (h *ImportHandler) handleServiceError(c *gin.Context, err error) {
	var headerErr *services.HeaderMismatchError
	if errors.As(err, &headerErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Import file header does not match the expected columns",
			Details: headerErr,
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var commitErr *services.CommitError
	if errors.As(err, &commitErr) {
		h.LogError(c, err, "Import commit rolled back", "batch_id", commitErr.BatchID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Commit failed and was rolled back",
			Details: commitErr.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz not found",
		})
	case errors.Is(err, services.ErrBatchNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Import batch not found or expired",
		})
	case errors.Is(err, services.ErrBatchNotCommittable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Import batch has validation errors and cannot be committed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrBatchAlreadyCommitted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Import batch was already committed",
		})
	case errors.Is(err, services.ErrBatchQuizMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Import batch belongs to a different quiz",
		})
	case errors.Is(err, services.ErrInvalidImportMode):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Import mode must be user or group",
		})
	case errors.Is(err, services.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported import file type",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrEmptyImportFile):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Import file must have a header row and at least one data row",
		})
	default:
		h.LogError(c, err, "Unhandled import service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
