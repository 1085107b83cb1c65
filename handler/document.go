package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vineetsarpal/re-ink/config"
	"github.com/vineetsarpal/re-ink/pkg/logger"
	"github.com/vineetsarpal/re-ink/service"
)

// ObjectStorage is the document storage surface the handler needs.
// *service.MinioService satisfies it.
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, objectName string) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
}

// DocumentExtractor runs the vendor extraction workflow for an uploaded
// document. *service.AdeService satisfies it.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, documentURL, filename string) (*service.ExtractionRaw, error)
}

// DocumentHandler handles document upload and the async extraction
// pipeline behind it.
type DocumentHandler struct {
	storage   ObjectStorage
	extractor DocumentExtractor
	jobs      *service.ExtractionJobStore
	config    *config.Config
}

func NewDocumentHandler(storage ObjectStorage, extractor DocumentExtractor, jobs *service.ExtractionJobStore, cfg *config.Config) *DocumentHandler {
	return &DocumentHandler{
		storage:   storage,
		extractor: extractor,
		jobs:      jobs,
		config:    cfg,
	}
}

var allowedDocumentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tiff": "image/tiff",
}

// Upload accepts a contract document, stores it, and starts extraction in
// the background. Responds immediately with the job ID.
// POST /api/documents/upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	maxSize := int64(h.config.Upload.MaxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File too large. Maximum size is %dMB", h.config.Upload.MaxSizeMB),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedDocumentExtensions[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Upload a PDF or image document."})
		return
	}

	src, err := file.Open()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	jobID := uuid.New().String()
	objectName := fmt.Sprintf("documents/%s%s", jobID, ext)

	if err := h.storage.UploadFile(c.Request.Context(), objectName, src, file.Size, contentType); err != nil {
		logger.Error(c.Request.Context(), "failed to store document", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	h.jobs.Create(&service.ExtractionJob{
		ID:         jobID,
		Filename:   file.Filename,
		ObjectName: objectName,
		Status:     service.JobStatusProcessing,
		Message:    "Document uploaded, extraction in progress",
	})

	logger.Info(c.Request.Context(), "document uploaded",
		"job_id", jobID,
		"filename", file.Filename,
		"size", file.Size,
	)

	go h.runExtraction(jobID, objectName, file.Filename)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  jobID,
		"status":  service.JobStatusProcessing,
		"message": "Document uploaded, extraction in progress",
	})
}

// runExtraction drives one document through the vendor pipeline. Runs in
// its own goroutine with a fresh context so it outlives the upload
// request.
func (h *DocumentHandler) runExtraction(jobID, objectName, filename string) {
	ctx := context.WithValue(context.Background(), logger.JobIDKey, jobID)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	documentURL, err := h.storage.GetPresignedURL(ctx, objectName)
	if err != nil {
		logger.Error(ctx, "failed to generate presigned URL", "error", err)
		h.failJob(jobID, fmt.Sprintf("failed to generate document URL: %v", err))
		return
	}

	raw, err := h.extractor.ExtractDocument(ctx, documentURL, filename)
	if err != nil {
		logger.Error(ctx, "extraction failed", "error", err)
		h.failJob(jobID, err.Error())
		return
	}

	parsed := service.ParseExtraction(raw.ExtractResult, raw.Metadata)

	h.jobs.Update(jobID, func(job *service.ExtractionJob) {
		job.Status = service.JobStatusCompleted
		job.Message = "Extraction completed"
		job.Parsed = parsed
	})

	logger.Info(ctx, "extraction completed",
		"filename", filename,
		"parties", len(parsed.PartiesData),
	)
}

func (h *DocumentHandler) failJob(jobID, message string) {
	h.jobs.Update(jobID, func(job *service.ExtractionJob) {
		job.Status = service.JobStatusFailed
		job.Message = message
	})
}

// GetStatus returns the current state of an extraction job
// GET /api/documents/:job_id/status
func (h *DocumentHandler) GetStatus(c *gin.Context) {
	job := h.jobs.Get(c.Param("job_id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":     job.ID,
		"filename":   job.Filename,
		"status":     job.Status,
		"message":    job.Message,
		"created_at": job.CreatedAt,
		"updated_at": job.UpdatedAt,
	})
}

// GetResults returns the parsed extraction results for a completed job
// GET /api/documents/:job_id/results
func (h *DocumentHandler) GetResults(c *gin.Context) {
	job := h.jobs.Get(c.Param("job_id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction job not found"})
		return
	}

	if job.Status != service.JobStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  fmt.Sprintf("Extraction job is '%s', results are not available", job.Status),
			"status": job.Status,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":         job.ID,
		"filename":       job.Filename,
		"status":         job.Status,
		"parsed_results": job.Parsed,
	})
}

// Delete removes an extraction job and its stored document
// DELETE /api/documents/:job_id
func (h *DocumentHandler) Delete(c *gin.Context) {
	job := h.jobs.Get(c.Param("job_id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extraction job not found"})
		return
	}

	if job.ObjectName != "" {
		if err := h.storage.DeleteFile(c.Request.Context(), job.ObjectName); err != nil {
			logger.Warn(c.Request.Context(), "failed to delete stored document",
				"job_id", job.ID,
				"error", err,
			)
		}
	}

	h.jobs.Delete(job.ID)

	logger.Info(c.Request.Context(), "extraction job deleted", "job_id", job.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Extraction job deleted"})
}
