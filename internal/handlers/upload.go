package handlers

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/ingest"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/queue"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	store store.Store
	queue *queue.Queue
}

func NewUploadHandler(st store.Store, q *queue.Queue) *UploadHandler {
	return &UploadHandler{
		store: st,
		queue: q,
	}
}

// Upload accepts a multipart form with a CSV or XLSX spreadsheet in the
// "file" field and an optional "webhook_url" value. The job and all its
// products are persisted in one transaction before the job id is handed
// to the background queue, so the response always refers to durable
// state.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: "please provide a spreadsheet in the 'file' form field",
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open uploaded file",
			Message: err.Error(),
		})
		return
	}
	defer src.Close()

	rows, err := h.parse(fileHeader.Filename, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid file",
			Message: err.Error(),
		})
		return
	}

	job := &models.Job{
		ID:        uuid.New(),
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if webhookURL := c.PostForm("webhook_url"); webhookURL != "" {
		job.CallbackURL = sql.NullString{String: webhookURL, Valid: true}
	}

	products := make([]*models.Product, len(rows))
	for i, row := range rows {
		products[i] = &models.Product{
			JobID:          job.ID,
			Position:       i,
			SerialNumber:   row.SerialNumber,
			ProductName:    row.ProductName,
			InputImageURLs: row.InputImageURLs,
			Status:         models.ProductStatusPending,
		}
	}

	if err := h.store.CreateJobWithProducts(job, products); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save request and product data",
			Message: err.Error(),
		})
		return
	}

	if err := h.queue.Enqueue(job.ID); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "processing queue is full",
			Message: "the job was saved but could not be scheduled, please retry later",
		})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		JobID:   job.ID.String(),
		Message: "file uploaded and processing started",
	})
}

func (h *UploadHandler) parse(filename string, r io.Reader) ([]ingest.ProductRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ingest.ParseCSV(r)
	case ".xlsx":
		return ingest.ParseXLSX(r)
	default:
		return nil, errors.New("invalid file type, only CSV and XLSX files are accepted")
	}
}
