package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/artifact"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StatusHandler struct {
	store     store.Store
	artifacts *artifact.Generator
}

func NewStatusHandler(st store.Store, artifacts *artifact.Generator) *StatusHandler {
	return &StatusHandler{
		store:     st,
		artifacts: artifacts,
	}
}

// GetStatus returns the job record and a snapshot of all its products.
// Once the job is completed it also lazily generates the output CSV and
// links it; generation failures only suppress the link, the status
// itself is still served.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	job, err := h.store.GetJob(jobID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load job",
			Message: err.Error(),
		})
		return
	}

	products, err := h.store.ListProducts(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load products",
			Message: err.Error(),
		})
		return
	}

	response := models.StatusResponse{
		JobID:     job.ID.String(),
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		Products:  make([]models.ProductStatus, len(products)),
	}
	if job.CompletedAt.Valid {
		completedAt := job.CompletedAt.Time.Format(time.RFC3339)
		response.CompletedAt = &completedAt
	}
	if job.CallbackURL.Valid {
		response.CallbackURL = job.CallbackURL.String
	}
	for i, p := range products {
		response.Products[i] = models.ProductStatus{
			SerialNumber:    p.SerialNumber,
			ProductName:     p.ProductName,
			InputImageURLs:  p.InputImageURLs,
			OutputImageURLs: p.OutputImageURLs,
			Status:          p.Status,
		}
	}

	if job.Status == models.JobStatusCompleted {
		if _, err := h.artifacts.GenerateCSV(jobID); err != nil {
			log.Printf("Error generating output CSV for job %s: %v", jobID, err)
		} else {
			response.OutputCSVLink = "/download/" + jobID.String()
		}
	}

	c.JSON(http.StatusOK, response)
}
