package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ffaiyaz23/image-processor/internal/artifact"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DownloadHandler struct {
	store     store.Store
	artifacts *artifact.Generator
}

func NewDownloadHandler(st store.Store, artifacts *artifact.Generator) *DownloadHandler {
	return &DownloadHandler{
		store:     st,
		artifacts: artifacts,
	}
}

// Download streams the job's output file as an attachment. The default
// format is CSV; ?format=xlsx selects the workbook. For a completed job
// the file is generated lazily; otherwise it must already exist on disk
// or the response is 404.
func (h *DownloadHandler) Download(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "format must be csv or xlsx"})
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

	path := h.artifacts.CSVPath(jobID)
	if format == "xlsx" {
		path = h.artifacts.XLSXPath(jobID)
	}

	if job.Status == models.JobStatusCompleted {
		var genErr error
		if format == "xlsx" {
			path, genErr = h.artifacts.GenerateXLSX(jobID)
		} else {
			path, genErr = h.artifacts.GenerateCSV(jobID)
		}
		if genErr != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to generate output file",
				Message: genErr.Error(),
			})
			return
		}
	} else if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "output file not found"})
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
