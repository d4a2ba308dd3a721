package artifact_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/artifact"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedJob(t *testing.T, st store.Store) uuid.UUID {
	t.Helper()

	job := &models.Job{
		ID:        uuid.New(),
		Status:    models.JobStatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	products := []*models.Product{
		{
			JobID:           job.ID,
			Position:        0,
			SerialNumber:    "1",
			ProductName:     "Widget",
			InputImageURLs:  "https://a/1.jpg,https://a/2.jpg",
			OutputImageURLs: "/processed_images/x.jpg",
			Status:          models.ProductStatusProcessed,
		},
		{
			JobID:          job.ID,
			Position:       1,
			SerialNumber:   "2",
			ProductName:    "Gadget",
			InputImageURLs: "https://a/3.jpg",
			Status:         models.ProductStatusProcessed,
		},
	}
	require.NoError(t, st.CreateJobWithProducts(job, products))
	return job.ID
}

func TestGenerateCSV(t *testing.T) {
	st := store.NewMemoryStore()
	dir := t.TempDir()
	gen := artifact.NewGenerator(st, dir)

	jobID := seedJob(t, st)
	path, err := gen.GenerateCSV(jobID)
	require.NoError(t, err)
	assert.Equal(t, gen.CSVPath(jobID), path)
	assert.True(t, strings.HasSuffix(path, jobID.String()+"_output.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "S. No,Product Name,Input Image Urls,Output Image Urls", lines[0])
	assert.Equal(t, `1,Widget,"https://a/1.jpg,https://a/2.jpg",/processed_images/x.jpg`, lines[1])
	assert.Equal(t, "2,Gadget,https://a/3.jpg,", lines[2])
}

func TestGenerateCSV_Idempotent(t *testing.T) {
	st := store.NewMemoryStore()
	gen := artifact.NewGenerator(st, t.TempDir())

	jobID := seedJob(t, st)
	path, err := gen.GenerateCSV(jobID)
	require.NoError(t, err)

	// Overwrite the file: a second generation call must not regenerate it.
	require.NoError(t, os.WriteFile(path, []byte("sentinel"), 0o644))

	again, err := gen.GenerateCSV(jobID)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sentinel", string(data))
}

func TestGenerateXLSX(t *testing.T) {
	st := store.NewMemoryStore()
	gen := artifact.NewGenerator(st, t.TempDir())

	jobID := seedJob(t, st)
	path, err := gen.GenerateXLSX(jobID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, jobID.String()+"_output.xlsx"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Products", "A1")
	require.NoError(t, err)
	assert.Equal(t, "S. No", header)

	name, err := f.GetCellValue("Products", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Widget", name)

	outputs, err := f.GetCellValue("Products", "D2")
	require.NoError(t, err)
	assert.Equal(t, "/processed_images/x.jpg", outputs)

	empty, err := f.GetCellValue("Products", "D3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
