package services_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ffaiyaz23/image-processor/internal/imagefetch"
	"github.com/ffaiyaz23/image-processor/internal/models"
	"github.com/ffaiyaz23/image-processor/internal/services"
	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(url string) imagefetch.Result

func (f fetcherFunc) Fetch(url string) imagefetch.Result {
	return f(url)
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyCompleted(callbackURL string, jobID uuid.UUID) {
	n.calls = append(n.calls, callbackURL)
}

func succeedExcept(failing ...string) fetcherFunc {
	return func(url string) imagefetch.Result {
		for _, f := range failing {
			if url == f {
				return imagefetch.Result{Err: errors.New("download failed")}
			}
		}
		return imagefetch.Result{OutputURL: "/processed_images/" + url[strings.LastIndex(url, "/")+1:]}
	}
}

func createJob(t *testing.T, st store.Store, callbackURL string, inputURLs ...string) uuid.UUID {
	t.Helper()

	job := &models.Job{
		ID:        uuid.New(),
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if callbackURL != "" {
		job.CallbackURL = sql.NullString{String: callbackURL, Valid: true}
	}

	products := make([]*models.Product, len(inputURLs))
	for i, urls := range inputURLs {
		products[i] = &models.Product{
			JobID:          job.ID,
			Position:       i,
			SerialNumber:   "1",
			ProductName:    "Widget",
			InputImageURLs: urls,
			Status:         models.ProductStatusPending,
		}
	}

	require.NoError(t, st.CreateJobWithProducts(job, products))
	return job.ID
}

func newProcessor(st store.Store, fetcher fetcherFunc, notifier *recordingNotifier) *services.Processor {
	p := services.NewProcessor(st, fetcher, notifier)
	p.RowPause = 0
	return p
}

func TestProcessRow_PartialFailure(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept("https://a/2.jpg"), notifier)

	jobID := createJob(t, st, "", "https://a/1.jpg, https://a/2.jpg, https://a/3.jpg")
	proc.Run(jobID)

	products, err := st.ListProducts(jobID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	// One of three URLs failed: exactly two outputs, in completion order.
	assert.Equal(t, "/processed_images/1.jpg,/processed_images/3.jpg", products[0].OutputImageURLs)
	assert.Equal(t, models.ProductStatusProcessed, products[0].Status)
}

func TestProcessRow_AllFailuresStillProcessed(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept("https://a/1.jpg", "https://a/2.jpg"), notifier)

	jobID := createJob(t, st, "", "https://a/1.jpg,https://a/2.jpg")
	proc.Run(jobID)

	products, err := st.ListProducts(jobID)
	require.NoError(t, err)
	assert.Empty(t, products[0].OutputImageURLs)
	assert.Equal(t, models.ProductStatusProcessed, products[0].Status)

	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
}

func TestProcessRow_SkipsEmptyEntries(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept(), notifier)

	jobID := createJob(t, st, "", "https://a/1.jpg,, https://a/2.jpg ,")
	proc.Run(jobID)

	products, err := st.ListProducts(jobID)
	require.NoError(t, err)
	assert.Equal(t, "/processed_images/1.jpg,/processed_images/2.jpg", products[0].OutputImageURLs)
}

func TestRun_CompletesJobAndNotifies(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept(), notifier)

	jobID := createJob(t, st, "https://example.com/hook", "https://a/1.jpg")
	proc.Run(jobID)

	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	require.True(t, job.CompletedAt.Valid)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "https://example.com/hook", notifier.calls[0])
}

func TestRun_NoCallbackNoNotification(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept(), notifier)

	jobID := createJob(t, st, "", "https://a/1.jpg")
	proc.Run(jobID)

	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Empty(t, notifier.calls)
}

func TestRun_UnknownJobMarkedFailed(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(st, succeedExcept(), notifier)

	// Run for a job that was never created: nothing to notify, no panic.
	proc.Run(uuid.New())
	assert.Empty(t, notifier.calls)
}

type failingUpdateStore struct {
	store.Store
}

func (s *failingUpdateStore) UpdateProduct(p *models.Product) error {
	return errors.New("write failed")
}

func TestRun_PersistFailureFailsJob(t *testing.T) {
	mem := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	proc := newProcessor(&failingUpdateStore{Store: mem}, succeedExcept(), notifier)

	jobID := createJob(t, mem, "https://example.com/hook", "https://a/1.jpg")
	proc.Run(jobID)

	job, err := mem.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.False(t, job.CompletedAt.Valid)
	assert.Empty(t, notifier.calls, "failed runs must not fire the webhook")
}
