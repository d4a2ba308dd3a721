package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const webhookTimeout = 5 * time.Second

// Notifier delivers completion callbacks. Delivery is best-effort: one
// attempt, no retry, and failures are invisible to the job's persisted
// state.
type Notifier struct {
	httpClient *http.Client
}

type completedPayload struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func NewNotifier() *Notifier {
	return &Notifier{
		httpClient: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// NotifyCompleted POSTs {job_id, status: "completed"} to callbackURL.
// Transport errors and non-2xx responses are logged and ignored.
func (n *Notifier) NotifyCompleted(callbackURL string, jobID uuid.UUID) {
	payload, err := json.Marshal(completedPayload{
		JobID:  jobID.String(),
		Status: "completed",
	})
	if err != nil {
		log.Printf("Error building webhook payload for job %s: %v", jobID, err)
		return
	}

	resp, err := n.httpClient.Post(callbackURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("Error calling webhook for job %s: %v", jobID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Webhook call for job %s failed, status: %d", jobID, resp.StatusCode)
	}
}
