package models

import "github.com/google/uuid"

const (
	ProductStatusPending   = "pending"
	ProductStatusProcessed = "processed"
)

// Product is one row of the uploaded spreadsheet. URL lists are stored
// comma-joined. OutputImageURLs holds only the successfully processed
// images, in the order their fetches completed, so it is not positionally
// aligned with InputImageURLs and a consumer cannot tell which specific
// input failed.
type Product struct {
	JobID           uuid.UUID
	Position        int
	SerialNumber    string
	ProductName     string
	InputImageURLs  string
	OutputImageURLs string
	Status          string
}
