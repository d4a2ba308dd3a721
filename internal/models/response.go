package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type UploadResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

type StatusResponse struct {
	JobID         string          `json:"job_id"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
	CompletedAt   *string         `json:"completed_at"`
	CallbackURL   string          `json:"callback_url,omitempty"`
	Products      []ProductStatus `json:"products"`
	OutputCSVLink string          `json:"output_csv_link,omitempty"`
}

type ProductStatus struct {
	SerialNumber    string `json:"serial_number"`
	ProductName     string `json:"product_name"`
	InputImageURLs  string `json:"input_image_urls"`
	OutputImageURLs string `json:"output_image_urls"`
	Status          string `json:"status"`
}
