package dto

import (
	"time"

	"github.com/google/uuid"
)

// PhotoResponse is the DTO for photo API responses
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
