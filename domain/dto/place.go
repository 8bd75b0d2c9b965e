package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePlaceRequest is the request for creating a new place
type CreatePlaceRequest struct {
	Name        string `json:"name" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description"`
}

// PlaceResponse is the DTO for place API responses
type PlaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	PhotoCount  int64     `json:"photo_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaceListResponse is the response for listing places
type PlaceListResponse struct {
	Places []PlaceResponse `json:"places"`
}

// PlaceDetailResponse is the place-detail view: place fields plus photos
type PlaceDetailResponse struct {
	Place  PlaceResponse   `json:"place"`
	Photos []PhotoResponse `json:"photos"`
}

// UploadPhotosResponse is the response for a batch upload: the photos of
// this batch plus the post-reconcile place record
type UploadPhotosResponse struct {
	Place  PlaceResponse   `json:"place"`
	Photos []PhotoResponse `json:"photos"`
}
