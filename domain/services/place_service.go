package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"travelkeep/domain/models"
)

type CreatePlaceInput struct {
	Name        string
	Location    string
	Description string
}

// PlaceDetail is the place-detail view model: the place record plus its
// photo list.
type PlaceDetail struct {
	Place  *models.Place
	Photos []models.Photo
}

// UploadResult carries the outcome of one upload batch: the photos created
// for the batch and the authoritative post-reconcile place record. Callers
// must adopt Place as-is instead of adding the batch size to their cached
// copy; a concurrent session may have moved the count further.
type UploadResult struct {
	Place  *models.Place
	Photos []models.Photo
}

type PlaceService interface {
	ListPlaces(ctx context.Context, ownerID uuid.UUID) ([]models.Place, error)
	CreatePlace(ctx context.Context, ownerID uuid.UUID, input CreatePlaceInput) (*models.Place, error)
	GetPlaceDetail(ctx context.Context, userID, placeID uuid.UUID) (*PlaceDetail, error)
	UploadPhotos(ctx context.Context, userID, placeID uuid.UUID, files []FileInput) (*UploadResult, error)

	// RepairCounts recounts every place's photos and fixes drifted
	// photo_count values. Returns the number of places repaired.
	RepairCounts(ctx context.Context) (int, error)
}

// PlaceEventBroadcaster pushes count changes to clients watching a place.
type PlaceEventBroadcaster interface {
	BroadcastPhotoCount(placeID uuid.UUID, count int64)
}

// DetailCache is a read-through cache over serialized place-detail
// responses. Implementations must tolerate being unavailable; callers treat
// every cache error as a miss.
type DetailCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
