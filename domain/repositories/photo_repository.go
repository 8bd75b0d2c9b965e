package repositories

import (
	"context"

	"github.com/google/uuid"
	"travelkeep/domain/models"
)

type PhotoRepository interface {
	// CreateBatch inserts all photo rows of one upload batch. A zero-length
	// batch is a no-op.
	CreateBatch(ctx context.Context, photos []*models.Photo) error

	// ListByPlace returns a place's photos ordered by uploaded_at DESC.
	ListByPlace(ctx context.Context, placeID uuid.UUID) ([]models.Photo, error)

	// CountByPlace counts the persisted photos of a place. The repair sweep
	// compares this against the place's cached photo_count.
	CountByPlace(ctx context.Context, placeID uuid.UUID) (int64, error)
}
