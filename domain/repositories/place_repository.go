package repositories

import (
	"context"

	"github.com/google/uuid"
	"travelkeep/domain/models"
)

type PlaceRepository interface {
	// Create persists a new place with PhotoCount zero and returns the
	// store-assigned ID on the passed record. Not idempotent: two identical
	// calls create two places.
	Create(ctx context.Context, place *models.Place) error

	// GetByID fetches a single place. Returns apperrors.ErrPlaceNotFound
	// when no such row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Place, error)

	// ListByOwner returns the owner's places ordered by created_at DESC.
	// An owner with no places gets an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Place, error)

	// List returns every place. Used by the count repair sweep.
	List(ctx context.Context) ([]models.Place, error)

	// IncrementPhotoCount atomically advances photo_count by delta and
	// returns the updated row. The increment happens in a single UPDATE
	// expression so concurrent batches on the same place cannot lose
	// updates. Returns apperrors.ErrPlaceNotFound if the place is gone.
	IncrementPhotoCount(ctx context.Context, id uuid.UUID, delta int64) (*models.Place, error)

	// SetPhotoCount overwrites photo_count with an absolute value. Only the
	// repair sweep uses this, after recounting the photos table.
	SetPhotoCount(ctx context.Context, id uuid.UUID, count int64) error
}
