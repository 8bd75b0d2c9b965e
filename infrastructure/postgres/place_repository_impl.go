package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/models"
	"travelkeep/domain/repositories"
)

type PlaceRepositoryImpl struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) repositories.PlaceRepository {
	return &PlaceRepositoryImpl{db: db}
}

func (r *PlaceRepositoryImpl) Create(ctx context.Context, place *models.Place) error {
	if err := r.db.WithContext(ctx).Create(place).Error; err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

func (r *PlaceRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Place, error) {
	var place models.Place
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlaceNotFound
		}
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return &place, nil
}

func (r *PlaceRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Place, error) {
	places := make([]models.Place, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&places).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return places, nil
}

func (r *PlaceRepositoryImpl) List(ctx context.Context) ([]models.Place, error) {
	places := make([]models.Place, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&places).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return places, nil
}

// IncrementPhotoCount runs the increment as a single UPDATE expression with
// RETURNING, so two concurrent batches on the same place both land and the
// returned row is the count the database actually holds.
func (r *PlaceRepositoryImpl) IncrementPhotoCount(ctx context.Context, id uuid.UUID, delta int64) (*models.Place, error) {
	var place models.Place
	result := r.db.WithContext(ctx).
		Model(&place).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn("photo_count", gorm.Expr("photo_count + ?", delta))
	if result.Error != nil {
		return nil, apperrors.NewStorageUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrPlaceNotFound
	}
	return &place, nil
}

func (r *PlaceRepositoryImpl) SetPhotoCount(ctx context.Context, id uuid.UUID, count int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Place{}).
		Where("id = ?", id).
		UpdateColumn("photo_count", count)
	if result.Error != nil {
		return apperrors.NewStorageUnavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPlaceNotFound
	}
	return nil
}
