package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/models"
	"travelkeep/domain/repositories"
)

type PhotoRepositoryImpl struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) repositories.PhotoRepository {
	return &PhotoRepositoryImpl{db: db}
}

func (r *PhotoRepositoryImpl) CreateBatch(ctx context.Context, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(photos, 100).Error; err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	return nil
}

func (r *PhotoRepositoryImpl) ListByPlace(ctx context.Context, placeID uuid.UUID) ([]models.Photo, error) {
	photos := make([]models.Photo, 0)
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("uploaded_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, apperrors.NewStorageUnavailable(err)
	}
	return photos, nil
}

func (r *PhotoRepositoryImpl) CountByPlace(ctx context.Context, placeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("place_id = ?", placeID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewStorageUnavailable(err)
	}
	return count, nil
}
