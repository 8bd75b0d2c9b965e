package serviceimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/models"
	"travelkeep/domain/repositories"
	"travelkeep/domain/services"
	"travelkeep/pkg/logger"
)

const (
	maxNameLength        = 120
	maxLocationLength    = 200
	maxDescriptionLength = 2000

	detailCacheTTL = 5 * time.Minute
)

type PlaceServiceImpl struct {
	placeRepo   repositories.PlaceRepository
	photoRepo   repositories.PhotoRepository
	uploads     services.UploadService
	cache       services.DetailCache
	broadcaster services.PlaceEventBroadcaster
}

// NewPlaceService wires the place aggregate. cache and broadcaster may be
// nil; the service then skips detail caching and count broadcasts.
func NewPlaceService(
	placeRepo repositories.PlaceRepository,
	photoRepo repositories.PhotoRepository,
	uploads services.UploadService,
	cache services.DetailCache,
	broadcaster services.PlaceEventBroadcaster,
) services.PlaceService {
	return &PlaceServiceImpl{
		placeRepo:   placeRepo,
		photoRepo:   photoRepo,
		uploads:     uploads,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

func (s *PlaceServiceImpl) ListPlaces(ctx context.Context, ownerID uuid.UUID) ([]models.Place, error) {
	return s.placeRepo.ListByOwner(ctx, ownerID)
}

func (s *PlaceServiceImpl) CreatePlace(ctx context.Context, ownerID uuid.UUID, input services.CreatePlaceInput) (*models.Place, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	description := strings.TrimSpace(input.Description)

	switch {
	case name == "":
		return nil, apperrors.NewValidation("name", "name is required")
	case len(name) > maxNameLength:
		return nil, apperrors.NewValidation("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	case location == "":
		return nil, apperrors.NewValidation("location", "location is required")
	case len(location) > maxLocationLength:
		return nil, apperrors.NewValidation("location", fmt.Sprintf("location must be at most %d characters", maxLocationLength))
	case len(description) > maxDescriptionLength:
		return nil, apperrors.NewValidation("description", fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}

	place := &models.Place{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Location:    location,
		Description: description,
		PhotoCount:  0,
	}

	if err := s.placeRepo.Create(ctx, place); err != nil {
		return nil, err
	}

	logger.DB("place_created", "Place created", map[string]interface{}{
		"place_id": place.ID.String(),
		"owner_id": ownerID.String(),
	})

	return place, nil
}

// GetPlaceDetail returns the place and its photos. Ownership is checked
// before anything is revealed; a foreign place reads as not found so a
// probe cannot distinguish "exists" from "forbidden".
func (s *PlaceServiceImpl) GetPlaceDetail(ctx context.Context, userID, placeID uuid.UUID) (*services.PlaceDetail, error) {
	if detail, ok := s.cachedDetail(ctx, userID, placeID); ok {
		return detail, nil
	}

	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.OwnerID != userID {
		return nil, apperrors.ErrPlaceNotFound
	}

	photos, err := s.photoRepo.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	detail := &services.PlaceDetail{Place: place, Photos: photos}
	s.storeDetail(ctx, placeID, detail)
	return detail, nil
}

// UploadPhotos runs the full batch pipeline: ownership check, blob store
// fan-out, photo rows, then one atomic count increment. If the increment
// fails after the photos are durably stored the caller gets
// apperrors.ReconcileFailedError; the repair sweep settles the count later.
func (s *PlaceServiceImpl) UploadPhotos(ctx context.Context, userID, placeID uuid.UUID, files []services.FileInput) (*services.UploadResult, error) {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.OwnerID != userID {
		return nil, apperrors.ErrPlaceNotFound
	}

	photos, err := s.uploads.UploadBatch(ctx, placeID, files)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return &services.UploadResult{Place: place, Photos: photos}, nil
	}

	updated, err := s.placeRepo.IncrementPhotoCount(ctx, placeID, int64(len(photos)))
	if err != nil {
		logger.ReconcileError("count_increment", "Photos stored but count update failed", err, map[string]interface{}{
			"place_id": placeID.String(),
			"delta":    len(photos),
		})
		s.invalidateDetail(ctx, placeID)
		return nil, apperrors.NewReconcileFailed(err)
	}

	s.invalidateDetail(ctx, placeID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastPhotoCount(placeID, updated.PhotoCount)
	}

	logger.Upload("batch_reconciled", "Upload batch reconciled", map[string]interface{}{
		"place_id":    placeID.String(),
		"delta":       len(photos),
		"photo_count": updated.PhotoCount,
	})

	return &services.UploadResult{Place: updated, Photos: photos}, nil
}

// RepairCounts recounts every place's photos and overwrites drifted
// photo_count values. Drift comes from increments lost to crashes between
// the photo insert and the count update.
func (s *PlaceServiceImpl) RepairCounts(ctx context.Context) (int, error) {
	places, err := s.placeRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, place := range places {
		actual, err := s.photoRepo.CountByPlace(ctx, place.ID)
		if err != nil {
			return repaired, err
		}
		if actual == place.PhotoCount {
			continue
		}

		if err := s.placeRepo.SetPhotoCount(ctx, place.ID, actual); err != nil {
			return repaired, err
		}
		repaired++

		logger.Reconcile("count_repaired", "Repaired drifted photo count", map[string]interface{}{
			"place_id": place.ID.String(),
			"stored":   place.PhotoCount,
			"actual":   actual,
		})

		s.invalidateDetail(ctx, place.ID)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastPhotoCount(place.ID, actual)
		}
	}

	return repaired, nil
}

func detailCacheKey(placeID uuid.UUID) string {
	return "place:detail:" + placeID.String()
}

// cachedDetail reads the serialized detail from the cache. Any cache error
// is a miss; the cache never blocks a read.
func (s *PlaceServiceImpl) cachedDetail(ctx context.Context, userID, placeID uuid.UUID) (*services.PlaceDetail, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, detailCacheKey(placeID))
	if err != nil || raw == "" {
		return nil, false
	}

	var detail services.PlaceDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		logger.CacheWarn("detail_decode", "Dropping undecodable cache entry", map[string]interface{}{
			"place_id": placeID.String(),
		})
		s.cache.Del(ctx, detailCacheKey(placeID))
		return nil, false
	}
	if detail.Place == nil || detail.Place.OwnerID != userID {
		return nil, false
	}
	return &detail, true
}

func (s *PlaceServiceImpl) storeDetail(ctx context.Context, placeID uuid.UUID, detail *services.PlaceDetail) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, detailCacheKey(placeID), string(raw), detailCacheTTL); err != nil {
		logger.CacheWarn("detail_set", "Failed to cache place detail", map[string]interface{}{
			"place_id": placeID.String(),
		})
	}
}

func (s *PlaceServiceImpl) invalidateDetail(ctx context.Context, placeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, detailCacheKey(placeID)); err != nil {
		logger.CacheWarn("detail_del", "Failed to invalidate place detail", map[string]interface{}{
			"place_id": placeID.String(),
		})
	}
}
