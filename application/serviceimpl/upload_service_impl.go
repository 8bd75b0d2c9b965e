package serviceimpl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/models"
	"travelkeep/domain/repositories"
	"travelkeep/domain/services"
	"travelkeep/pkg/config"
	"travelkeep/pkg/logger"
)

type UploadServiceImpl struct {
	photoRepo repositories.PhotoRepository
	storage   services.BlobStorage
	cfg       config.UploadConfig
}

func NewUploadService(
	photoRepo repositories.PhotoRepository,
	storage services.BlobStorage,
	cfg config.UploadConfig,
) services.UploadService {
	return &UploadServiceImpl{
		photoRepo: photoRepo,
		storage:   storage,
		cfg:       cfg,
	}
}

// UploadBatch stores every file of the batch, then persists the photo rows
// in one insert. The store phase fans out up to MaxConcurrency uploads; the
// first failure cancels the rest and fails the whole batch, so photo rows
// are only written for fully stored batches.
func (s *UploadServiceImpl) UploadBatch(ctx context.Context, placeID uuid.UUID, files []services.FileInput) ([]models.Photo, error) {
	if len(files) == 0 {
		return []models.Photo{}, nil
	}

	if err := s.validateBatch(files); err != nil {
		return nil, err
	}

	photos := make([]*models.Photo, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			key := buildStorageKey(placeID, time.Now(), i, file.Name)
			url, err := s.storage.Upload(gctx, key, file.Content, file.ContentType)
			if err != nil {
				return apperrors.NewUploadFailed(file.Name, err)
			}
			photos[i] = &models.Photo{
				ID:          uuid.New(),
				PlaceID:     placeID,
				URL:         url,
				StorageKey:  key,
				Name:        file.Name,
				ContentType: file.ContentType,
				Size:        file.Size,
				UploadedAt:  time.Now(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.UploadError("batch_store", "Upload batch failed, no records written", err, map[string]interface{}{
			"place_id": placeID.String(),
			"files":    len(files),
		})
		return nil, err
	}

	if err := s.photoRepo.CreateBatch(ctx, photos); err != nil {
		return nil, err
	}

	logger.Upload("batch_stored", "Upload batch stored", map[string]interface{}{
		"place_id": placeID.String(),
		"files":    len(files),
	})

	result := make([]models.Photo, len(photos))
	for i, p := range photos {
		result[i] = *p
	}
	return result, nil
}

func (s *UploadServiceImpl) validateBatch(files []services.FileInput) error {
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	for _, file := range files {
		if file.Name == "" {
			return apperrors.NewInvalidInput("file name is required")
		}
		if maxBytes > 0 && file.Size > maxBytes {
			return apperrors.NewInvalidInput("file %q exceeds the %dMB size limit", file.Name, s.cfg.MaxFileSizeMB)
		}
	}
	return nil
}

// buildStorageKey namespaces blobs per place. The timestamp separates
// batches and the batch sequence number separates files inside one batch,
// so duplicate file names never share a key.
func buildStorageKey(placeID uuid.UUID, ts time.Time, seq int, fileName string) string {
	return fmt.Sprintf("places/%s/%d_%d_%s", placeID.String(), ts.UnixMilli(), seq, sanitizeFileName(fileName))
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
