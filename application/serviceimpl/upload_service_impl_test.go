package serviceimpl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/services"
	"travelkeep/pkg/config"
)

// stubBlobStorage is an in-memory BlobStorage. failOn makes the upload of
// one file name fail to exercise the all-or-nothing path.
type stubBlobStorage struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	failOn string
}

func newStubBlobStorage() *stubBlobStorage {
	return &stubBlobStorage{blobs: make(map[string][]byte)}
}

func (s *stubBlobStorage) Upload(_ context.Context, key string, content io.Reader, _ string) (string, error) {
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return "", assert.AnError
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (s *stubBlobStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

func newTestUploadService(photoRepo *stubPhotoRepo, storage *stubBlobStorage) services.UploadService {
	return NewUploadService(photoRepo, storage, config.UploadConfig{
		MaxFileSizeMB:  10,
		MaxConcurrency: 4,
	})
}

func fileInput(name, content string) services.FileInput {
	return services.FileInput{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func TestUploadBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("one photo per file", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		svc := newTestUploadService(photoRepo, storage)

		placeID := uuid.New()
		files := []services.FileInput{
			fileInput("a.jpg", "aaa"),
			fileInput("b.jpg", "bbb"),
			fileInput("c.jpg", "ccc"),
		}

		photos, err := svc.UploadBatch(ctx, placeID, files)
		require.NoError(t, err)
		require.Len(t, photos, 3)
		assert.Equal(t, 3, storage.count())

		prefix := fmt.Sprintf("places/%s/", placeID)
		for i, photo := range photos {
			assert.Equal(t, placeID, photo.PlaceID)
			assert.Equal(t, files[i].Name, photo.Name)
			assert.True(t, strings.HasPrefix(photo.StorageKey, prefix), photo.StorageKey)
			assert.Equal(t, "https://cdn.example.com/"+photo.StorageKey, photo.URL)
			assert.False(t, photo.UploadedAt.IsZero())
		}

		persisted, err := photoRepo.ListByPlace(ctx, placeID)
		require.NoError(t, err)
		assert.Len(t, persisted, 3)
	})

	t.Run("duplicate file names get distinct keys", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		svc := newTestUploadService(photoRepo, storage)

		placeID := uuid.New()
		files := []services.FileInput{
			fileInput("photo.jpg", "first"),
			fileInput("photo.jpg", "second"),
		}

		photos, err := svc.UploadBatch(ctx, placeID, files)
		require.NoError(t, err)
		require.Len(t, photos, 2)
		assert.NotEqual(t, photos[0].StorageKey, photos[1].StorageKey)
		assert.Equal(t, 2, storage.count(), "each file must land under its own key")
		assert.Equal(t, []byte("first"), storage.blobs[photos[0].StorageKey])
		assert.Equal(t, []byte("second"), storage.blobs[photos[1].StorageKey])
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		svc := newTestUploadService(photoRepo, storage)

		photos, err := svc.UploadBatch(ctx, uuid.New(), nil)
		require.NoError(t, err)
		assert.Empty(t, photos)
		assert.Zero(t, storage.count())
	})

	t.Run("one failed file fails the whole batch", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		storage.failOn = "b.jpg"
		svc := newTestUploadService(photoRepo, storage)

		placeID := uuid.New()
		files := []services.FileInput{
			fileInput("a.jpg", "aaa"),
			fileInput("b.jpg", "bbb"),
		}

		_, err := svc.UploadBatch(ctx, placeID, files)
		var uploadErr *apperrors.UploadFailedError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "b.jpg", uploadErr.File)

		persisted, err := photoRepo.ListByPlace(ctx, placeID)
		require.NoError(t, err)
		assert.Empty(t, persisted)
	})

	t.Run("oversized file is rejected before any upload", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		svc := newTestUploadService(photoRepo, storage)

		file := fileInput("huge.jpg", "x")
		file.Size = 11 * 1024 * 1024

		_, err := svc.UploadBatch(ctx, uuid.New(), []services.FileInput{file})
		var invalidErr *apperrors.InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
		assert.Zero(t, storage.count())
	})

	t.Run("nameless file is rejected", func(t *testing.T) {
		photoRepo := newStubPhotoRepo()
		storage := newStubBlobStorage()
		svc := newTestUploadService(photoRepo, storage)

		_, err := svc.UploadBatch(ctx, uuid.New(), []services.FileInput{fileInput("", "x")})
		var invalidErr *apperrors.InvalidInputError
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "my_photo.jpg", sanitizeFileName("my photo.jpg"))
	assert.Equal(t, "a-b_c.png", sanitizeFileName("a-b_c.png"))
	assert.Equal(t, "evil.jpg", sanitizeFileName("../../evil.jpg"))
}
