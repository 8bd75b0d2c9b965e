package serviceimpl

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelkeep/domain/apperrors"
	"travelkeep/domain/models"
	"travelkeep/domain/services"
)

// stubPlaceRepo is an in-memory PlaceRepository with the same atomicity
// guarantee on IncrementPhotoCount as the real one.
type stubPlaceRepo struct {
	mu         sync.Mutex
	places     map[uuid.UUID]*models.Place
	createErr  error
	getErr     error
	incErr     error
	setCounts  map[uuid.UUID]int64
	createdIDs []uuid.UUID
}

func newStubPlaceRepo() *stubPlaceRepo {
	return &stubPlaceRepo{
		places:    make(map[uuid.UUID]*models.Place),
		setCounts: make(map[uuid.UUID]int64),
	}
}

func (s *stubPlaceRepo) Create(_ context.Context, place *models.Place) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}
	copied := *place
	s.places[place.ID] = &copied
	s.createdIDs = append(s.createdIDs, place.ID)
	return nil
}

func (s *stubPlaceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Place, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	place, ok := s.places[id]
	if !ok {
		return nil, apperrors.ErrPlaceNotFound
	}
	copied := *place
	return &copied, nil
}

func (s *stubPlaceRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Place{}
	for _, place := range s.places {
		if place.OwnerID == ownerID {
			result = append(result, *place)
		}
	}
	// Same contract as the real repository: newest first.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *stubPlaceRepo) List(_ context.Context) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Place{}
	for _, place := range s.places {
		result = append(result, *place)
	}
	return result, nil
}

func (s *stubPlaceRepo) IncrementPhotoCount(_ context.Context, id uuid.UUID, delta int64) (*models.Place, error) {
	if s.incErr != nil {
		return nil, s.incErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	place, ok := s.places[id]
	if !ok {
		return nil, apperrors.ErrPlaceNotFound
	}
	place.PhotoCount += delta
	copied := *place
	return &copied, nil
}

func (s *stubPlaceRepo) SetPhotoCount(_ context.Context, id uuid.UUID, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	place, ok := s.places[id]
	if !ok {
		return apperrors.ErrPlaceNotFound
	}
	place.PhotoCount = count
	s.setCounts[id] = count
	return nil
}

type stubPhotoRepo struct {
	mu     sync.Mutex
	photos map[uuid.UUID][]models.Photo
}

func newStubPhotoRepo() *stubPhotoRepo {
	return &stubPhotoRepo{photos: make(map[uuid.UUID][]models.Photo)}
}

func (s *stubPhotoRepo) CreateBatch(_ context.Context, photos []*models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range photos {
		s.photos[p.PlaceID] = append(s.photos[p.PlaceID], *p)
	}
	return nil
}

func (s *stubPhotoRepo) ListByPlace(_ context.Context, placeID uuid.UUID) ([]models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := append([]models.Photo{}, s.photos[placeID]...)
	// Same contract as the real repository: newest first.
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (s *stubPhotoRepo) CountByPlace(_ context.Context, placeID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.photos[placeID])), nil
}

// stubUploadService returns one photo per file without touching any store.
type stubUploadService struct {
	err error
}

func (s *stubUploadService) UploadBatch(_ context.Context, placeID uuid.UUID, files []services.FileInput) ([]models.Photo, error) {
	if s.err != nil {
		return nil, s.err
	}
	photos := make([]models.Photo, len(files))
	for i, f := range files {
		photos[i] = models.Photo{
			ID:         uuid.New(),
			PlaceID:    placeID,
			Name:       f.Name,
			UploadedAt: time.Now(),
		}
	}
	return photos, nil
}

type stubBroadcaster struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

func newStubBroadcaster() *stubBroadcaster {
	return &stubBroadcaster{counts: make(map[uuid.UUID]int64)}
}

func (s *stubBroadcaster) BroadcastPhotoCount(placeID uuid.UUID, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[placeID] = count
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]string)}
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key], nil
}

func (s *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *stubCache) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func newTestPlaceService(placeRepo *stubPlaceRepo, photoRepo *stubPhotoRepo, uploads services.UploadService) (services.PlaceService, *stubBroadcaster, *stubCache) {
	broadcaster := newStubBroadcaster()
	cache := newStubCache()
	svc := NewPlaceService(placeRepo, photoRepo, uploads, cache, broadcaster)
	return svc, broadcaster, cache
}

func seedPlace(t *testing.T, repo *stubPlaceRepo, ownerID uuid.UUID) *models.Place {
	t.Helper()
	place := &models.Place{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     "Paris",
		Location: "France",
	}
	require.NoError(t, repo.Create(context.Background(), place))
	return place
}

func makeFiles(n int) []services.FileInput {
	files := make([]services.FileInput, n)
	for i := range files {
		files[i] = services.FileInput{Name: "photo.jpg", ContentType: "image/jpeg", Size: 100}
	}
	return files
}

func TestCreatePlace(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("valid input starts with zero photos", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		place, err := svc.CreatePlace(ctx, ownerID, services.CreatePlaceInput{
			Name:     "Paris",
			Location: "France",
		})
		require.NoError(t, err)
		assert.Equal(t, "Paris", place.Name)
		assert.Equal(t, "France", place.Location)
		assert.Equal(t, int64(0), place.PhotoCount)
		assert.Equal(t, ownerID, place.OwnerID)
		assert.False(t, place.CreatedAt.IsZero())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		place, err := svc.CreatePlace(ctx, ownerID, services.CreatePlaceInput{
			Name:     "  Kyoto  ",
			Location: " Japan ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Kyoto", place.Name)
		assert.Equal(t, "Japan", place.Location)
	})

	t.Run("whitespace-only name fails without a write", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		_, err := svc.CreatePlace(ctx, ownerID, services.CreatePlaceInput{
			Name:     "   ",
			Location: "France",
		})
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "name", validationErr.Field)
		assert.Empty(t, placeRepo.createdIDs)
	})

	t.Run("empty location fails without a write", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		_, err := svc.CreatePlace(ctx, ownerID, services.CreatePlaceInput{
			Name:     "Paris",
			Location: "",
		})
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "location", validationErr.Field)
		assert.Empty(t, placeRepo.createdIDs)
	})
}

func TestListPlaces(t *testing.T) {
	ctx := context.Background()
	placeRepo := newStubPlaceRepo()
	svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

	owner := uuid.New()
	other := uuid.New()
	base := time.Now()

	oldest := &models.Place{ID: uuid.New(), OwnerID: owner, Name: "Rome", Location: "Italy", CreatedAt: base.Add(-2 * time.Hour)}
	newest := &models.Place{ID: uuid.New(), OwnerID: owner, Name: "Oslo", Location: "Norway", CreatedAt: base}
	middle := &models.Place{ID: uuid.New(), OwnerID: owner, Name: "Lima", Location: "Peru", CreatedAt: base.Add(-time.Hour)}
	for _, place := range []*models.Place{oldest, newest, middle} {
		require.NoError(t, placeRepo.Create(ctx, place))
	}
	seedPlace(t, placeRepo, other)

	places, err := svc.ListPlaces(ctx, owner)
	require.NoError(t, err)
	require.Len(t, places, 3)
	for _, place := range places {
		assert.Equal(t, owner, place.OwnerID)
	}

	// Newest first.
	assert.Equal(t, newest.ID, places[0].ID)
	assert.Equal(t, middle.ID, places[1].ID)
	assert.Equal(t, oldest.ID, places[2].ID)
}

func TestGetPlaceDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees place with photos", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		photoRepo := newStubPhotoRepo()
		svc, _, _ := newTestPlaceService(placeRepo, photoRepo, &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)
		base := time.Now()
		photoRepo.CreateBatch(ctx, []*models.Photo{
			{ID: uuid.New(), PlaceID: place.ID, Name: "old.jpg", UploadedAt: base.Add(-time.Hour)},
			{ID: uuid.New(), PlaceID: place.ID, Name: "new.jpg", UploadedAt: base},
		})

		detail, err := svc.GetPlaceDetail(ctx, owner, place.ID)
		require.NoError(t, err)
		assert.Equal(t, place.ID, detail.Place.ID)
		require.Len(t, detail.Photos, 2)

		// Newest upload first.
		assert.Equal(t, "new.jpg", detail.Photos[0].Name)
		assert.Equal(t, "old.jpg", detail.Photos[1].Name)
	})

	t.Run("foreign place reads as not found", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		_, err := svc.GetPlaceDetail(ctx, uuid.New(), place.ID)
		assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)
	})

	t.Run("missing place is not found", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		_, err := svc.GetPlaceDetail(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		photoRepo := newStubPhotoRepo()
		svc, _, cache := newTestPlaceService(placeRepo, photoRepo, &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		_, err := svc.GetPlaceDetail(ctx, owner, place.ID)
		require.NoError(t, err)
		require.Len(t, cache.entries, 1)

		// Drop the backing row; the cached detail must still answer.
		placeRepo.mu.Lock()
		delete(placeRepo.places, place.ID)
		placeRepo.mu.Unlock()

		detail, err := svc.GetPlaceDetail(ctx, owner, place.ID)
		require.NoError(t, err)
		assert.Equal(t, place.ID, detail.Place.ID)
	})
}

func TestUploadPhotos(t *testing.T) {
	ctx := context.Background()

	t.Run("count advances by exactly the batch size", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, broadcaster, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		result, err := svc.UploadPhotos(ctx, owner, place.ID, makeFiles(3))
		require.NoError(t, err)
		assert.Len(t, result.Photos, 3)
		assert.Equal(t, int64(3), result.Place.PhotoCount)
		assert.Equal(t, int64(3), broadcaster.counts[place.ID])
	})

	t.Run("empty batch leaves the count untouched", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, broadcaster, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		result, err := svc.UploadPhotos(ctx, owner, place.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Photos)
		assert.Equal(t, int64(0), result.Place.PhotoCount)
		assert.NotContains(t, broadcaster.counts, place.ID)
	})

	t.Run("failed batch does not change the count", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		uploads := &stubUploadService{err: apperrors.NewUploadFailed("b.jpg", assert.AnError)}
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), uploads)

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		_, err := svc.UploadPhotos(ctx, owner, place.ID, makeFiles(2))
		var uploadErr *apperrors.UploadFailedError
		require.ErrorAs(t, err, &uploadErr)

		got, err := placeRepo.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.PhotoCount)
	})

	t.Run("foreign place is rejected before any upload", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		_, err := svc.UploadPhotos(ctx, uuid.New(), place.ID, makeFiles(1))
		assert.ErrorIs(t, err, apperrors.ErrPlaceNotFound)
	})

	t.Run("increment failure surfaces as reconcile failed", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)
		placeRepo.incErr = assert.AnError

		_, err := svc.UploadPhotos(ctx, owner, place.ID, makeFiles(2))
		var reconcileErr *apperrors.ReconcileFailedError
		require.ErrorAs(t, err, &reconcileErr)
	})

	t.Run("concurrent batches never lose an increment", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		place := seedPlace(t, placeRepo, owner)

		const a, b = 5, 7
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.UploadPhotos(ctx, owner, place.ID, makeFiles(a))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.UploadPhotos(ctx, owner, place.ID, makeFiles(b))
			assert.NoError(t, err)
		}()
		wg.Wait()

		got, err := placeRepo.GetByID(ctx, place.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(a+b), got.PhotoCount)
	})
}

func TestRepairCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("fixes drifted counts only", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		photoRepo := newStubPhotoRepo()
		svc, broadcaster, _ := newTestPlaceService(placeRepo, photoRepo, &stubUploadService{})

		owner := uuid.New()
		drifted := seedPlace(t, placeRepo, owner)
		healthy := seedPlace(t, placeRepo, owner)

		// drifted has two photos but a count of zero; healthy is in sync.
		photoRepo.CreateBatch(ctx, []*models.Photo{
			{ID: uuid.New(), PlaceID: drifted.ID},
			{ID: uuid.New(), PlaceID: drifted.ID},
		})

		repaired, err := svc.RepairCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, repaired)
		assert.Equal(t, int64(2), placeRepo.setCounts[drifted.ID])
		assert.NotContains(t, placeRepo.setCounts, healthy.ID)
		assert.Equal(t, int64(2), broadcaster.counts[drifted.ID])
	})

	t.Run("no drift means no writes", func(t *testing.T) {
		placeRepo := newStubPlaceRepo()
		svc, _, _ := newTestPlaceService(placeRepo, newStubPhotoRepo(), &stubUploadService{})

		owner := uuid.New()
		seedPlace(t, placeRepo, owner)

		repaired, err := svc.RepairCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, repaired)
		assert.Empty(t, placeRepo.setCounts)
	})
}
