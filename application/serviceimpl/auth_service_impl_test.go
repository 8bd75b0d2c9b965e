package serviceimpl

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelkeep/domain/models"
	"travelkeep/infrastructure/oauth"
)

type stubUserRepo struct {
	users     map[uuid.UUID]*models.User
	updateErr error
	updates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, assert.AnError
}

func (s *stubUserRepo) GetByProviderID(_ context.Context, provider, providerID string) (*models.User, error) {
	for _, user := range s.users {
		if user.Provider == provider && user.ProviderID == providerID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, assert.AnError
}

func (s *stubUserRepo) Update(_ context.Context, id uuid.UUID, user *models.User) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	copied := *user
	s.users[id] = &copied
	return nil
}

func googleInfo() *oauth.GoogleUserInfo {
	return &oauth.GoogleUserInfo{
		ID:         "google-sub-123",
		Email:      "alex@example.com",
		Name:       "Alex Doe",
		GivenName:  "Alex",
		FamilyName: "Doe",
		Picture:    "https://lh3.example.com/alex.jpg",
	}
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new user on first sign-in", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := &AuthServiceImpl{userRepo: repo}

		user, err := svc.findOrCreateGoogleUser(ctx, googleInfo())
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", user.Email)
		assert.Equal(t, "google", user.Provider)
		assert.Equal(t, "google-sub-123", user.ProviderID)
		assert.True(t, strings.HasPrefix(user.Username, "alex_"))
		require.Len(t, repo.users, 1)
	})

	t.Run("returning user is matched by provider ID", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := &AuthServiceImpl{userRepo: repo}

		first, err := svc.findOrCreateGoogleUser(ctx, googleInfo())
		require.NoError(t, err)

		again, err := svc.findOrCreateGoogleUser(ctx, googleInfo())
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		require.Len(t, repo.users, 1)
	})

	t.Run("profile refresh failure does not fail sign-in", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := &AuthServiceImpl{userRepo: repo}

		first, err := svc.findOrCreateGoogleUser(ctx, googleInfo())
		require.NoError(t, err)

		repo.updateErr = assert.AnError
		info := googleInfo()
		info.Picture = "https://lh3.example.com/alex-new.jpg"

		again, err := svc.findOrCreateGoogleUser(ctx, info)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, 1, repo.updates)
	})

	t.Run("links google identity to an existing email", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := &AuthServiceImpl{userRepo: repo}

		existing := &models.User{
			ID:       uuid.New(),
			Email:    "alex@example.com",
			Username: "alex_legacy",
		}
		require.NoError(t, repo.Create(ctx, existing))

		user, err := svc.findOrCreateGoogleUser(ctx, googleInfo())
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, "google", user.Provider)
		assert.Equal(t, "google-sub-123", user.ProviderID)
		require.Len(t, repo.users, 1)
	})
}

func TestGenerateUsername(t *testing.T) {
	svc := &AuthServiceImpl{}

	name := svc.generateUsername("alex@example.com", "Alex")
	assert.True(t, strings.HasPrefix(name, "alex_"))

	// Names too short after cleaning fall back to a generic base.
	name = svc.generateUsername("bo@example.com", "")
	assert.True(t, strings.HasPrefix(name, "user_"), name)

	// Two calls never collide.
	assert.NotEqual(t,
		svc.generateUsername("alex@example.com", "Alex"),
		svc.generateUsername("alex@example.com", "Alex"),
	)
}
