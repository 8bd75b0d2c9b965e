package repositories

import (
	"context"

	"github.com/google/uuid"
	"travelkeep/domain/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProviderID(ctx context.Context, provider, providerID string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, user *models.User) error
}
