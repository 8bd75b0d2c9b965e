package models

import (
	"time"

	"github.com/google/uuid"
)

// Place is a user-owned travel destination. PhotoCount is a denormalized
// counter over the photos table; it is only ever changed through
// PlaceRepository.IncrementPhotoCount so concurrent uploads cannot lose
// updates.
type Place struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Description string
	PhotoCount  int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relations
	Owner  User    `gorm:"foreignKey:OwnerID"`
	Photos []Photo `gorm:"foreignKey:PlaceID"`
}

func (Place) TableName() string {
	return "places"
}
