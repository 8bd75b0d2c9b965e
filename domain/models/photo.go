package models

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID      uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PlaceID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Blob store metadata
	URL         string `gorm:"not null"`             // durable fetch URL returned by the blob store
	StorageKey  string `gorm:"uniqueIndex;not null"` // places/{placeID}/{ts}_{seq}_{name}
	Name        string `gorm:"not null"`             // original file name, not unique
	ContentType string
	Size        int64

	UploadedAt time.Time `gorm:"index"`
	CreatedAt  time.Time

	// Relations
	Place Place `gorm:"foreignKey:PlaceID"`
}

func (Photo) TableName() string {
	return "photos"
}
