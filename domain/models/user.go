package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Username   string    `gorm:"uniqueIndex;not null"`
	FirstName  string
	LastName   string
	Avatar     string
	IsActive   bool   `gorm:"default:true"`
	Provider   string `gorm:"default:'google'"`
	ProviderID string `gorm:"index"` // OAuth provider's user ID
	LastLogin  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Places []Place `gorm:"foreignKey:OwnerID"`
}

func (User) TableName() string {
	return "users"
}
