package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"travelkeep/domain/models"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.Photo{},
	); err != nil {
		return fmt.Errorf("failed to run auto migrations: %v", err)
	}

	// photo_count may never go negative, whatever bug hits the update path
	guards := []string{
		`DO $$ BEGIN
			ALTER TABLE places ADD CONSTRAINT chk_places_photo_count_non_negative CHECK (photo_count >= 0);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`CREATE INDEX IF NOT EXISTS idx_places_owner_created ON places(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_photos_place_uploaded ON photos(place_id, uploaded_at DESC)`,
	}

	for _, sql := range guards {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("migration failed: %v", err)
		}
	}

	return nil
}
