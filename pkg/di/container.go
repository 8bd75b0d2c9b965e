package di

import (
	"context"

	"gorm.io/gorm"

	"travelkeep/application/serviceimpl"
	"travelkeep/domain/repositories"
	"travelkeep/domain/services"
	"travelkeep/infrastructure/oauth"
	"travelkeep/infrastructure/postgres"
	"travelkeep/infrastructure/redis"
	"travelkeep/infrastructure/storage"
	websocketManager "travelkeep/infrastructure/websocket"
	"travelkeep/interfaces/api/handlers"
	"travelkeep/pkg/config"
	"travelkeep/pkg/logger"
	"travelkeep/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	BlobStorage    *storage.S3Storage
	GoogleOAuth    *oauth.GoogleOAuth
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository  repositories.UserRepository
	PlaceRepository repositories.PlaceRepository
	PhotoRepository repositories.PhotoRepository

	// Services
	AuthService   services.AuthService
	UploadService services.UploadService
	PlaceService  services.PlaceService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Redis backs the place-detail cache. A failed connection only costs
	// cache hits, so it degrades instead of aborting startup.
	redisConfig := redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
	c.RedisClient = redis.NewRedisClient(redisConfig)
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	blobStorage, err := storage.NewS3Storage(context.Background(), c.Config.Blob)
	if err != nil {
		return err
	}
	c.BlobStorage = blobStorage
	logger.Startup("blob_storage_initialized", "Blob storage initialized", map[string]interface{}{"bucket": c.Config.Blob.Bucket})

	c.GoogleOAuth = oauth.NewGoogleOAuth(c.Config.Google)
	if err := c.GoogleOAuth.ValidateConfig(); err != nil {
		logger.StartupWarn("google_oauth_not_configured", "Google OAuth not configured", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("google_oauth_initialized", "Google OAuth initialized", nil)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.PlaceRepository = postgres.NewPlaceRepository(c.DB)
	c.PhotoRepository = postgres.NewPhotoRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.GoogleOAuth, c.Config.JWT.Secret)
	c.UploadService = serviceimpl.NewUploadService(c.PhotoRepository, c.BlobStorage, c.Config.Upload)

	broadcaster := websocketManager.NewPlaceBroadcaster(websocketManager.Manager)
	c.PlaceService = serviceimpl.NewPlaceService(
		c.PlaceRepository,
		c.PhotoRepository,
		c.UploadService,
		c.RedisClient,
		broadcaster,
	)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()
	logger.Startup("scheduler_started", "Event scheduler started", nil)

	c.scheduleCountRepair()
	return nil
}

// scheduleCountRepair sets up the recurring sweep that recounts photos and
// fixes drifted place counts.
func (c *Container) scheduleCountRepair() {
	cronExpr := c.Config.Reconcile.SweepCron
	if cronExpr == "" {
		logger.StartupWarn("count_repair_disabled", "Count repair sweep disabled by configuration", nil)
		return
	}

	err := c.EventScheduler.AddJob("photo-count-repair", cronExpr, func() {
		ctx := context.Background()
		repaired, err := c.PlaceService.RepairCounts(ctx)
		if err != nil {
			logger.SchedulerError("count_repair_error", "Count repair sweep failed", err, nil)
			return
		}
		if repaired > 0 {
			logger.Scheduler("count_repair_done", "Count repair sweep completed", map[string]interface{}{
				"repaired": repaired,
			})
		}
	})

	if err != nil {
		logger.StartupWarn("count_repair_schedule_failed", "Failed to schedule count repair sweep", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("count_repair_scheduled", "Count repair sweep scheduled", map[string]interface{}{"cron": cronExpr})
	}
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Startup("scheduler_stopped", "Event scheduler stopped", nil)
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:  c.AuthService,
		PlaceService: c.PlaceService,
	}
}
