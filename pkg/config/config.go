package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Google    GoogleOAuthConfig
	Blob      BlobConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Reconcile ReconcileConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// BlobConfig configures the S3-compatible blob store (MinIO in dev).
type BlobConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string // base URL photo fetch links are built from
}

type UploadConfig struct {
	MaxFileSizeMB  int64 // per-file limit, 0 disables the check
	MaxConcurrency int   // fan-out width of one batch
}

type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int
	WindowSeconds     int
	AuthMaxRequests   int
	AuthWindowSeconds int
}

// ReconcileConfig configures the photo-count repair sweep.
type ReconcileConfig struct {
	SweepCron string // cron expression, empty disables the sweep
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxFileSize, _ := strconv.ParseInt(getEnv("UPLOAD_MAX_FILE_SIZE_MB", "20"), 10, 64)
	maxConcurrency, _ := strconv.Atoi(getEnv("UPLOAD_MAX_CONCURRENCY", "4"))
	rlMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "120"))
	rlWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	rlAuthMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_AUTH_MAX", "10"))
	rlAuthWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_AUTH_WINDOW_SECONDS", "60"))

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "TravelKeep"),
			Port:        getEnv("APP_PORT", "3000"),
			Env:         getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "travelkeep"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/v1/auth/google/callback"),
		},
		Blob: BlobConfig{
			Endpoint:      getEnv("BLOB_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("BLOB_ACCESS_KEY", ""),
			SecretKey:     getEnv("BLOB_SECRET_KEY", ""),
			Bucket:        getEnv("BLOB_BUCKET", "travelkeep-photos"),
			Region:        getEnv("BLOB_REGION", "us-east-1"),
			UseSSL:        getEnv("BLOB_USE_SSL", "false") == "true",
			PublicBaseURL: getEnv("BLOB_PUBLIC_BASE_URL", "http://localhost:9000"),
		},
		Upload: UploadConfig{
			MaxFileSizeMB:  maxFileSize,
			MaxConcurrency: maxConcurrency,
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			MaxRequests:       rlMax,
			WindowSeconds:     rlWindow,
			AuthMaxRequests:   rlAuthMax,
			AuthWindowSeconds: rlAuthWindow,
		},
		Reconcile: ReconcileConfig{
			SweepCron: getEnv("RECONCILE_SWEEP_CRON", "0 * * * *"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
