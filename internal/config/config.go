package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	DataDir       string
	DatabaseURL   string // optional; empty means the JSON file store
	MigrationsDir string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	CORSOrigin string

	// Optional admin password; empty disables the admin role gate so every
	// signed-in user is an editor.
	AdminPassword string

	MeiliURL       string
	MeiliMasterKey string
	RedisURL       string

	// MinIO upload archive - disabled when the endpoint is empty.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func (c Config) MattersPath() string { return filepath.Join(c.DataDir, "matters.json") }
func (c Config) OwnersPath() string  { return filepath.Join(c.DataDir, "owners.json") }
func (c Config) UploadsDir() string  { return filepath.Join(c.DataDir, "uploads") }

func Load() Config {
	return Config{
		Addr:          getenv("API_ADDR", ":8690"),
		DataDir:       getenv("MATTERDESK_DATA_DIR", "./data"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		MigrationsDir: getenv("MATTERDESK_MIGRATIONS_DIR", "./db/migrations"),

		JWTSecret:  getenv("MATTERDESK_JWT_SECRET", "matterdesk-dev-secret"),
		AccessTTL:  time.Duration(getenvInt("MATTERDESK_ACCESS_TTL_SECONDS", 900)) * time.Second,
		RefreshTTL: time.Duration(getenvInt("MATTERDESK_REFRESH_TTL_SECONDS", 2592000)) * time.Second,
		CORSOrigin: getenv("MATTERDESK_CORS_ORIGIN", "*"),

		AdminPassword: getenv("MATTERDESK_ADMIN_PASSWORD", ""),

		// Search, Redis and MinIO are optional; the service degrades to the
		// in-process fallbacks when they are not configured.
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		RedisURL:       getenv("REDIS_URL", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "matterdesk-uploads"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
