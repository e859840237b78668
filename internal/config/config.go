package config

import (
	"os"
	"strconv"
)

// DefaultMaxBodyBytes is the largest request body accepted by POST /upload (16 MiB).
const DefaultMaxBodyBytes = 16 * 1024 * 1024

// UploadConfig holds settings of the upload endpoint.
type UploadConfig struct {
	// Dir is the Storage Directory holding the uploaded bytes.
	Dir          string
	MaxBodyBytes int
}

// StorageConfig selects where uploaded bytes are kept.
// Backend is "local" (the Storage Directory) or "minio".
type StorageConfig struct {
	Backend string
}

// DatabaseConfig holds Metadata Store connection settings.
// Driver "sqlite" uses Path; driver "postgres" uses the host/port/user fields.
type DatabaseConfig struct {
	Driver             string
	Path               string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables and passed explicitly to constructors.
type AppConfig struct {
	AppHost  string
	Port     string
	TimeZone string
	Upload   UploadConfig
	Storage  StorageConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		TimeZone: getEnv("TZ", "UTC"),
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "uploads"),
			MaxBodyBytes: getEnvInt("UPLOAD_MAX_BODY_BYTES", DefaultMaxBodyBytes),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "local"),
		},
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "sqlite"),
			Path:               getEnv("DB_PATH", "database.db"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil && i > 0 {
			return i
		}
	}
	return def
}
