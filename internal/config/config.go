package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Table and image backends.
const (
	BackendDrive    = "drive"
	BackendLocal    = "local"
	BackendPostgres = "postgres"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Labeling LabelingConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string // empty disables authentication
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
	Debug      bool
}

type StorageConfig struct {
	TableBackend       string // drive, local or postgres
	ImageBackend       string // drive or local
	FramesFolderID     string
	LabeledRef         string
	UnlabeledRef       string // empty skips the unlabeled write
	LocalRoot          string
	ServiceAccountFile string
	ServiceAccountJSON string
}

type LabelingConfig struct {
	Vocabulary      string // comma separated, order is significant
	StrictReconcile bool
	SessionTTL      time.Duration
}

type CacheConfig struct {
	Backend string // memory, redis or none
	TTL     time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Debug:      getEnvAsBool("DB_DEBUG", false),
		},
		Storage: StorageConfig{
			TableBackend:       getEnv("TABLE_BACKEND", BackendDrive),
			ImageBackend:       getEnv("IMAGE_BACKEND", BackendDrive),
			FramesFolderID:     getEnv("FRAMES_FOLDER_ID", ""),
			LabeledRef:         getEnv("FRAMES_DS_FILE_ID", ""),
			UnlabeledRef:       getEnv("UNLABELED_FILE_ID", ""),
			LocalRoot:          getEnv("LOCAL_DATA_ROOT", "data"),
			ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
			ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		},
		Labeling: LabelingConfig{
			Vocabulary:      getEnv("LABEL_VOCABULARY", "Junk,LowQuality,Normal,Stricture,Ulcer"),
			StrictReconcile: getEnvAsBool("STRICT_RECONCILE", false),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		},
		Cache: CacheConfig{
			Backend: getEnv("TABLE_CACHE", CacheMemory),
			TTL:     getEnvAsDuration("TABLE_CACHE_TTL", 5*time.Minute),
		},
	}
}

// ServiceAccountKey returns the inline key if set, otherwise reads the key file.
func (c StorageConfig) ServiceAccountKey() ([]byte, error) {
	if c.ServiceAccountJSON != "" {
		return []byte(c.ServiceAccountJSON), nil
	}
	return os.ReadFile(c.ServiceAccountFile)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
