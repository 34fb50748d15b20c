package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Notify   NotifyConfig
	JWT      JWTConfig
	Storage  StorageConfig
	AI       AIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// BackendConfig decides which storage engine serves requests.
type BackendConfig struct {
	// UseRelational requests the Postgres backend; it is only honored when
	// a connection string is present, and any init failure falls back to
	// the document backend.
	UseRelational bool
}

// DatabaseConfig holds relational database configuration
type DatabaseConfig struct {
	URL         string // full DSN; overrides the individual fields
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI      string
	Database string
	// AppID scopes every collection under one tenant/application prefix.
	AppID string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CacheConfig holds per-entity query cache tuning. A zero TTL disables the
// corresponding cache.
type CacheConfig struct {
	MeetingTTL      time.Duration
	TeamTTL         time.Duration
	ProfileTTL      time.Duration
	NotificationTTL time.Duration
	MaxEntries      int
}

// NotifyConfig holds fan-out tuning
type NotifyConfig struct {
	BatchSize    int
	PollInterval time.Duration
	Debounce     time.Duration
	LedgerTTL    time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	// ArchiveThreshold is the transcript size in bytes above which the raw
	// transcript is offloaded to object storage.
	ArchiveThreshold int
}

// AIConfig holds the LLM extraction service configuration
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Backend: BackendConfig{
			UseRelational: getEnvAsBool("USE_RELATIONAL_BACKEND", false),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", ""),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_notes"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "meeting_notes"),
			AppID:    getEnv("APP_ID", "default"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			MeetingTTL:      getEnvAsDuration("CACHE_MEETING_TTL", "2m"),
			TeamTTL:         getEnvAsDuration("CACHE_TEAM_TTL", "5m"),
			ProfileTTL:      getEnvAsDuration("CACHE_PROFILE_TTL", "10m"),
			NotificationTTL: getEnvAsDuration("CACHE_NOTIFICATION_TTL", "30s"),
			MaxEntries:      getEnvAsInt("CACHE_MAX_ENTRIES", 500),
		},
		Notify: NotifyConfig{
			BatchSize:    getEnvAsInt("NOTIFY_BATCH_SIZE", 10),
			PollInterval: getEnvAsDuration("NOTIFY_POLL_INTERVAL", "5s"),
			Debounce:     getEnvAsDuration("NOTIFY_DEBOUNCE", "120ms"),
			LedgerTTL:    getEnvAsDuration("NOTIFY_LEDGER_TTL", "24h"),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-change-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", "15m"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		Storage: StorageConfig{
			Enabled:          getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:         getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:      getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:       getEnv("STORAGE_BUCKET", "meeting-transcripts"),
			UseSSL:           getEnvAsBool("STORAGE_USE_SSL", false),
			ArchiveThreshold: getEnvAsInt("STORAGE_ARCHIVE_THRESHOLD", 64*1024),
		},
		AI: AIConfig{
			APIKey:  getEnv("AI_API_KEY", ""),
			BaseURL: getEnv("AI_API_URL", "https://api.groq.com"),
			Model:   getEnv("AI_MODEL", "llama-3.1-70b-versatile"),
		},
	}

	return config, nil
}

// GetDatabaseDSN returns the relational connection string, empty when no
// relational database is configured.
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// HasRelationalDSN reports whether a relational connection string is present.
func (c *Config) HasRelationalDSN() bool {
	return c.GetDatabaseDSN() != ""
}

// GetRedisAddr returns the Redis address, empty when Redis is not configured.
func (c *Config) GetRedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
