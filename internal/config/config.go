package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported metadata backends.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config aggregates runtime configuration for the upload API.
type Config struct {
	Server   ServerConfig
	Metadata MetadataConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Upload   UploadConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetadataConfig selects where file records and users are persisted.
type MetadataConfig struct {
	Driver string
}

// MongoConfig contains MongoDB connection details.
type MongoConfig struct {
	URI             string
	Database        string
	FilesCollection    string
	AccountsCollection string
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MigrateURL returns the DSN in the form expected by the pgx5 migrate driver.
func (p PostgresConfig) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	// PublicBaseURL prefixes storage keys when building public links.
	// Empty means {scheme}://{endpoint}/{bucket}.
	PublicBaseURL string
}

// PublicBase returns the base URL under which public objects are served.
func (m MinIOConfig) PublicBase() string {
	if m.PublicBaseURL != "" {
		return strings.TrimRight(m.PublicBaseURL, "/")
	}
	scheme := "http"
	if m.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(m.Endpoint, "/"), m.Bucket)
}

// UploadConfig bounds accepted uploads.
type UploadConfig struct {
	MaxFileSize int64
	KeyPrefix   string
}

// AuthConfig controls account passwords and the bearer tokens issued to owners.
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	BcryptCost  int
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:           getString("UPLOADER_API_HOST", "0.0.0.0"),
			Port:           getInt("UPLOADER_API_PORT", 8080),
			ReadTimeout:    getDuration("UPLOADER_API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDuration("UPLOADER_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDuration("UPLOADER_API_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getList("UPLOADER_CORS_ORIGINS", []string{"*"}),
		},
		Metadata: MetadataConfig{
			Driver: strings.ToLower(getString("UPLOADER_METADATA_DRIVER", DriverMongo)),
		},
		Mongo: MongoConfig{
			URI:             getString("MONGO_URI", "mongodb://localhost:27017"),
			Database:        getString("MONGO_DB", "uploader"),
			FilesCollection:    getString("MONGO_FILES_COLLECTION", "files"),
			AccountsCollection: getString("MONGO_ACCOUNTS_COLLECTION", "accounts"),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "uploader_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "uploader"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "uploader"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "uploads"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PublicBaseURL:   getString("MINIO_PUBLIC_BASE_URL", ""),
		},
		Upload: UploadConfig{
			MaxFileSize: getInt64("UPLOADER_MAX_FILE_SIZE", 10*1024*1024),
			KeyPrefix:   strings.Trim(getString("UPLOADER_KEY_PREFIX", "uploads"), "/"),
		},
		Auth: loadAuthConfig(),
		Metrics: MetricsConfig{
			PrometheusPath: getString("UPLOADER_METRICS_PATH", "/metrics"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getString("LOG_LEVEL", "info")),
			Format: strings.ToLower(getString("LOG_FORMAT", "json")),
		},
	}

	switch cfg.Metadata.Driver {
	case DriverMongo, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported metadata driver %q", cfg.Metadata.Driver)
	}
	if cfg.Upload.MaxFileSize <= 0 {
		return Config{}, fmt.Errorf("max file size must be positive, got %d", cfg.Upload.MaxFileSize)
	}
	if cfg.Upload.KeyPrefix == "" {
		return Config{}, fmt.Errorf("key prefix must not be empty")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func loadAuthConfig() AuthConfig {
	cost := getInt("UPLOADER_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		TokenSecret: getString("UPLOADER_JWT_SECRET", "change-me-to-a-32-byte-secret"),
		TokenTTL:    getDuration("UPLOADER_AUTH_TOKEN_TTL", time.Hour),
		BcryptCost:  cost,
	}
}
