package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Metadata.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, "uploads", cfg.Upload.KeyPrefix)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPLOADER_METADATA_DRIVER", "Postgres")
	t.Setenv("UPLOADER_MAX_FILE_SIZE", "2048")
	t.Setenv("UPLOADER_KEY_PREFIX", "/files/")
	t.Setenv("UPLOADER_API_READ_TIMEOUT", "5s")
	t.Setenv("UPLOADER_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Metadata.Driver)
	assert.Equal(t, int64(2048), cfg.Upload.MaxFileSize)
	assert.Equal(t, "files", cfg.Upload.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("UPLOADER_METADATA_DRIVER", "cassandra")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveMaxSize(t *testing.T) {
	t.Setenv("UPLOADER_MAX_FILE_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestMinIOPublicBase(t *testing.T) {
	cfg := MinIOConfig{Endpoint: "localhost:9000", Bucket: "uploads"}
	if got := cfg.PublicBase(); got != "http://localhost:9000/uploads" {
		t.Fatalf("unexpected public base: %s", got)
	}

	cfg.UseSSL = true
	if got := cfg.PublicBase(); got != "https://localhost:9000/uploads" {
		t.Fatalf("unexpected public base: %s", got)
	}

	cfg.PublicBaseURL = "https://cdn.example.com/"
	if got := cfg.PublicBase(); got != "https://cdn.example.com" {
		t.Fatalf("unexpected public base: %s", got)
	}
}

func TestPostgresURLs(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=disable", p.DSN())
	assert.Equal(t, "pgx5://u:p@db:5432/d?sslmode=disable", p.MigrateURL())
}
