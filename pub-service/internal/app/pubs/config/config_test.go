package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Address())
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "pub_events", cfg.Kafka.Topic)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int64(10<<20), cfg.Uploads.MaxSizeBytes)
	assert.Equal(t, "@every 1h", cfg.Uploads.CleanupSchedule)
	assert.False(t, cfg.RatingCache.Enabled)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SERVER_PORT", "8085")
	t.Setenv("DB_QUERY_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("RATING_CACHE_ENABLED", "true")
	t.Setenv("RATING_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.RatingCache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RatingCache.TTL)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=pints_from_file\nSEED_ENABLED=true\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	// godotenv не перезаписывает уже заданные переменные
	t.Setenv("DB_NAME", "")
	t.Setenv("SEED_ENABLED", "")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("SEED_ENABLED")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pints_from_file", cfg.Database.DBName)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_QUERY_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "pubs", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pubs sslmode=disable", db.DSN())
}

func TestUploadsConfig_MaxRequestBytesFitsBase64Image(t *testing.T) {
	cfg := UploadsConfig{MaxSizeBytes: 3 << 20}

	// base64 кодирует 3 байта в 4 символа
	assert.Equal(t, int64(4<<20+4+1<<20), cfg.MaxRequestBytes())
	assert.Greater(t, cfg.MaxRequestBytes(), cfg.MaxSizeBytes*4/3)
}
