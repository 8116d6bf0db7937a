package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "HTTP_PORT", "DATABASE_URL", "DB_POOL_SIZE", "JWT_SECRET",
		"REDIS_URL", "REDIS_POOL_SIZE", "CACHE_TTL_SEC", "KAFKA_BROKERS",
		"KAFKA_TODO_TOPIC", "KAFKA_PARTITIONS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.Equal(t, "todo-events", cfg.KafkaTopic)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/todos")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("CACHE_TTL_SEC", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 300, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_HTTPPortAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HTTPPort)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nredis_url: redis://cache:6379/0\njwt_secret: from-file\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_ReportsMissingKeys(t *testing.T) {
	err := Defaults().Validate()
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
