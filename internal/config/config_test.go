package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:9200", cfg.ElasticsearchURL)
	assert.Equal(t, "restaurants", cfg.ElasticsearchIndex)
	assert.Equal(t, "elasticsearch", cfg.RepositoryBackend)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "fs", cfg.StorageBackend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "99999")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidRepositoryBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REPOSITORY_BACKEND", "dynamo")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid repository backend")
}

func TestLoad_InvalidStorageBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", "s3")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REPOSITORY_BACKEND", "memory")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.RepositoryBackend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}
