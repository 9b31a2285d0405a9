package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/hamdiboyraz/restaurant-review/pkg/config"
)

// Config holds all configuration for the restaurant service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Elasticsearch document store
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"restaurants"`

	// Repository backend selection (elasticsearch or memory)
	RepositoryBackend string `env:"REPOSITORY_BACKEND" envDefault:"elasticsearch"`

	// Redis restaurant cache
	CacheEnabled bool          `env:"CACHE_ENABLED" envDefault:"true"`
	RedisHost    string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort    int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// PostgreSQL photo metadata store
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"restaurants"`

	// Photo blob storage (fs or memory)
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"fs"`
	StorageRoot    string `env:"STORAGE_ROOT" envDefault:"./uploads"`

	// Kafka event publishing
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT verification
	JWTSecret string `env:"JWT_SECRET,required"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load restaurant config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RepositoryBackend != "elasticsearch" && c.RepositoryBackend != "memory" {
		return fmt.Errorf("invalid repository backend: %q", c.RepositoryBackend)
	}
	if c.StorageBackend != "fs" && c.StorageBackend != "memory" {
		return fmt.Errorf("invalid storage backend: %q", c.StorageBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive: %s", c.CacheTTL)
	}
	return nil
}
