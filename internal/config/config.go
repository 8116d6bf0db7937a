package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort        string   `yaml:"port"`
	DatabaseURL     string   `yaml:"database_url"`
	DBPoolSize      int      `yaml:"db_pool_size"`
	JWTSecret       string   `yaml:"jwt_secret"`
	RedisURL        string   `yaml:"redis_url"`
	RedisPoolSize   int      `yaml:"redis_pool_size"`
	CacheTTL        int      `yaml:"cache_ttl_sec"` // seconds
	KafkaBrokers    []string `yaml:"kafka_brokers"`
	KafkaTopic      string   `yaml:"kafka_topic"`
	KafkaPartitions int      `yaml:"kafka_partitions"`
	LogLevel        string   `yaml:"log_level"`
}

// Defaults returns the configuration used when neither file nor env set a key.
func Defaults() *Config {
	return &Config{
		HTTPPort:        "5000",
		DBPoolSize:      20,
		RedisPoolSize:   50,
		CacheTTL:        300,
		KafkaTopic:      "todo-events",
		KafkaPartitions: 3,
		LogLevel:        "info",
	}
}

// Load builds the config from defaults, then the optional YAML file at path,
// then the process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.HTTPPort = getEnv("PORT", getEnv("HTTP_PORT", cfg.HTTPPort))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBPoolSize = getIntEnv("DB_POOL_SIZE", cfg.DBPoolSize)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RedisPoolSize = getIntEnv("REDIS_POOL_SIZE", cfg.RedisPoolSize)
	cfg.CacheTTL = getIntEnv("CACHE_TTL_SEC", cfg.CacheTTL)
	cfg.KafkaBrokers = getSliceEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = getEnv("KAFKA_TODO_TOPIC", cfg.KafkaTopic)
	cfg.KafkaPartitions = getIntEnv("KAFKA_PARTITIONS", cfg.KafkaPartitions)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}

// ErrMissing is returned by the Require* checks.
var ErrMissing = errors.New("missing required configuration")

// RequireDatabase reports whether a database DSN is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissing)
	}
	return nil
}

// RequireSecret reports whether a token signing secret is configured.
func (c *Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissing)
	}
	return nil
}

// Validate checks everything the HTTP server needs to start.
func (c *Config) Validate() error {
	return errors.Join(c.RequireDatabase(), c.RequireSecret())
}

// CacheEnabled is true when a Redis URL is configured.
func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// EventsEnabled is true when at least one Kafka broker is configured.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
