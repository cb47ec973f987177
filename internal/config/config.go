// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Index    IndexConfig    `mapstructure:"index"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// Index engines.
const (
	EngineElasticsearch = "elasticsearch"
	EngineMemory        = "memory"
)

// IndexConfig selects and configures the course index engine.
type IndexConfig struct {
	Engine        string              `mapstructure:"engine"` // elasticsearch, memory
	Name          string              `mapstructure:"name"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ElasticsearchConfig holds Elasticsearch client settings.
type ElasticsearchConfig struct {
	Addresses  []string      `mapstructure:"addresses"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	Refresh    bool          `mapstructure:"refresh"` // refresh after bulk writes
	CB         CBConfig      `mapstructure:"circuit_breaker"`
}

// Seed sources.
const (
	SeedEmbedded = "embedded"
	SeedFile     = "file"
	SeedRemote   = "remote"
	SeedPostgres = "postgres"
)

// SeedConfig holds bulk loader settings.
type SeedConfig struct {
	Source  string         `mapstructure:"source"` // embedded, file, remote, postgres
	File    string         `mapstructure:"file"`
	Remote  RemoteEndpoint `mapstructure:"remote"`
	Lock    bool           `mapstructure:"lock"`
	LockTTL time.Duration  `mapstructure:"lock_ttl"`
	Timeout time.Duration  `mapstructure:"timeout"`
}

// RemoteEndpoint holds the remote seed endpoint configuration.
type RemoteEndpoint struct {
	BaseURL  string        `mapstructure:"base_url"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retry    RetryConfig   `mapstructure:"retry"`
	CB       CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// DatabaseConfig holds course catalog database settings.
// Only used when seed.source is postgres or by coursectl import.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for caching and the seed lock.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SearchTTL  time.Duration `mapstructure:"search_ttl"`
	SuggestTTL time.Duration `mapstructure:"suggest_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Index.Engine {
	case EngineElasticsearch:
		if len(c.Index.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("index.elasticsearch.addresses is required for engine %q", c.Index.Engine)
		}
	case EngineMemory:
	default:
		return fmt.Errorf("unknown index.engine %q", c.Index.Engine)
	}

	switch c.Seed.Source {
	case SeedEmbedded, SeedPostgres:
	case SeedFile:
		if c.Seed.File == "" {
			return fmt.Errorf("seed.file is required for seed source %q", c.Seed.Source)
		}
	case SeedRemote:
		if c.Seed.Remote.BaseURL == "" {
			return fmt.Errorf("seed.remote.base_url is required for seed source %q", c.Seed.Source)
		}
	default:
		return fmt.Errorf("unknown seed.source %q", c.Seed.Source)
	}

	if (c.Cache.Enabled || c.Seed.Lock) && !c.Redis.Enabled {
		return fmt.Errorf("redis.enabled is required when cache or seed lock is enabled")
	}

	return nil
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "course-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Index defaults
	v.SetDefault("index.engine", EngineElasticsearch)
	v.SetDefault("index.name", "courses")
	v.SetDefault("index.elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("index.elasticsearch.username", "")
	v.SetDefault("index.elasticsearch.password", "")
	v.SetDefault("index.elasticsearch.timeout", "5s")
	v.SetDefault("index.elasticsearch.max_retries", 3)
	v.SetDefault("index.elasticsearch.refresh", true)
	v.SetDefault("index.elasticsearch.circuit_breaker.max_requests", 3)
	v.SetDefault("index.elasticsearch.circuit_breaker.interval", "60s")
	v.SetDefault("index.elasticsearch.circuit_breaker.timeout", "30s")
	v.SetDefault("index.elasticsearch.circuit_breaker.failure_ratio", 0.5)

	// Seed defaults
	v.SetDefault("seed.source", SeedEmbedded)
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.lock", false)
	v.SetDefault("seed.lock_ttl", "2m")
	v.SetDefault("seed.timeout", "60s")
	v.SetDefault("seed.remote.base_url", "http://localhost:8081")
	v.SetDefault("seed.remote.endpoint", "/api/courses")
	v.SetDefault("seed.remote.timeout", "10s")
	v.SetDefault("seed.remote.retry.max_attempts", 3)
	v.SetDefault("seed.remote.retry.wait_time", "1s")
	v.SetDefault("seed.remote.retry.max_wait_time", "5s")
	v.SetDefault("seed.remote.circuit_breaker.max_requests", 3)
	v.SetDefault("seed.remote.circuit_breaker.interval", "60s")
	v.SetDefault("seed.remote.circuit_breaker.timeout", "30s")
	v.SetDefault("seed.remote.circuit_breaker.failure_ratio", 0.5)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "course_catalog")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.search_ttl", "1m")
	v.SetDefault("cache.suggest_ttl", "5m")
	v.SetDefault("cache.key_prefix", "course-search")
}
