package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath    string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicBaseURL  string   `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		MaxUploadMB    int      `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
		CORSOrigins    []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
		RateLimitRPS   float64  `yaml:"rate_limit_rps" env:"SERVER_RATE_LIMIT_RPS"`
		RateLimitBurst int      `yaml:"rate_limit_burst" env:"SERVER_RATE_LIMIT_BURST"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Mongo struct {
		URI      string `yaml:"uri" env:"MONGODB_URI"`
		Database string `yaml:"database" env:"MONGODB_DB"`
	} `yaml:"mongo"`

	Identity struct {
		HMACSecret   string `yaml:"hmac_secret" env:"IDENTITY_HMAC_SECRET"`
		PublicKeyPEM string `yaml:"public_key_pem" env:"IDENTITY_PUBLIC_KEY_PEM"`
		Issuer       string `yaml:"issuer" env:"IDENTITY_ISSUER"`
		Audience     string `yaml:"audience" env:"IDENTITY_AUDIENCE"`
	} `yaml:"identity"`

	NATS struct {
		Enabled          bool   `yaml:"enabled" env:"NATS_ENABLED"`
		URL              string `yaml:"url" env:"NATS_URL"`
		SubjectPrefix    string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX"`
		BreakerFailures  int    `yaml:"breaker_failures" env:"NATS_BREAKER_FAILURES"`
		BreakerTimeout   string `yaml:"breaker_timeout" env:"NATS_BREAKER_TIMEOUT"`
		BreakerHalfOpens int    `yaml:"breaker_half_open_requests" env:"NATS_BREAKER_HALF_OPEN_REQUESTS"`
	} `yaml:"nats"`

	Search struct {
		Enabled   bool     `yaml:"enabled" env:"SEARCH_ENABLED"`
		Addresses []string `yaml:"addresses" env:"ELASTIC_URL"`
		Index     string   `yaml:"index" env:"SEARCH_INDEX"`
	} `yaml:"search"`

	Scoring struct {
		Min float64 `yaml:"min" env:"SCORING_MIN"`
		Max float64 `yaml:"max" env:"SCORING_MAX"`
	} `yaml:"scoring"`

	Submissions struct {
		AllowedHosts []string `yaml:"allowed_hosts" env:"SUBMISSIONS_ALLOWED_HOSTS"`
	} `yaml:"submissions"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a yaml file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.MaxUploadMB = 5
	config.Server.CORSOrigins = []string{"http://localhost:3000"}
	config.Server.RateLimitRPS = 10
	config.Server.RateLimitBurst = 20

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "openhacks"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Mongo.URI = "mongodb://localhost:27017"
	config.Mongo.Database = "openhacks"

	config.NATS.URL = "nats://127.0.0.1:4222"
	config.NATS.SubjectPrefix = "events"
	config.NATS.BreakerFailures = 5
	config.NATS.BreakerTimeout = "30s"
	config.NATS.BreakerHalfOpens = 1

	config.Search.Addresses = []string{"http://localhost:9200"}
	config.Search.Index = "events_v1"

	config.Scoring.Min = 0
	config.Scoring.Max = 10

	config.Submissions.AllowedHosts = []string{"github.com", "gitlab.com", "bitbucket.org", "codeberg.org"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Mongo.URI == "" {
		return fmt.Errorf("mongo uri is required")
	}

	if config.Identity.HMACSecret == "" && config.Identity.PublicKeyPEM == "" {
		return fmt.Errorf("identity verification key is required (hmac_secret or public_key_pem)")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	if config.NATS.Enabled {
		if config.NATS.URL == "" {
			return fmt.Errorf("nats url is required when nats is enabled")
		}
		if _, err := time.ParseDuration(config.NATS.BreakerTimeout); err != nil {
			return fmt.Errorf("invalid nats breaker timeout: %w", err)
		}
	}

	if config.Search.Enabled && len(config.Search.Addresses) == 0 {
		return fmt.Errorf("search addresses are required when search is enabled")
	}

	if config.Scoring.Min >= config.Scoring.Max {
		return fmt.Errorf("scoring min (%v) must be lower than max (%v)", config.Scoring.Min, config.Scoring.Max)
	}

	if len(config.Submissions.AllowedHosts) == 0 {
		return fmt.Errorf("at least one allowed submission host is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// BaseURL returns the externally reachable base URL of the API
func (c *Config) BaseURL() string {
	if c.Server.PublicBaseURL != "" {
		return strings.TrimRight(c.Server.PublicBaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}
