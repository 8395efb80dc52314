package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
)

// Storage backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Storage         StorageConfig `envconfig:"STORAGE"`
	DB              DBConfig      `envconfig:"DB"`
	Redis           RedisConfig   `envconfig:"REDIS"`
	Logger          LoggerConfig  `envconfig:"LOG"`
	Timezone        string        `envconfig:"TIMEZONE" default:"Local"`
	ReportCacheSize int           `envconfig:"REPORT_CACHE_SIZE" default:"64"`
}

// Nested fields are untagged so envconfig resolves them only as SECTION_FIELD
// and never falls back to bare names like USER or PORT.

type StorageConfig struct {
	Backend string `default:"sqlite"`
	Path    string `default:"data/diary.db"` // sqlite file
	Prefix  string // prepended to every key
}

type DBConfig struct {
	Host     string `default:"localhost"`
	Port     string `default:"5432"`
	User     string `default:"postgres"`
	Password string `default:"postgres"`
	Name     string `default:"diabetes_diary"`
	SSLMode  string `default:"disable"`
}

// DSN returns the postgres connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string `default:"localhost"`
	Port     string `default:"6379"`
	Password string
	DB       int `default:"0"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type LoggerConfig struct {
	Level  string `default:"info"`
	Output string `default:"stderr"`
	Format string `default:"text"`
}

// Logger converts the env representation into the logger package config
func (c LoggerConfig) Logger() logger.Config {
	return logger.Config{
		Level:      logger.ParseLevel(c.Level),
		OutputPath: c.Output,
		Format:     c.Format,
	}
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that envconfig cannot
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			problems = append(problems, "STORAGE_PATH must be set for the sqlite backend")
		}
	case BackendPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			problems = append(problems, "DB_HOST and DB_NAME must be set for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			problems = append(problems, "REDIS_HOST must be set for the redis backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q: %v", c.Timezone, err))
	}
	if c.ReportCacheSize < 0 {
		problems = append(problems, "REPORT_CACHE_SIZE must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Location resolves the configured timezone used for calendar bucketing
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
