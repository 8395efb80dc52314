package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/diabetes-diary/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	// bare names must not leak into nested sections
	t.Setenv("USER", "someone")
	t.Setenv("PORT", "1234")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "data/diary.db", cfg.Storage.Path)
	assert.Equal(t, "postgres", cfg.DB.User)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 64, cfg.ReportCacheSize)
	assert.Equal(t, "info", cfg.Logger.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", " Redis ")
	t.Setenv("STORAGE_PREFIX", "ana:")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DB_NAME", "diary")
	t.Setenv("TIMEZONE", "Europe/Lisbon")
	t.Setenv("REPORT_CACHE_SIZE", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "ana:", cfg.Storage.Prefix)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "diary", cfg.DB.Name)
	assert.Equal(t, 8, cfg.ReportCacheSize)
	assert.Contains(t, cfg.DB.DSN(), "dbname=diary")

	lc := cfg.Logger.Logger()
	assert.Equal(t, logger.LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Lisbon", loc.String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "floppy"}, "unknown STORAGE_BACKEND"},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}, "invalid TIMEZONE"},
		{"negative cache", map[string]string{"REPORT_CACHE_SIZE": "-1"}, "REPORT_CACHE_SIZE"},
		{"empty sqlite path", map[string]string{"STORAGE_PATH": ""}, "STORAGE_PATH"},
		{"not a number", map[string]string{"REDIS_DB": "two"}, "REDIS_DB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
