package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: LevelWarn, Format: "json"})

	l.Info("hidden")
	l.Warn("Stored entries are malformed", "key", "@diabetes_entries")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Stored entries are malformed", record["msg"])
	assert.Equal(t, "@diabetes_entries", record["key"])
	assert.Equal(t, "WARN", record["level"])
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "diary.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "text"}))
	t.Cleanup(func() {
		Close()
		require.NoError(t, Init())
	})

	Info("Entry added", "id", "abc")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Entry added")
	assert.Contains(t, string(data), "id=abc")
}
