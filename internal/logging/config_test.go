package logging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/config"
)

func TestNewFromConfigFs_FileOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.LoggingConfig{Level: "WARN", Format: "json", OutputPath: "/var/log/marine/api.log"}

	logger, err := NewFromConfigFs(cfg, fs)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("archive slow", "latency_ms", 2100)

	data, err := afero.ReadFile(fs, "/var/log/marine/api.log")
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "archive slow", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(2100), entry["latency_ms"])
}

func TestNewFromConfigFs_Appends(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logs/api.log", []byte("previous\n"), 0o644))

	logger, err := NewFromConfigFs(config.LoggingConfig{OutputPath: "/logs/api.log"}, fs)
	require.NoError(t, err)
	logger.Info("started")

	data, err := afero.ReadFile(fs, "/logs/api.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous\n")
	assert.Contains(t, string(data), `"message":"started"`)
}

func TestNewFromConfigFs_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := NewFromConfigFs(config.LoggingConfig{Level: "verbose"}, fs)
	assert.Error(t, err)

	_, err = NewFromConfigFs(config.LoggingConfig{Format: "xml"}, fs)
	assert.Error(t, err)

	_, err = NewFromConfigFs(config.LoggingConfig{OutputPath: "/logs/api.log"}, afero.NewReadOnlyFs(fs))
	assert.Error(t, err)
}

func TestTimeLayout(t *testing.T) {
	assert.Equal(t, time.UnixDate, timeLayout("Unix"))
	assert.Equal(t, time.Kitchen, timeLayout("Kitchen"))
	assert.Equal(t, time.RFC3339, timeLayout("RFC3339"))
	assert.Equal(t, time.RFC3339, timeLayout(""))
}
