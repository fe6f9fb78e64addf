package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"episum/internal/config"
)

func TestJSONRecordsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("processing file")
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "processing file", rec["msg"])
	_, err = uuid.Parse(rec["run_id"].(string))
	assert.NoError(t, err)
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LoggingConfig{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)
	log.Info("quiet")
	log.Warn("malformed line")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "malformed line")
}

func TestInvalidSettings(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
