package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" Error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: "warn"})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_JSONWithAppAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: "info", App: "earnings-engine", Env: "test"})

	logger.Info("summary computed", slog.Int("days", 22))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "earnings-engine", record["app"])
	assert.Equal(t, "test", record["env"])
	assert.EqualValues(t, 22, record["days"])
}

func TestNew_ErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{})

	logger.Error("boom")
	assert.Contains(t, buf.String(), "stacktrace")
}
