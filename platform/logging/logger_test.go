package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONAddsServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{
		ServiceName: "storefront",
		Env:         "docker",
		Output:      zapcore.AddSync(&buf),
	})
	require.NoError(t, err)

	logger.Info("hello")
	Sync(logger)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "storefront", entry["service"])
	require.Equal(t, "docker", entry["env"])
	require.Equal(t, "info", entry["level"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{
		ServiceName: "storefront",
		Env:         "docker",
		Level:       "warn",
		Output:      zapcore.AddSync(&buf),
	})
	require.NoError(t, err)

	logger.Info("dropped")
	require.Empty(t, buf.String())
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	require.Error(t, err)
}
