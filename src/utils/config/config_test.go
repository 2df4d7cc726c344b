package config

import (
	"os"
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"testing"
)

func TestDefaults(t *testing.T) {
	config := Default()
	require.NotNil(t, config)

	require.Equal(t, ":7777", config.RESTListenAddress)
	require.Equal(t, 30*time.Second, config.StopTimeout)

	require.Equal(t, ":8072", config.Ingester.ListenAddress)
	require.Equal(t, ":8071", config.Gateway.ListenAddress)
	require.Equal(t, 100, config.Gateway.DefaultHistoryLimit)
	require.Equal(t, 1000, config.Gateway.MaxHistoryLimit)

	require.NotEmpty(t, config.Prover.NotifierChannelName)
	require.Positive(t, config.Verifier.MinConfirmationBlocks)
	require.Positive(t, config.EventBus.QueueSize)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TRACKD_GATEWAY_LISTEN_ADDRESS", ":9999")
	t.Setenv("TRACKD_STOP_TIMEOUT", "5s")

	config := Default()
	require.Equal(t, ":9999", config.Gateway.ListenAddress)
	require.Equal(t, 5*time.Second, config.StopTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := t.TempDir() + "/config.json"
	content := `{"LogLevel": "INFO", "Gateway": {"MaxHistoryLimit": 50}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := Load(path)
	require.NoError(t, err)
	require.True(t, strings.EqualFold("INFO", config.LogLevel))
	require.Equal(t, 50, config.Gateway.MaxHistoryLimit)

	// Untouched keys keep their defaults
	require.Equal(t, ":8071", config.Gateway.ListenAddress)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.json")
	require.Error(t, err)
}
