package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, "crowdvault.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 720*time.Hour, cfg.Ledger.CampaignDuration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CROWDVAULT_SERVER_HOST", "127.0.0.1")
	t.Setenv("CROWDVAULT_SERVER_PORT", "9090")
	t.Setenv("CROWDVAULT_TRANSPORT_MODE", "stdio")
	t.Setenv("CROWDVAULT_DB_PATH", "/tmp/test.db")
	t.Setenv("CROWDVAULT_LOG_LEVEL", "debug")
	t.Setenv("CROWDVAULT_CAMPAIGN_DURATION", "24h")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Server.Transport)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 24*time.Hour, cfg.Ledger.CampaignDuration)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 7070\nledger:\n  campaign_duration: 48h\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CROWDVAULT_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 48*time.Hour, cfg.Ledger.CampaignDuration)
	// File values fall back to defaults where unset
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CROWDVAULT_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv("CROWDVAULT_TRANSPORT_MODE", "websocket")
	_, err := Load()
	require.Error(t, err)
}
