package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
environment: test
upstream:
  api_key: k
  base_url: https://api.example.com
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Upstream.MaxRetries)
	require.Equal(t, 15*time.Second, cfg.Upstream.RetryDelay)
	require.Equal(t, 5, cfg.Upstream.BudgetThreshold)
	require.Equal(t, 5*time.Minute, cfg.Freshness.Quote)
	require.Equal(t, 24*time.Hour, cfg.Freshness.Catalog)
	require.Equal(t, 2000, cfg.Aggregate.ByteBudget)
	require.Equal(t, 30*time.Second, cfg.Aggregate.ComprehensiveTimeout)
	require.Equal(t, "none", cfg.Sink.Type)
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\nupstream:\n  base_url: u\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "api_key")
}

func TestLoadRejectsUnknownSink(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"sink:\n  type: postgres\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "sink.type")
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"sink:\n  type: kafka\n"))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", "env-key")
	t.Setenv("SINK", "none")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Upstream.APIKey)
	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
}
