package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "000001", cfg.Analyzer.BenchmarkSymbol)
	assert.Equal(t, 10, cfg.Analyzer.MaxBatchSize)
	assert.Equal(t, "glm-4-flash", cfg.Clients.GLM.Model)
	assert.InDelta(t, 0.1, cfg.Clients.GLM.Temperature, 0.001)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("does-not-exist.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advisor.toml")
	content := `
environment = "production"

[server]
port = 9090

[analyzer]
benchmark_symbol = "399001"
max_batch_size = 5

[clients.glm]
model = "glm-4-plus"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "399001", cfg.Analyzer.BenchmarkSymbol)
	assert.Equal(t, 5, cfg.Analyzer.MaxBatchSize)
	assert.Equal(t, "glm-4-plus", cfg.Clients.GLM.Model)
	// Untouched sections keep defaults
	assert.Equal(t, "https://push2his.eastmoney.com", cfg.Clients.Eastmoney.KlineBaseURL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ADVISOR_PORT", "7070")
	t.Setenv("ADVISOR_BENCHMARK_SYMBOL", "000300")
	t.Setenv("ADVISOR_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "000300", cfg.Analyzer.BenchmarkSymbol)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEastmoneyConfig_GetTimeout(t *testing.T) {
	c := EastmoneyConfig{Timeout: "10s", NewsTimeout: "bogus"}
	assert.Equal(t, 10*time.Second, c.GetTimeout())
	// Malformed duration falls back to the default
	assert.Equal(t, 5*time.Second, c.GetNewsTimeout())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GLM_API_KEY", "env-key")
	key, err := ResolveAPIKey("glm_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	t.Setenv("GLM_API_KEY", "")
	key, err = ResolveAPIKey("glm_api_key", "config-key")
	require.NoError(t, err)
	assert.Equal(t, "config-key", key)

	_, err = ResolveAPIKey("glm_api_key", "")
	assert.Error(t, err)
}
