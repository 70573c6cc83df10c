package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL", "OPENAI_API_KEY", "PORT", "DB_PATH", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
	ret, err := cfg.Retention()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, ret)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[general]
log_level = "debug"
log_json = true

[render]
format = "svg"
cache_ttl = "5m"

[server]
port = "8080"

[growth.average]
clients_per_month = 120
breakeven_month = 6

[growth.pos]
client_growth_rate = 0.1
`), 0o600))
	t.Setenv("PORT", "7070")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.True(t, cfg.General.LogJSON)
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)

	growth, err := cfg.GrowthParams()
	require.NoError(t, err)
	require.Len(t, growth, 2)
	avg := growth[projection.Average]
	assert.EqualValues(t, 120, avg.ClientsPerMonth)
	assert.Equal(t, 6, avg.BreakevenMonth)
	assert.Equal(t, "5000", avg.RevenuePerClient.String())
	assert.Equal(t, "0.1", growth[projection.Positive].ClientGrowthRate.String())
	assert.EqualValues(t, 150, growth[projection.Positive].ClientsPerMonth)
}

func TestGrowthParamsRejectsBadSections(t *testing.T) {
	neg := -1.0
	cfg := DefaultConfig()
	cfg.Growth = map[string]GrowthConfig{"average": {FixedCosts: &neg}}
	_, err := cfg.GrowthParams()
	assert.ErrorIs(t, err, projection.ErrNegative)

	cfg.Growth = map[string]GrowthConfig{"moonshot": {}}
	_, err = cfg.GrowthParams()
	assert.ErrorIs(t, err, projection.ErrUnknownScenario)
}

func TestLoadFileRejectsBadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render\nwidth = "), 0o600))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Render.Height = 600
	require.NoError(t, Save(path, cfg))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 600, got.Render.Height)
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/pitchdeck/config.toml", ConfigPath())
}
