package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 15, cfg.TickRate)
	assert.Equal(t, "racer", cfg.ModelName)
	assert.Equal(t, time.Second, cfg.SyncInterval.Std())
	assert.Equal(t, 10, cfg.EnemyCount)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
listen_addr: ":9000"
sync_interval: 250ms
enemy_count: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.SyncInterval.Std())
	assert.Equal(t, 3, cfg.EnemyCount)
	// Untouched keys keep their defaults.
	assert.Equal(t, 15, cfg.TickRate)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfigFile(t, `
tick_rate: 30
model_name: "from-yaml"
`)
	t.Setenv("MODEL_NAME", "from-env")
	t.Setenv("SYNC_INTERVAL", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.ModelName)
	assert.Equal(t, 2*time.Second, cfg.SyncInterval.Std())
	assert.Equal(t, 30, cfg.TickRate)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "tick_rate: [nope")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"zero tick rate":     func(c *Config) { c.TickRate = 0 },
		"zero sync interval": func(c *Config) { c.SyncInterval = 0 },
		"negative enemies":   func(c *Config) { c.EnemyCount = -1 },
		"empty model name":   func(c *Config) { c.ModelName = "" },
		"empty world":        func(c *Config) { c.WorldAddress = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestDurationParsing(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1500ms")))
	assert.Equal(t, 1500*time.Millisecond, d.Std())

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
