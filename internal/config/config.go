// Package config loads the server configuration: compiled defaults, then an
// optional YAML file, then environment variables, later sources winning.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so it parses from "500ms"-style strings in
// both YAML and environment sources.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full configuration surface.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr" env:"SERVER_ADDR"`
	// TickRate is the simulation frequency in ticks per second.
	TickRate int `yaml:"tick_rate" env:"TICK_RATE"`
	// CatchupMaxTicks caps the delta fed to a single step after a stall.
	CatchupMaxTicks int `yaml:"catchup_max_ticks" env:"CATCHUP_MAX_TICKS"`

	// LedgerEndpoint is the JSON-RPC URL of the ledger node.
	LedgerEndpoint string `yaml:"ledger_endpoint" env:"LEDGER_RPC_URL"`
	// AccountAddress and AccountSecret are the signing identity.
	AccountAddress string `yaml:"account_address" env:"ACCOUNT_ADDRESS"`
	AccountSecret  string `yaml:"account_secret" env:"ACCOUNT_SECRET_KEY"`
	// WorldAddress is the world contract holding the game state.
	WorldAddress string `yaml:"world_address" env:"WORLD_ADDRESS"`

	// ModelName is the racer model, encoded as a ledger short string.
	ModelName string `yaml:"model_name" env:"MODEL_NAME"`
	// SyncInterval is the dispatcher period.
	SyncInterval Duration `yaml:"sync_interval" env:"SYNC_INTERVAL"`
	// EnemyCount is how many enemy positions each refresh polls.
	EnemyCount int `yaml:"enemy_count" env:"ENEMY_COUNT"`

	// Coordinate mapping from ledger space into simulation space.
	ScaleX  float64 `yaml:"scale_x" env:"LEDGER_SCALE_X"`
	ScaleY  float64 `yaml:"scale_y" env:"LEDGER_SCALE_Y"`
	OffsetX float64 `yaml:"offset_x" env:"LEDGER_OFFSET_X"`
}

// Default returns the compiled-in configuration, tuned for a local devnet.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		TickRate:        15,
		CatchupMaxTicks: 4,
		LedgerEndpoint:  "http://localhost:5050",
		AccountAddress:  "0x517ececd29116499f4a1b64b094da79ba08dfd54a3edaa316134c41f8160973",
		AccountSecret:   "0x1800000000300000180000000000030000000000003006001800006600",
		WorldAddress:    "0x26065106fa319c3981618e7567480a50132f23932226a51c219ffb8e47daa84",
		ModelName:       "racer",
		SyncInterval:    Duration(time.Second),
		EnemyCount:      10,
		ScaleX:          1,
		ScaleY:          1,
		OffsetX:         743,
	}
}

// Load resolves the configuration from defaults, the optional YAML file at
// path, and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick rate must be positive, got %d", c.TickRate)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("config: sync interval must be positive, got %s", c.SyncInterval.Std())
	}
	if c.EnemyCount < 0 {
		return fmt.Errorf("config: enemy count must not be negative, got %d", c.EnemyCount)
	}
	if c.ModelName == "" {
		return fmt.Errorf("config: model name must not be empty")
	}
	if c.WorldAddress == "" {
		return fmt.Errorf("config: world address must not be empty")
	}
	return nil
}
