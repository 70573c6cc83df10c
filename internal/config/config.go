package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

// Config holds all deck configuration.
type Config struct {
	General  GeneralConfig           `toml:"general"`
	Render   RenderConfig            `toml:"render"`
	Server   ServerConfig            `toml:"server"`
	Storage  StorageConfig           `toml:"storage"`
	Telegram TelegramConfig          `toml:"telegram"`
	OpenAI   OpenAIConfig            `toml:"openai"`
	Growth   map[string]GrowthConfig `toml:"growth,omitempty"`
}

type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`
}

type RenderConfig struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Format   string `toml:"format"`
	CacheTTL string `toml:"cache_ttl"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	// Retention is how long snapshots survive; SweepSchedule is a cron spec.
	Retention     string `toml:"retention"`
	SweepSchedule string `toml:"sweep_schedule"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type TelegramConfig struct {
	Token            string `toml:"token,omitempty"`
	WebhookPublicURL string `toml:"webhook_public_url,omitempty"`
	DefaultVariant   string `toml:"default_variant"`
}

type OpenAIConfig struct {
	APIKey string `toml:"api_key,omitempty"`
	Model  string `toml:"model"`
}

// GrowthConfig overrides extrapolation parameters of one scenario; unset fields
// keep the built-in values.
type GrowthConfig struct {
	ClientsPerMonth       *int64   `toml:"clients_per_month,omitempty"`
	ClientGrowthRate      *float64 `toml:"client_growth_rate,omitempty"`
	RevenuePerClient      *float64 `toml:"revenue_per_client,omitempty"`
	VariableCostPerClient *float64 `toml:"variable_cost_per_client,omitempty"`
	FixedCosts            *float64 `toml:"fixed_costs,omitempty"`
	BreakevenMonth        *int     `toml:"breakeven_month,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{LogLevel: "info"},
		Render: RenderConfig{
			Width:    1024,
			Height:   512,
			Format:   "png",
			CacheTTL: "60s",
		},
		Server: ServerConfig{
			Port:          "9095",
			Retention:     "168h",
			SweepSchedule: "@hourly",
		},
		Storage:  StorageConfig{DBPath: "/app/data/deck.db"},
		Telegram: TelegramConfig{DefaultVariant: projection.VariantTranches},
		OpenAI:   OpenAIConfig{Model: "gpt-4"},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pitchdeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pitchdeck")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at ConfigPath and applies environment overrides.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads path, returning defaults if it doesn't exist. Environment
// variables win over the file.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.Token},
		{"WEBHOOK_PUBLIC_URL", &cfg.Telegram.WebhookPublicURL},
		{"OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"PORT", &cfg.Server.Port},
		{"DB_PATH", &cfg.Storage.DBPath},
		{"LOG_LEVEL", &cfg.General.LogLevel},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// CacheTTL parses render.cache_ttl.
func (c Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Render.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("render.cache_ttl: %w", err)
	}
	return d, nil
}

// Retention parses server.retention.
func (c Config) Retention() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.Retention)
	if err != nil {
		return 0, fmt.Errorf("server.retention: %w", err)
	}
	return d, nil
}

// GrowthParams merges [growth.<scenario>] sections over the built-in parameters.
func (c Config) GrowthParams() (map[projection.Scenario]projection.Growth, error) {
	defaults := projection.DefaultGrowth()
	out := make(map[projection.Scenario]projection.Growth, len(c.Growth))
	for name, gc := range c.Growth {
		sc, err := projection.ParseScenario(name)
		if err != nil {
			return nil, fmt.Errorf("growth.%s: %w", name, err)
		}
		g := defaults[sc]
		if gc.ClientsPerMonth != nil {
			g.ClientsPerMonth = *gc.ClientsPerMonth
		}
		if gc.ClientGrowthRate != nil {
			g.ClientGrowthRate = decimal.NewFromFloat(*gc.ClientGrowthRate)
		}
		if gc.RevenuePerClient != nil {
			g.RevenuePerClient = decimal.NewFromFloat(*gc.RevenuePerClient)
		}
		if gc.VariableCostPerClient != nil {
			g.VariableCostPerClient = decimal.NewFromFloat(*gc.VariableCostPerClient)
		}
		if gc.FixedCosts != nil {
			g.FixedCosts = decimal.NewFromFloat(*gc.FixedCosts)
		}
		if gc.BreakevenMonth != nil {
			g.BreakevenMonth = *gc.BreakevenMonth
		}
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("growth.%s: %w", name, err)
		}
		out[sc] = g
	}
	return out, nil
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
