package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings. Secrets may be supplied in the
// file but environment variables always win.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Trading struct {
		Mode           string `yaml:"mode"`             // MOCK | TESTNET | MAINNET
		CallTimeoutSec int    `yaml:"call_timeout_sec"` // per gateway round-trip
	} `yaml:"trading"`

	API struct {
		Binance struct {
			RestURL      string   `yaml:"rest_url"`
			WSURL        string   `yaml:"ws_url"`
			APIKey       string   `yaml:"api_key"`
			SecretKey    string   `yaml:"secret_key"`
			RecvWindowMS int      `yaml:"recv_window_ms"`
			Symbols      []string `yaml:"symbols"` // mark-price stream subscriptions
		} `yaml:"binance"`
	} `yaml:"api"`

	Storage struct {
		JournalPath string `yaml:"journal_path"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides, then validates.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Trading.Mode == "" {
		cfg.Trading.Mode = "MOCK"
	}
	if cfg.Trading.CallTimeoutSec <= 0 {
		cfg.Trading.CallTimeoutSec = 10
	}
	if cfg.API.Binance.RecvWindowMS <= 0 {
		cfg.API.Binance.RecvWindowMS = 5000
	}
	if cfg.Storage.JournalPath == "" {
		cfg.Storage.JournalPath = "trading_journal.db"
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	switch strings.ToUpper(c.Trading.Mode) {
	case "MOCK", "TESTNET", "MAINNET":
	default:
		return fmt.Errorf("trading mode must be MOCK, TESTNET or MAINNET, got %q", c.Trading.Mode)
	}

	if strings.ToUpper(c.Trading.Mode) != "MOCK" {
		if c.API.Binance.APIKey == "" || c.API.Binance.SecretKey == "" {
			return fmt.Errorf("API credentials are required for %s mode", c.Trading.Mode)
		}
	}

	if c.API.Binance.WSURL != "" &&
		!strings.HasPrefix(c.API.Binance.WSURL, "ws://") && !strings.HasPrefix(c.API.Binance.WSURL, "wss://") {
		return fmt.Errorf("invalid Binance WS URL: %s", c.API.Binance.WSURL)
	}

	return nil
}

// overrideWithEnv lets environment variables take precedence over file
// values, so secrets can stay out of the config file entirely.
func overrideWithEnv(cfg *Config) {
	if cfg.API.Binance.SecretKey != "" {
		fmt.Println("⚠️  SECURITY WARNING: API secret found in config file.")
		fmt.Println("   Recommendation: use environment variables instead:")
		fmt.Println("   - TRADER_BINANCE_KEY, TRADER_BINANCE_SECRET")
	}

	if key := os.Getenv("TRADER_BINANCE_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := os.Getenv("TRADER_BINANCE_SECRET"); secret != "" {
		cfg.API.Binance.SecretKey = secret
	}
	if mode := os.Getenv("TRADER_MODE"); mode != "" {
		cfg.Trading.Mode = mode
	}
}
