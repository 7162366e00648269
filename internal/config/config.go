// Package config loads table and dealer AI settings from an HCL file,
// with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// EnvAPIKey is the environment variable holding the dealer AI API key.
// It is never read from the config file so the key stays out of dotfiles
// that end up in version control.
const EnvAPIKey = "VICJACK_API_KEY"

// Config represents the complete application configuration
type Config struct {
	Table  TableSettings `hcl:"table,block"`
	Dealer DealerAI      `hcl:"dealer,block"`
}

// TableSettings contains the table rules and presentation settings
type TableSettings struct {
	Decks           int    `hcl:"decks,optional"`
	StartingBalance int    `hcl:"starting_balance,optional"`
	Chips           []int  `hcl:"chips,optional"`
	DealPaceMs      int    `hcl:"deal_pace_ms,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	LogFile         string `hcl:"log_file,optional"`
}

// DealerAI contains the dealer commentary settings. The API key comes
// from the environment, not the file.
type DealerAI struct {
	Enabled    bool   `hcl:"enabled,optional"`
	BaseURL    string `hcl:"base_url,optional"`
	Model      string `hcl:"model,optional"`
	ImageModel string `hcl:"image_model,optional"`
	TimeoutMs  int    `hcl:"timeout_ms,optional"`
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Table: TableSettings{
			Decks:           6,
			StartingBalance: 1000,
			Chips:           []int{5, 25, 100, 500},
			DealPaceMs:      400,
			LogLevel:        "info",
			LogFile:         "vicjack.log",
		},
		Dealer: DealerAI{
			Enabled:    true,
			Model:      "google/gemini-2.5-flash",
			ImageModel: "google/gemini-2.5-flash-image-preview",
			TimeoutMs:  10000,
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults. Values omitted from the file also fall back to defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Table.Decks == 0 {
		config.Table.Decks = defaults.Table.Decks
	}
	if config.Table.StartingBalance == 0 {
		config.Table.StartingBalance = defaults.Table.StartingBalance
	}
	if len(config.Table.Chips) == 0 {
		config.Table.Chips = defaults.Table.Chips
	}
	if config.Table.DealPaceMs == 0 {
		config.Table.DealPaceMs = defaults.Table.DealPaceMs
	}
	if config.Table.LogLevel == "" {
		config.Table.LogLevel = defaults.Table.LogLevel
	}
	if config.Table.LogFile == "" {
		config.Table.LogFile = defaults.Table.LogFile
	}
	if config.Dealer.Model == "" {
		config.Dealer.Model = defaults.Dealer.Model
	}
	if config.Dealer.ImageModel == "" {
		config.Dealer.ImageModel = defaults.Dealer.ImageModel
	}
	if config.Dealer.TimeoutMs == 0 {
		config.Dealer.TimeoutMs = defaults.Dealer.TimeoutMs
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Decks < 1 || c.Table.Decks > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", c.Table.Decks)
	}
	if c.Table.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive, got %d", c.Table.StartingBalance)
	}
	if len(c.Table.Chips) == 0 {
		return fmt.Errorf("at least one chip denomination is required")
	}
	for i, chip := range c.Table.Chips {
		if chip <= 0 {
			return fmt.Errorf("chip denominations must be positive, got %d", chip)
		}
		if i > 0 && chip <= c.Table.Chips[i-1] {
			return fmt.Errorf("chip denominations must be strictly increasing")
		}
	}
	if c.Table.DealPaceMs < 0 {
		return fmt.Errorf("deal pace must not be negative, got %d", c.Table.DealPaceMs)
	}
	if c.Dealer.TimeoutMs <= 0 {
		return fmt.Errorf("dealer timeout must be positive, got %d", c.Dealer.TimeoutMs)
	}
	return nil
}

// DealPace returns the per-card dealing delay
func (c *Config) DealPace() time.Duration {
	return time.Duration(c.Table.DealPaceMs) * time.Millisecond
}

// DealerTimeout returns how long a commentary request may stay pending
func (c *Config) DealerTimeout() time.Duration {
	return time.Duration(c.Dealer.TimeoutMs) * time.Millisecond
}

// APIKey resolves the dealer AI API key from the environment, loading a
// .env file first if one is present.
func APIKey() string {
	_ = godotenv.Load()
	return os.Getenv(EnvAPIKey)
}
