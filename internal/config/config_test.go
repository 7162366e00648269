package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vicjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesAndBackfills(t *testing.T) {
	path := writeConfig(t, `
table {
  decks            = 2
  starting_balance = 500
  deal_pace_ms     = 100
}

dealer {
  enabled = true
  model   = "test/model"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Table.Decks)
	assert.Equal(t, 500, cfg.Table.StartingBalance)
	assert.Equal(t, 100*time.Millisecond, cfg.DealPace())
	assert.Equal(t, "test/model", cfg.Dealer.Model)

	// Everything omitted from the file comes from the defaults.
	assert.Equal(t, []int{5, 25, 100, 500}, cfg.Table.Chips)
	assert.Equal(t, "info", cfg.Table.LogLevel)
	assert.Equal(t, DefaultConfig().Dealer.ImageModel, cfg.Dealer.ImageModel)
	assert.Equal(t, 10*time.Second, cfg.DealerTimeout())
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	path := writeConfig(t, `table { decks = `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"too many decks", func(c *Config) { c.Table.Decks = 9 }, "decks"},
		{"zero balance", func(c *Config) { c.Table.StartingBalance = 0 }, "starting balance"},
		{"no chips", func(c *Config) { c.Table.Chips = nil }, "chip denomination"},
		{"unsorted chips", func(c *Config) { c.Table.Chips = []int{25, 5} }, "strictly increasing"},
		{"negative pace", func(c *Config) { c.Table.DealPaceMs = -1 }, "deal pace"},
		{"zero dealer timeout", func(c *Config) { c.Dealer.TimeoutMs = 0 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
