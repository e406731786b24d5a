package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppConfigIsValid(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "french", cfg.Game.DeckVariant)
	assert.Equal(t, 1, cfg.Game.DrawCount)
	assert.Equal(t, "permissive", cfg.Game.TimerMode)
	assert.False(t, cfg.Data.ArchiveOff)
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(c *AppConfig) {}, false},
		{"neapolitan strict", func(c *AppConfig) {
			c.Game.DeckVariant = "neapolitan"
			c.Game.TimerMode = "strict"
			c.Game.TimerLimit = 600
		}, false},
		{"bad variant", func(c *AppConfig) { c.Game.DeckVariant = "tarot" }, true},
		{"bad draw count", func(c *AppConfig) { c.Game.DrawCount = 2 }, true},
		{"difficulty too high", func(c *AppConfig) { c.Game.Difficulty = 6 }, true},
		{"negative timer", func(c *AppConfig) { c.Game.TimerLimit = -1 }, true},
		{"bad timer mode", func(c *AppConfig) { c.Game.TimerMode = "lenient" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAppConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
