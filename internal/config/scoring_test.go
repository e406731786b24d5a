package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScoringFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultScoringConfigIsValid(t *testing.T) {
	cfg := DefaultScoringConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.EventPoints["WASTE_TO_FOUNDATION"])
	assert.Equal(t, -15, cfg.EventPoints["FOUNDATION_TO_TABLEAU"])
	assert.Equal(t, 2.2, cfg.DifficultyMultipliers[5])
	assert.Equal(t, 100, cfg.DeckTypeBonuses["neapolitan"])
	assert.Equal(t, []int{0, 0, -10, -20, -35, -55, -80}, cfg.RecyclePenalties)
	assert.Equal(t, 400, cfg.VictoryBonusBase)
}

func TestLoadScoringMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadScoring(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScoringConfig(), cfg)
}

func TestLoadScoringFile(t *testing.T) {
	path := writeScoringFile(t, `{
		"version": "2.8.1",
		"event_points": {"WASTE_TO_FOUNDATION": 12, "CARD_REVEALED": 6},
		"difficulty_multipliers": {"1": 1.0, "2": 1.1, "3": 1.3, "4": 1.7, "5": 2.0},
		"deck_type_bonuses": {"french": 60, "neapolitan": 120},
		"draw_count_bonuses": {"1": {"low": 0, "high": 0}, "3": {"low": 250, "high": 125}},
		"victory_bonus_base": 500,
		"victory_weights": {"time": 0.4, "moves": 0.4, "recycles": 0.2},
		"stock_draw_thresholds": [15, 30],
		"stock_draw_penalties": [0, -1, -3],
		"recycle_penalties": [0, -5, -15],
		"time_bonus_max_timer_off": 1000,
		"time_bonus_decay_per_minute": 50,
		"time_bonus_max_timer_on": 900,
		"overtime_penalty_per_minute": 150,
		"min_score": 0
	}`)

	cfg, err := LoadScoring(path)
	require.NoError(t, err)

	assert.Equal(t, "2.8.1", cfg.Version)
	assert.Equal(t, 12, cfg.EventPoints["WASTE_TO_FOUNDATION"])
	// String keys in the file become integer keys in the typed config.
	assert.Equal(t, 1.7, cfg.DifficultyMultipliers[4])
	assert.Equal(t, DrawBonus{Low: 250, High: 125}, cfg.DrawCountBonuses[3])
	assert.Equal(t, 500, cfg.VictoryBonusBase)
	assert.Equal(t, []int{15, 30}, cfg.StockDrawThresholds)
	assert.Equal(t, 150, cfg.OvertimePenaltyPerMin)
}

func TestLoadScoringMalformedJSON(t *testing.T) {
	path := writeScoringFile(t, `{"version": "2.7.0",`)
	_, err := LoadScoring(path)
	assert.Error(t, err)
}

func TestLoadScoringBadDifficultyKey(t *testing.T) {
	path := writeScoringFile(t, `{
		"version": "2.7.0",
		"difficulty_multipliers": {"easy": 1.0},
		"victory_weights": {"time": 0.35, "moves": 0.35, "recycles": 0.30},
		"stock_draw_thresholds": [20, 40],
		"stock_draw_penalties": [0, -1, -2],
		"recycle_penalties": [0]
	}`)
	_, err := LoadScoring(path)
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScoringConfig)
	}{
		{"old version", func(c *ScoringConfig) { c.Version = "1.9.0" }},
		{"weights off", func(c *ScoringConfig) { c.VictoryWeights.Time = 0.5 }},
		{"missing level", func(c *ScoringConfig) { delete(c.DifficultyMultipliers, 3) }},
		{"extra level", func(c *ScoringConfig) { c.DifficultyMultipliers[6] = 2.5 }},
		{"penalty shape", func(c *ScoringConfig) { c.StockDrawPenalties = []int{0, -1} }},
		{"unsorted thresholds", func(c *ScoringConfig) { c.StockDrawThresholds = []int{40, 20} }},
		{"empty recycles", func(c *ScoringConfig) { c.RecyclePenalties = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScoringConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateVersionError(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.Version = "1.0.0"
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrConfigVersion))
}
