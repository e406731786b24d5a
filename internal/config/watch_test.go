package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring_config.json")

	writeConfig := func(version string) {
		cfg := DefaultScoringConfig()
		cfg.Version = version
		raw := scoringConfigFile{
			Version:               cfg.Version,
			EventPoints:           cfg.EventPoints,
			DifficultyMultipliers: map[string]float64{"1": 1.0, "2": 1.2, "3": 1.4, "4": 1.8, "5": 2.2},
			DeckTypeBonuses:       cfg.DeckTypeBonuses,
			DrawCountBonuses:      map[string]DrawBonus{"1": {}, "3": {Low: 200, High: 100}},
			VictoryBonusBase:      cfg.VictoryBonusBase,
			VictoryWeights:        cfg.VictoryWeights,
			StockDrawThresholds:   cfg.StockDrawThresholds,
			StockDrawPenalties:    cfg.StockDrawPenalties,
			RecyclePenalties:      cfg.RecyclePenalties,
			TimeBonusMaxTimerOff:  cfg.TimeBonusMaxTimerOff,
			TimeBonusDecayPerMin:  cfg.TimeBonusDecayPerMin,
			TimeBonusMaxTimerOn:   cfg.TimeBonusMaxTimerOn,
			OvertimePenaltyPerMin: cfg.OvertimePenaltyPerMin,
			MinScore:              cfg.MinScore,
		}
		data, err := json.Marshal(raw)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	writeConfig("2.7.0")

	loaded := make(chan *ScoringConfig, 4)
	w, err := NewWatcher(path, func(cfg *ScoringConfig) { loaded <- cfg })
	require.NoError(t, err)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("failed to close watcher: %v", err)
		}
	}()

	writeConfig("2.9.0")

	select {
	case cfg := <-loaded:
		if cfg.Version != "2.9.0" {
			t.Errorf("reloaded version = %s, want 2.9.0", cfg.Version)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload after a config write")
	}
}

func TestWatcherSkipsInvalidUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring_config.json")

	loaded := make(chan *ScoringConfig, 4)
	w, err := NewWatcher(path, func(cfg *ScoringConfig) { loaded <- cfg })
	require.NoError(t, err)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("failed to close watcher: %v", err)
		}
	}()

	// A half-written file must never reach the callback.
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2.`), 0o644))

	select {
	case cfg := <-loaded:
		t.Errorf("invalid update reached the callback: version %s", cfg.Version)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring_config.json")

	loaded := make(chan *ScoringConfig, 4)
	w, err := NewWatcher(path, func(cfg *ScoringConfig) { loaded <- cfg })
	require.NoError(t, err)
	defer func() {
		if err := w.Close(); err != nil {
			t.Errorf("failed to close watcher: %v", err)
		}
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-loaded:
		t.Error("a sibling file write must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
