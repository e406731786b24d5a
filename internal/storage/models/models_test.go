package models

import "testing"

func TestEndReasonPredicates(t *testing.T) {
	tests := []struct {
		reason  EndReason
		valid   bool
		victory bool
		abandon bool
		timeout bool
	}{
		{EndVictory, true, true, false, false},
		{EndVictoryOvertime, true, true, false, false},
		{EndAbandonNewGame, true, false, true, false},
		{EndAbandonExit, true, false, true, false},
		{EndAbandonAppClose, true, false, true, false},
		{EndTimeoutStrict, true, false, false, true},
		{EndReason("SOMETHING_ELSE"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			if got := tt.reason.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.reason.IsVictory(); got != tt.victory {
				t.Errorf("IsVictory() = %v, want %v", got, tt.victory)
			}
			if got := tt.reason.IsAbandon(); got != tt.abandon {
				t.Errorf("IsAbandon() = %v, want %v", got, tt.abandon)
			}
			if got := tt.reason.IsTimeout(); got != tt.timeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.timeout)
			}
		})
	}
}

func TestNewProfileStatsStartsEmpty(t *testing.T) {
	stats := NewProfileStats()
	if stats.Global.TotalGames != 0 {
		t.Errorf("TotalGames = %d, want 0", stats.Global.TotalGames)
	}
	if stats.Difficulty.GamesByLevel == nil {
		t.Error("GamesByLevel map must be initialized")
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.DeckVariant != "french" || prefs.DrawCount != 1 || prefs.Difficulty != 1 {
		t.Errorf("unexpected defaults: %+v", prefs)
	}
	if !prefs.ScoringEnabled {
		t.Error("scoring should be on by default")
	}
	if prefs.TimerEnabled {
		t.Error("timer should be off by default")
	}
}
