// Package models defines the persisted data model: profiles, finished
// session outcomes, and the aggregate statistics views. JSON tags match
// the on-disk profile layout.
package models

import "time"

// GameVersion is stamped on every session outcome.
const GameVersion = "2.7.0"

// GuestProfileID is the fixed id of the built-in guest profile. The guest
// profile cannot be deleted.
const GuestProfileID = "profile_000"

// RecentSessionsCap bounds the recent_sessions list kept in each profile
// file; the oldest entry is evicted first.
const RecentSessionsCap = 50

// EndReason classifies how a game ended.
type EndReason string

const (
	EndVictory         EndReason = "VICTORY"
	EndVictoryOvertime EndReason = "VICTORY_OVERTIME"
	EndAbandonNewGame  EndReason = "ABANDON_NEW_GAME"
	EndAbandonExit     EndReason = "ABANDON_EXIT"
	EndAbandonAppClose EndReason = "ABANDON_APP_CLOSE"
	EndTimeoutStrict   EndReason = "TIMEOUT_STRICT"
)

// IsVictory reports whether the reason counts as a win.
func (r EndReason) IsVictory() bool {
	return r == EndVictory || r == EndVictoryOvertime
}

// IsAbandon reports whether the player walked away from the game.
func (r EndReason) IsAbandon() bool {
	return r == EndAbandonNewGame || r == EndAbandonExit || r == EndAbandonAppClose
}

// IsTimeout reports whether the timer was involved in the ending.
func (r EndReason) IsTimeout() bool {
	return r == EndVictoryOvertime || r == EndTimeoutStrict
}

// Valid reports whether the reason is one of the known values.
func (r EndReason) Valid() bool {
	switch r {
	case EndVictory, EndVictoryOvertime, EndAbandonNewGame, EndAbandonExit, EndAbandonAppClose, EndTimeoutStrict:
		return true
	}
	return false
}

// TimerMode selects what happens when the game timer expires.
type TimerMode string

const (
	// TimerStrict ends the game immediately at expiry.
	TimerStrict TimerMode = "strict"
	// TimerPermissive lets play continue in overtime with a score malus.
	TimerPermissive TimerMode = "permissive"
)

// ScoreBreakdown records every component of a computed score.
type ScoreBreakdown struct {
	BaseScore            int     `json:"base_score"`
	DeckBonus            int     `json:"deck_bonus"`
	DrawBonus            int     `json:"draw_bonus"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
	TimeBonus            int     `json:"time_bonus"`
	VictoryBonus         int     `json:"victory_bonus"`
	// QualityMultiplier is the weighted victory quality; 0.0 when the
	// game was not won.
	QualityMultiplier float64 `json:"quality_multiplier"`
	Total             int     `json:"total"`
}

// SessionOutcome is the immutable summary of one finished game, built
// exactly once at game end.
type SessionOutcome struct {
	SessionID   string    `json:"session_id"`
	ProfileID   string    `json:"profile_id"`
	Timestamp   time.Time `json:"timestamp"`
	GameVersion string    `json:"game_version"`

	EndReason EndReason `json:"end_reason"`

	// Timer block
	TimerEnabled    bool      `json:"timer_enabled"`
	TimerLimit      int       `json:"timer_limit"`
	TimerMode       TimerMode `json:"timer_mode"`
	TimerExpired    bool      `json:"timer_expired"`
	OvertimeSeconds float64   `json:"overtime_seconds"`

	// Scoring block
	ScoringEnabled bool           `json:"scoring_enabled"`
	Score          ScoreBreakdown `json:"score"`

	// Configuration block
	Difficulty  int    `json:"difficulty"`
	DeckVariant string `json:"deck_variant"`
	DrawCount   int    `json:"draw_count"`
	ShuffleMode string `json:"shuffle_mode"`

	// Gameplay counters
	ElapsedSeconds  float64        `json:"elapsed_seconds"`
	Moves           int            `json:"moves"`
	Draws           int            `json:"draws"`
	Recycles        int            `json:"recycles"`
	FoundationCards map[string]int `json:"foundation_cards"`
	CompletedSuits  int            `json:"completed_suits"`
}

// GlobalStats is the all-games aggregate view.
// FastestVictory and SlowestVictory are 0 until the first victory is
// recorded; JSON cannot carry an infinity sentinel.
type GlobalStats struct {
	TotalGames      int     `json:"total_games"`
	TotalVictories  int     `json:"total_victories"`
	TotalDefeats    int     `json:"total_defeats"`
	WinRate         float64 `json:"winrate"`
	TotalPlaytime   float64 `json:"total_playtime"`
	AverageGameTime float64 `json:"average_game_time"`
	FastestVictory  float64 `json:"fastest_victory"`
	SlowestVictory  float64 `json:"slowest_victory"`
	HighestScore    int     `json:"highest_score"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}

// TimerStats aggregates only outcomes played with the timer enabled.
type TimerStats struct {
	GamesWithTimer      int     `json:"games_with_timer"`
	VictoriesWithinTime int     `json:"victories_within_time"`
	VictoriesOvertime   int     `json:"victories_overtime"`
	DefeatsTimeout      int     `json:"defeats_timeout"`
	OvertimeTotal       float64 `json:"overtime_total"`
	OvertimeMean        float64 `json:"overtime_mean"`
	OvertimeMax         float64 `json:"overtime_max"`
}

// DifficultyStats aggregates per-level play. Map keys are difficulty
// levels 1..5.
type DifficultyStats struct {
	GamesByLevel        map[int]int     `json:"games_by_level"`
	VictoriesByLevel    map[int]int     `json:"victories_by_level"`
	WinRateByLevel      map[int]float64 `json:"winrate_by_level"`
	AverageScoreByLevel map[int]float64 `json:"average_score_by_level"`
}

// ScoringStats aggregates only outcomes played with scoring enabled.
// LowestWinScore is taken over victories only and is 0 until the first
// scored victory.
type ScoringStats struct {
	GamesScored    int     `json:"games_scored"`
	TotalScore     int     `json:"total_score"`
	AverageScore   float64 `json:"average_score"`
	HighestScore   int     `json:"highest_score"`
	LowestWinScore int     `json:"lowest_win_score"`
	PerfectGames   int     `json:"perfect_games"`
	GoodGames      int     `json:"good_games"`
	AverageGames   int     `json:"average_games"`
}

// ProfileStats bundles the four aggregate views persisted with a profile.
type ProfileStats struct {
	Global     GlobalStats     `json:"global"`
	Timer      TimerStats      `json:"timer"`
	Difficulty DifficultyStats `json:"difficulty"`
	Scoring    ScoringStats    `json:"scoring"`
}

// NewProfileStats returns zeroed stats with initialized difficulty maps.
func NewProfileStats() ProfileStats {
	return ProfileStats{
		Difficulty: DifficultyStats{
			GamesByLevel:        make(map[int]int),
			VictoriesByLevel:    make(map[int]int),
			WinRateByLevel:      make(map[int]float64),
			AverageScoreByLevel: make(map[int]float64),
		},
	}
}

// Preferences holds per-profile game defaults.
type Preferences struct {
	DeckVariant    string    `json:"deck_variant"`
	DrawCount      int       `json:"draw_count"`
	Difficulty     int       `json:"difficulty"`
	ScoringEnabled bool      `json:"scoring_enabled"`
	TimerEnabled   bool      `json:"timer_enabled"`
	TimerLimit     int       `json:"timer_limit"`
	TimerMode      TimerMode `json:"timer_mode"`
	ShuffleRecycle bool      `json:"shuffle_recycle"`
}

// DefaultPreferences returns the out-of-the-box game settings.
func DefaultPreferences() Preferences {
	return Preferences{
		DeckVariant:    "french",
		DrawCount:      1,
		Difficulty:     1,
		ScoringEnabled: true,
		TimerEnabled:   false,
		TimerLimit:     0,
		TimerMode:      TimerPermissive,
		ShuffleRecycle: false,
	}
}

// Profile identifies a player.
type Profile struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	CreatedAt   time.Time   `json:"created_at"`
	LastPlayed  time.Time   `json:"last_played"`
	IsDefault   bool        `json:"is_default"`
	IsGuest     bool        `json:"is_guest"`
	Preferences Preferences `json:"preferences"`
}

// ProfileFile is the full on-disk document for one profile.
type ProfileFile struct {
	Profile        Profile           `json:"profile"`
	Stats          ProfileStats      `json:"stats"`
	RecentSessions []*SessionOutcome `json:"recent_sessions"`
}

// ProfileSummary is one row of the profiles index.
type ProfileSummary struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	LastPlayed  time.Time `json:"last_played"`
	IsDefault   bool      `json:"is_default"`
	IsGuest     bool      `json:"is_guest"`
	TotalGames  int       `json:"total_games"`
}

// ActiveSession is the crash-recovery marker written at game start and
// removed at clean game end.
type ActiveSession struct {
	SessionID string    `json:"session_id"`
	ProfileID string    `json:"profile_id"`
	StartTime time.Time `json:"start_time"`
}
