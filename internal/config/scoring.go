package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrConfigVersion is returned when the scoring config file carries an
// unsupported version.
var ErrConfigVersion = errors.New("unsupported scoring config version")

// DrawBonus holds the per-draw-count bonus pair. Low applies to difficulty
// levels 1-3, High to levels 4-5.
type DrawBonus struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// VictoryWeights are the quality factor weights of the victory bonus.
// They must sum to 1.0 within a small tolerance.
type VictoryWeights struct {
	Time     float64 `json:"time"`
	Moves    float64 `json:"moves"`
	Recycles float64 `json:"recycles"`
}

// ScoringConfig holds every tunable of the scoring service. Values are
// validated on load; a game takes an immutable copy at start.
type ScoringConfig struct {
	Version               string
	EventPoints           map[string]int
	DifficultyMultipliers map[int]float64
	DeckTypeBonuses       map[string]int
	DrawCountBonuses      map[int]DrawBonus
	VictoryBonusBase      int
	VictoryWeights        VictoryWeights
	StockDrawThresholds   []int
	StockDrawPenalties    []int
	RecyclePenalties      []int
	TimeBonusMaxTimerOff  int
	TimeBonusDecayPerMin  int
	TimeBonusMaxTimerOn   int
	OvertimePenaltyPerMin int
	MinScore              int
}

// scoringConfigFile is the raw JSON shape. Difficulty and draw-count maps
// arrive with string keys and are converted to integers during load.
type scoringConfigFile struct {
	Version               string               `json:"version"`
	EventPoints           map[string]int       `json:"event_points"`
	DifficultyMultipliers map[string]float64   `json:"difficulty_multipliers"`
	DeckTypeBonuses       map[string]int       `json:"deck_type_bonuses"`
	DrawCountBonuses      map[string]DrawBonus `json:"draw_count_bonuses"`
	VictoryBonusBase      int                  `json:"victory_bonus_base"`
	VictoryWeights        VictoryWeights       `json:"victory_weights"`
	StockDrawThresholds   []int                `json:"stock_draw_thresholds"`
	StockDrawPenalties    []int                `json:"stock_draw_penalties"`
	RecyclePenalties      []int                `json:"recycle_penalties"`
	TimeBonusMaxTimerOff  int                  `json:"time_bonus_max_timer_off"`
	TimeBonusDecayPerMin  int                  `json:"time_bonus_decay_per_minute"`
	TimeBonusMaxTimerOn   int                  `json:"time_bonus_max_timer_on"`
	OvertimePenaltyPerMin int                  `json:"overtime_penalty_per_minute"`
	MinScore              int                  `json:"min_score"`
}

// DefaultScoringConfig returns the in-code scoring parameters used when no
// external config file is present.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Version: "2.7.0",
		EventPoints: map[string]int{
			"WASTE_TO_FOUNDATION":   10,
			"TABLEAU_TO_FOUNDATION": 10,
			"CARD_REVEALED":         5,
			"FOUNDATION_TO_TABLEAU": -15,
			"INVALID_MOVE":          0,
			"AUTO_MOVE":             0,
			"UNDO_MOVE":             0,
			"HINT_USED":             0,
		},
		DifficultyMultipliers: map[int]float64{1: 1.0, 2: 1.2, 3: 1.4, 4: 1.8, 5: 2.2},
		DeckTypeBonuses:       map[string]int{"french": 50, "neapolitan": 100},
		DrawCountBonuses: map[int]DrawBonus{
			1: {Low: 0, High: 0},
			2: {Low: 100, High: 50},
			3: {Low: 200, High: 100},
		},
		VictoryBonusBase:      400,
		VictoryWeights:        VictoryWeights{Time: 0.35, Moves: 0.35, Recycles: 0.30},
		StockDrawThresholds:   []int{20, 40},
		StockDrawPenalties:    []int{0, -1, -2},
		RecyclePenalties:      []int{0, 0, -10, -20, -35, -55, -80},
		TimeBonusMaxTimerOff:  1200,
		TimeBonusDecayPerMin:  40,
		TimeBonusMaxTimerOn:   1000,
		OvertimePenaltyPerMin: 100,
		MinScore:              0,
	}
}

// LoadScoring reads the scoring config at path. A missing file is silently
// tolerated and yields the defaults; a malformed or wrong-version file is a
// configuration error.
func LoadScoring(path string) (*ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[Config] No scoring config at %s, using defaults", path)
			return DefaultScoringConfig(), nil
		}
		return nil, fmt.Errorf("read scoring config: %w", err)
	}

	var raw scoringConfigFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scoring config: %w", err)
	}

	cfg, err := raw.convert()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// convert turns the raw string-keyed file form into the typed config.
func (f *scoringConfigFile) convert() (*ScoringConfig, error) {
	diffs := make(map[int]float64, len(f.DifficultyMultipliers))
	for k, v := range f.DifficultyMultipliers {
		level, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("difficulty multiplier key %q is not an integer: %w", k, err)
		}
		diffs[level] = v
	}

	draws := make(map[int]DrawBonus, len(f.DrawCountBonuses))
	for k, v := range f.DrawCountBonuses {
		count, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("draw count bonus key %q is not an integer: %w", k, err)
		}
		draws[count] = v
	}

	return &ScoringConfig{
		Version:               f.Version,
		EventPoints:           f.EventPoints,
		DifficultyMultipliers: diffs,
		DeckTypeBonuses:       f.DeckTypeBonuses,
		DrawCountBonuses:      draws,
		VictoryBonusBase:      f.VictoryBonusBase,
		VictoryWeights:        f.VictoryWeights,
		StockDrawThresholds:   append([]int(nil), f.StockDrawThresholds...),
		StockDrawPenalties:    append([]int(nil), f.StockDrawPenalties...),
		RecyclePenalties:      append([]int(nil), f.RecyclePenalties...),
		TimeBonusMaxTimerOff:  f.TimeBonusMaxTimerOff,
		TimeBonusDecayPerMin:  f.TimeBonusDecayPerMin,
		TimeBonusMaxTimerOn:   f.TimeBonusMaxTimerOn,
		OvertimePenaltyPerMin: f.OvertimePenaltyPerMin,
		MinScore:              f.MinScore,
	}, nil
}

// Validate checks version and internal consistency.
func (c *ScoringConfig) Validate() error {
	if !strings.HasPrefix(c.Version, "2.") {
		return fmt.Errorf("version %q: %w", c.Version, ErrConfigVersion)
	}

	weightSum := c.VictoryWeights.Time + c.VictoryWeights.Moves + c.VictoryWeights.Recycles
	if math.Abs(weightSum-1.0) > 0.01 {
		return fmt.Errorf("victory weights sum to %.3f, want 1.0", weightSum)
	}

	if len(c.DifficultyMultipliers) != 5 {
		return fmt.Errorf("difficulty multipliers must cover levels 1-5, got %d entries", len(c.DifficultyMultipliers))
	}
	for level := 1; level <= 5; level++ {
		if _, ok := c.DifficultyMultipliers[level]; !ok {
			return fmt.Errorf("difficulty multipliers missing level %d", level)
		}
	}

	if len(c.StockDrawPenalties) != len(c.StockDrawThresholds)+1 {
		return fmt.Errorf("stock draw penalties must have one more entry than thresholds: %d vs %d",
			len(c.StockDrawPenalties), len(c.StockDrawThresholds))
	}
	if !sort.IntsAreSorted(c.StockDrawThresholds) {
		return fmt.Errorf("stock draw thresholds must be ascending")
	}

	if len(c.RecyclePenalties) == 0 {
		return fmt.Errorf("recycle penalties cannot be empty")
	}

	return nil
}
