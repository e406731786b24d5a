package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ramonehamilton/klondike-engine/internal/config"
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// ErrDomainInvariant is returned when a scoring invariant is violated,
// such as asking the truncation guard to floor a negative value. Callers
// must clamp before truncating.
var ErrDomainInvariant = errors.New("scoring domain invariant violated")

// strictExpiredPenalty applies when a final score is computed for a game
// whose timer expired in strict mode. Strict expiry normally ends the game
// before any score is computed; the value exists for completeness.
const strictExpiredPenalty = -500

// GameParams is the immutable per-game configuration the scoring service
// needs: difficulty, deck, draw count, and the timer settings.
type GameParams struct {
	Difficulty  int
	DeckVariant string
	DrawCount   int

	TimerEnabled bool
	TimerLimit   int // seconds
	TimerMode    models.TimerMode
}

// Service owns one game's score log and computes provisional and final
// scores from it. It is single-threaded like the rest of the core.
type Service struct {
	cfg    *config.ScoringConfig
	params GameParams

	events         []Event
	stockDrawCount int
	recycleCount   int
}

// NewService creates a scoring service for one game. A nil cfg uses the
// in-code defaults.
func NewService(cfg *config.ScoringConfig, params GameParams) *Service {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	return &Service{cfg: cfg, params: params}
}

// Reset clears the event log and the progressive counters for a new game.
func (s *Service) Reset() {
	s.events = s.events[:0]
	s.stockDrawCount = 0
	s.recycleCount = 0
}

// Events returns a copy of the event log in emission order.
func (s *Service) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// StockDrawCount returns the cumulative number of cards drawn from stock.
func (s *Service) StockDrawCount() int { return s.stockDrawCount }

// RecycleCount returns the cumulative number of waste recycles.
func (s *Service) RecycleCount() int { return s.recycleCount }

// RecordEvent appends an event, capturing its point value at emission.
// STOCK_DRAW and RECYCLE_WASTE points are progressive: they depend on the
// cumulative count, which is incremented before the points are computed.
func (s *Service) RecordEvent(kind EventKind, context string) Event {
	var points int
	switch kind {
	case StockDraw:
		s.stockDrawCount++
		points = s.stockDrawPenalty(s.stockDrawCount)
	case RecycleWaste:
		s.recycleCount++
		points = s.recyclePenalty(s.recycleCount)
	default:
		points = s.cfg.EventPoints[string(kind)]
	}

	ev := Event{Kind: kind, Points: points, Timestamp: time.Now().UTC(), Context: context}
	s.events = append(s.events, ev)
	return ev
}

// stockDrawPenalty returns the per-card penalty for the nth cumulative
// draw. Thresholds partition the count axis; draws at or below the first
// threshold are free.
func (s *Service) stockDrawPenalty(count int) int {
	if count <= 0 {
		return 0
	}
	for i, threshold := range s.cfg.StockDrawThresholds {
		if count <= threshold {
			return s.cfg.StockDrawPenalties[i]
		}
	}
	return s.cfg.StockDrawPenalties[len(s.cfg.StockDrawPenalties)-1]
}

// recyclePenalty returns the penalty for the nth recycle (1-based). Counts
// beyond the schedule reuse its last entry.
func (s *Service) recyclePenalty(count int) int {
	if count <= 0 {
		return 0
	}
	if count > len(s.cfg.RecyclePenalties) {
		return s.cfg.RecyclePenalties[len(s.cfg.RecyclePenalties)-1]
	}
	return s.cfg.RecyclePenalties[count-1]
}

// ProvisionalScore computes the current score from the event log: base
// points plus deck and draw bonuses, scaled by the difficulty multiplier
// and clamped to the configured minimum. When the clamp engages, the
// returned breakdown carries multiplier 1.0 and a base adjusted so that
// Total still equals the scaled sum of its components.
func (s *Service) ProvisionalScore() models.ScoreBreakdown {
	base := 0
	for _, ev := range s.events {
		base += ev.Points
	}

	deckBonus := s.cfg.DeckTypeBonuses[s.params.DeckVariant]
	drawBonus := s.drawBonus()
	multiplier := s.cfg.DifficultyMultipliers[s.params.Difficulty]
	if multiplier == 0 {
		multiplier = 1.0
	}

	raw := float64(base+deckBonus+drawBonus) * multiplier
	breakdown := models.ScoreBreakdown{
		BaseScore:            base,
		DeckBonus:            deckBonus,
		DrawBonus:            drawBonus,
		DifficultyMultiplier: multiplier,
	}

	if raw < float64(s.cfg.MinScore) {
		breakdown.Total = s.cfg.MinScore
		breakdown.DifficultyMultiplier = 1.0
		breakdown.BaseScore = s.cfg.MinScore - deckBonus - drawBonus
		return breakdown
	}

	total, err := safeFloor(raw)
	if err != nil {
		// Unreachable: raw has been clamped above the minimum.
		breakdown.Total = s.cfg.MinScore
		return breakdown
	}
	breakdown.Total = total
	return breakdown
}

// drawBonus returns the configured bonus for the game's draw count; the
// low tier covers difficulty 1-3, the high tier 4-5.
func (s *Service) drawBonus() int {
	bonus, ok := s.cfg.DrawCountBonuses[s.params.DrawCount]
	if !ok {
		return 0
	}
	if s.params.Difficulty >= 4 {
		return bonus.High
	}
	return bonus.Low
}

// TimeBonus computes the time component of the final score.
func (s *Service) TimeBonus(elapsed time.Duration, timerExpired bool, overtime time.Duration) (int, error) {
	if !s.params.TimerEnabled || s.params.TimerLimit <= 0 {
		raw := float64(s.cfg.TimeBonusMaxTimerOff) - elapsed.Minutes()*float64(s.cfg.TimeBonusDecayPerMin)
		if raw < 0 {
			return 0, nil
		}
		return safeFloor(raw)
	}

	if timerExpired {
		if s.params.TimerMode == models.TimerStrict {
			// The game should already have ended at expiry.
			return strictExpiredPenalty, nil
		}
		minutes := int(math.Ceil(overtime.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return -s.cfg.OvertimePenaltyPerMin * minutes, nil
	}

	remaining := 1.0 - elapsed.Seconds()/float64(s.params.TimerLimit)
	max := s.cfg.TimeBonusMaxTimerOn
	switch {
	case remaining >= 0.50:
		return max, nil
	case remaining >= 0.25:
		return max / 2, nil
	case remaining > 0:
		return max / 5, nil
	}
	return 0, nil
}

// VictoryQuality computes the weighted quality multiplier of a victory
// from its time, move, and recycle quality factors.
func (s *Service) VictoryQuality(elapsed time.Duration, moves int, timerExpired bool) float64 {
	timeQ := s.timeQuality(elapsed, timerExpired)
	moveQ := moveQuality(moves)
	recycleQ := recycleQuality(s.recycleCount)

	w := s.cfg.VictoryWeights
	return w.Time*timeQ + w.Moves*moveQ + w.Recycles*recycleQ
}

func (s *Service) timeQuality(elapsed time.Duration, timerExpired bool) float64 {
	if !s.params.TimerEnabled || s.params.TimerLimit <= 0 {
		minutes := elapsed.Minutes()
		switch {
		case minutes <= 10:
			return 1.5
		case minutes <= 20:
			return 1.2
		case minutes <= 30:
			return 1.0
		case minutes <= 45:
			return 0.8
		}
		return 0.7
	}

	if timerExpired {
		return 0.7
	}
	remaining := 1.0 - elapsed.Seconds()/float64(s.params.TimerLimit)
	switch {
	case remaining >= 0.80:
		return 1.5
	case remaining >= 0.50:
		return 1.2
	case remaining >= 0.25:
		return 1.0
	case remaining > 0:
		return 0.8
	}
	return 0.7
}

func moveQuality(moves int) float64 {
	switch {
	case moves <= 80:
		return 1.3
	case moves <= 120:
		return 1.1
	case moves <= 180:
		return 1.0
	case moves <= 250:
		return 0.85
	}
	return 0.7
}

func recycleQuality(recycles int) float64 {
	switch {
	case recycles == 0:
		return 1.2
	case recycles <= 2:
		return 1.1
	case recycles <= 4:
		return 1.0
	case recycles <= 7:
		return 0.8
	}
	return 0.5
}

// FinalScore computes the complete score breakdown at game end. The
// quality multiplier is 0.0 when the game was not won.
func (s *Service) FinalScore(elapsed time.Duration, moves int, isVictory bool, timerExpired bool, overtime time.Duration) (models.ScoreBreakdown, error) {
	breakdown := s.ProvisionalScore()

	timeBonus, err := s.TimeBonus(elapsed, timerExpired, overtime)
	if err != nil {
		return models.ScoreBreakdown{}, fmt.Errorf("time bonus: %w", err)
	}
	breakdown.TimeBonus = timeBonus

	if isVictory {
		quality := s.VictoryQuality(elapsed, moves, timerExpired)
		bonus, err := safeFloor(float64(s.cfg.VictoryBonusBase) * quality)
		if err != nil {
			return models.ScoreBreakdown{}, fmt.Errorf("victory bonus: %w", err)
		}
		breakdown.VictoryBonus = bonus
		breakdown.QualityMultiplier = quality
	}

	total := breakdown.Total + breakdown.TimeBonus + breakdown.VictoryBonus
	if total < s.cfg.MinScore {
		total = s.cfg.MinScore
	}
	breakdown.Total = total
	return breakdown, nil
}

// MinScore returns the configured score floor.
func (s *Service) MinScore() int { return s.cfg.MinScore }

// Params returns the immutable game parameters of this service.
func (s *Service) Params() GameParams { return s.params }

// safeFloor truncates a non-negative value toward negative infinity.
// A negative input is a domain bug: the caller must clamp first, because
// truncating a negative float differs between floor and round-toward-zero
// semantics across implementations.
func safeFloor(x float64) (int, error) {
	if x < 0 {
		return 0, fmt.Errorf("floor of negative value %f: %w", x, ErrDomainInvariant)
	}
	return int(math.Floor(x)), nil
}
