// Package stats folds session outcomes into the four per-profile
// aggregate views: global, timer, difficulty, and scoring.
package stats

import (
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// Quality bucket thresholds for the scoring view.
const (
	perfectQuality = 1.8
	goodQuality    = 1.4
)

// UpdateFromSession incrementally folds one validated outcome into every
// aggregate view. Outcomes must be applied in play order for the streak
// fields to be meaningful.
func UpdateFromSession(stats *models.ProfileStats, outcome *models.SessionOutcome) {
	updateGlobal(&stats.Global, outcome)
	updateTimer(&stats.Timer, outcome)
	updateDifficulty(&stats.Difficulty, outcome)
	updateScoring(&stats.Scoring, outcome)
}

// RecalculateAll rebuilds every view from scratch. Used to recover from a
// corrupted stats block when the full session history is available.
func RecalculateAll(sessions []*models.SessionOutcome) models.ProfileStats {
	stats := models.NewProfileStats()
	for _, outcome := range sessions {
		if err := ValidateSession(outcome); err != nil {
			continue
		}
		UpdateFromSession(&stats, outcome)
	}
	return stats
}

func updateGlobal(g *models.GlobalStats, o *models.SessionOutcome) {
	g.TotalGames++
	g.TotalPlaytime += o.ElapsedSeconds
	g.AverageGameTime = g.TotalPlaytime / float64(g.TotalGames)

	if o.EndReason.IsVictory() {
		g.TotalVictories++
		if g.FastestVictory == 0 || o.ElapsedSeconds < g.FastestVictory {
			g.FastestVictory = o.ElapsedSeconds
		}
		if o.ElapsedSeconds > g.SlowestVictory {
			g.SlowestVictory = o.ElapsedSeconds
		}
		g.CurrentStreak++
		if g.CurrentStreak > g.LongestStreak {
			g.LongestStreak = g.CurrentStreak
		}
	} else {
		g.TotalDefeats++
		g.CurrentStreak = 0
	}

	g.WinRate = float64(g.TotalVictories) / float64(g.TotalGames)

	if o.ScoringEnabled && o.Score.Total > g.HighestScore {
		g.HighestScore = o.Score.Total
	}
}

func updateTimer(t *models.TimerStats, o *models.SessionOutcome) {
	if !o.TimerEnabled {
		return
	}
	t.GamesWithTimer++

	switch o.EndReason {
	case models.EndVictory:
		t.VictoriesWithinTime++
	case models.EndVictoryOvertime:
		t.VictoriesOvertime++
		t.OvertimeTotal += o.OvertimeSeconds
		t.OvertimeMean = t.OvertimeTotal / float64(t.VictoriesOvertime)
		if o.OvertimeSeconds > t.OvertimeMax {
			t.OvertimeMax = o.OvertimeSeconds
		}
	case models.EndTimeoutStrict:
		t.DefeatsTimeout++
	}
}

func updateDifficulty(d *models.DifficultyStats, o *models.SessionOutcome) {
	if d.GamesByLevel == nil {
		d.GamesByLevel = make(map[int]int)
		d.VictoriesByLevel = make(map[int]int)
		d.WinRateByLevel = make(map[int]float64)
		d.AverageScoreByLevel = make(map[int]float64)
	}

	level := o.Difficulty
	d.GamesByLevel[level]++
	if o.EndReason.IsVictory() {
		d.VictoriesByLevel[level]++
	}
	d.WinRateByLevel[level] = float64(d.VictoriesByLevel[level]) / float64(d.GamesByLevel[level])

	// Moving average over the games seen at this level.
	games := float64(d.GamesByLevel[level])
	prev := d.AverageScoreByLevel[level]
	d.AverageScoreByLevel[level] = prev + (float64(o.Score.Total)-prev)/games
}

func updateScoring(sc *models.ScoringStats, o *models.SessionOutcome) {
	if !o.ScoringEnabled {
		return
	}
	sc.GamesScored++
	sc.TotalScore += o.Score.Total
	sc.AverageScore = float64(sc.TotalScore) / float64(sc.GamesScored)

	if o.Score.Total > sc.HighestScore {
		sc.HighestScore = o.Score.Total
	}
	if o.EndReason.IsVictory() {
		if sc.LowestWinScore == 0 || o.Score.Total < sc.LowestWinScore {
			sc.LowestWinScore = o.Score.Total
		}
		switch {
		case o.Score.QualityMultiplier >= perfectQuality:
			sc.PerfectGames++
		case o.Score.QualityMultiplier >= goodQuality:
			sc.GoodGames++
		default:
			sc.AverageGames++
		}
	}
}
