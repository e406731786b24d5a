package game

import (
	"fmt"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
	"github.com/ramonehamilton/klondike-engine/internal/table"
)

// PileInfo is a read-only snapshot of one pile for the presentation layer.
type PileInfo struct {
	Index         int
	Kind          string
	Name          string
	Size          int
	FaceDownCount int
	// Top is nil for an empty pile and hides face-down cards.
	Top *deck.Card
	// Visible lists the face-up cards, bottom-most first.
	Visible []deck.Card
}

// GameState is a full read-only snapshot of the running game.
type GameState struct {
	SessionID    string
	DeckVariant  string
	DrawCount    int
	Difficulty   int
	Moves        int
	Draws        int
	Recycles     int
	TimerExpired bool
	Ended        bool
	Victory      bool
	Piles        []PileInfo
	Provisional  models.ScoreBreakdown
}

// Statistics are the live counters exposed to the presentation layer.
type Statistics struct {
	Moves            int
	Draws            int
	Recycles         int
	ElapsedSeconds   float64
	ProvisionalScore int
}

// PileInfo returns a snapshot of the pile at idx.
func (s *Service) PileInfo(idx int) (PileInfo, error) {
	p, err := s.table.Pile(idx)
	if err != nil {
		return PileInfo{}, fmt.Errorf("pile info: %w", err)
	}

	info := PileInfo{
		Index:         idx,
		Kind:          p.Kind().String(),
		Name:          p.Name(),
		Size:          p.Size(),
		FaceDownCount: p.FaceDownCount(),
		Visible:       p.VisibleCards(),
	}
	if top, ok := p.Peek(); ok && !top.FaceDown {
		info.Top = &top
	}
	return info, nil
}

// GameState returns a full snapshot of the current game.
func (s *Service) GameState() GameState {
	piles := make([]PileInfo, 0, table.PileCount)
	for i := 0; i < table.PileCount; i++ {
		info, err := s.PileInfo(i)
		if err != nil {
			continue
		}
		piles = append(piles, info)
	}

	return GameState{
		SessionID:    s.sessionID,
		DeckVariant:  string(s.opts.Variant.Name),
		DrawCount:    s.opts.DrawCount,
		Difficulty:   s.opts.Difficulty,
		Moves:        s.moveCount,
		Draws:        s.drawCount,
		Recycles:     s.recycleCount,
		TimerExpired: s.timerExpired,
		Ended:        s.ended,
		Victory:      s.table.IsVictory(),
		Piles:        piles,
		Provisional:  s.scorer.ProvisionalScore(),
	}
}

// Statistics returns the live gameplay counters.
func (s *Service) Statistics() Statistics {
	return Statistics{
		Moves:            s.moveCount,
		Draws:            s.drawCount,
		Recycles:         s.recycleCount,
		ElapsedSeconds:   s.now().UTC().Sub(s.startTime).Seconds(),
		ProvisionalScore: s.scorer.ProvisionalScore().Total,
	}
}
