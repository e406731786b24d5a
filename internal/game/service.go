// Package game implements the per-game service: it validates player
// actions against the rules, mutates the table, drives the timer, emits
// scoring events, and builds the session outcome at game end.
package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/klondike-engine/internal/config"
	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/events"
	"github.com/ramonehamilton/klondike-engine/internal/pile"
	"github.com/ramonehamilton/klondike-engine/internal/rules"
	"github.com/ramonehamilton/klondike-engine/internal/scoring"
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
	"github.com/ramonehamilton/klondike-engine/internal/table"
)

// Options configures one game.
type Options struct {
	ProfileID      string
	Variant        *deck.Variant
	DrawCount      int // 1 or 3
	Difficulty     int // 1..5
	ScoringEnabled bool

	TimerEnabled bool
	TimerLimit   int // seconds; 0 disables the timer
	TimerMode    models.TimerMode

	// ShuffleRecycle permutes the waste during automatic recycles instead
	// of reversing it.
	ShuffleRecycle bool

	// Rng seeds the deal and recycle shuffles; nil uses the package-level
	// source.
	Rng *rand.Rand
}

// Service owns one game's mutable state. It is single-threaded: one
// logical player drives it synchronously, including the timer tick.
type Service struct {
	opts       Options
	table      *table.Table
	scorer     *scoring.Service
	dispatcher *events.Dispatcher

	now func() time.Time

	sessionID        string
	moveCount        int
	drawCount        int
	recycleCount     int
	startTime        time.Time
	timerExpired     bool
	overtimeStart    time.Time
	foundationBySuit map[string]int

	ended   bool
	outcome *models.SessionOutcome

	// onEnd receives the session outcome exactly once per game; the
	// profile layer registers here.
	onEnd func(*models.SessionOutcome)
}

// NewService creates a game service and deals the opening table. A nil
// scoring config uses the in-code defaults.
func NewService(opts Options, cfg *config.ScoringConfig, dispatcher *events.Dispatcher) *Service {
	if opts.Variant == nil {
		opts.Variant = deck.French()
	}
	if opts.DrawCount != 1 && opts.DrawCount != 3 {
		opts.DrawCount = 1
	}
	if opts.Difficulty < 1 || opts.Difficulty > 5 {
		opts.Difficulty = 1
	}
	if opts.TimerMode != models.TimerStrict {
		opts.TimerMode = models.TimerPermissive
	}
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}

	s := &Service{
		opts:       opts,
		table:      table.New(opts.Variant, opts.Rng),
		dispatcher: dispatcher,
		now:        time.Now,
	}
	s.scorer = scoring.NewService(cfg, scoring.GameParams{
		Difficulty:   opts.Difficulty,
		DeckVariant:  string(opts.Variant.Name),
		DrawCount:    opts.DrawCount,
		TimerEnabled: opts.TimerEnabled && opts.TimerLimit > 0,
		TimerLimit:   opts.TimerLimit,
		TimerMode:    opts.TimerMode,
	})
	s.StartGame()
	return s
}

// OnEnd registers the callback that receives the session outcome.
func (s *Service) OnEnd(fn func(*models.SessionOutcome)) { s.onEnd = fn }

// SessionID returns the current session id.
func (s *Service) SessionID() string { return s.sessionID }

// StartTime returns when the current game began.
func (s *Service) StartTime() time.Time { return s.startTime }

// Table returns the game's table.
func (s *Service) Table() *table.Table { return s.table }

// Scorer returns the game's scoring service.
func (s *Service) Scorer() *scoring.Service { return s.scorer }

// StartGame initializes counters, resets scoring and timer state, and
// records the start time for a fresh game on the current table.
func (s *Service) StartGame() {
	s.sessionID = newSessionID()
	s.moveCount = 0
	s.drawCount = 0
	s.recycleCount = 0
	s.timerExpired = false
	s.overtimeStart = time.Time{}
	s.foundationBySuit = make(map[string]int)
	s.ended = false
	s.outcome = nil
	s.scorer.Reset()
	s.startTime = s.now().UTC()
}

// ResetGame re-deals the table and starts over.
func (s *Service) ResetGame() {
	s.table.Reset()
	s.StartGame()
}

// MoveCard moves the top n cards from the source pile to the destination
// pile, validating against the rules first. Illegal moves are reported
// with a reason and never mutate state.
func (s *Service) MoveCard(src, dst, n int) (bool, string) {
	if s.ended {
		return false, "the game is over"
	}
	if n < 1 {
		return s.reject(fmt.Sprintf("cannot move %d cards", n))
	}
	source, err := s.table.Pile(src)
	if err != nil {
		return s.reject(fmt.Sprintf("no such pile %d", src))
	}
	dest, err := s.table.Pile(dst)
	if err != nil {
		return s.reject(fmt.Sprintf("no such pile %d", dst))
	}
	if src == dst {
		return s.reject("source and destination are the same pile")
	}
	if source.Kind() == pile.Stock || dest.Kind() == pile.Stock || dest.Kind() == pile.Waste {
		return s.reject(fmt.Sprintf("cannot move cards from %s to %s", source.Kind(), dest.Kind()))
	}

	switch dest.Kind() {
	case pile.Foundation:
		if n != 1 {
			return s.reject("foundations accept one card at a time")
		}
		return s.moveToFoundation(source, dest)
	case pile.Tableau:
		return s.moveToTableau(source, dest, n)
	}
	return s.reject("unsupported move")
}

func (s *Service) moveToFoundation(source, dest *pile.Pile) (bool, string) {
	card, ok := source.Peek()
	if !ok {
		return s.reject(fmt.Sprintf("%s is empty", source.Name()))
	}
	if card.FaceDown {
		return s.reject(fmt.Sprintf("the top card of %s is face down", source.Name()))
	}
	if source.Kind() == pile.Foundation {
		return s.reject("cannot move between foundations")
	}
	if !rules.CanPlaceOnFoundation(card, dest) {
		return s.reject(fmt.Sprintf("%s cannot go on %s", card, dest.Name()))
	}

	if _, err := source.Pop(); err != nil {
		return s.reject(err.Error())
	}
	dest.Push(card)
	s.foundationBySuit[card.Suit.String()]++

	kind := scoring.TableauToFoundation
	if source.Kind() == pile.Waste {
		kind = scoring.WasteToFoundation
	}
	s.recordEvent(kind, card.String())
	s.flipRevealed(source)

	s.moveCount++
	s.dispatcher.Move(true, fmt.Sprintf("%s to %s", card, dest.Name()))
	s.checkVictory()
	return true, fmt.Sprintf("moved %s to %s", card, dest.Name())
}

func (s *Service) moveToTableau(source, dest *pile.Pile, n int) (bool, string) {
	switch source.Kind() {
	case pile.Tableau:
		if n > len(rules.MovablePrefix(source)) {
			return s.reject(fmt.Sprintf("the top %d cards of %s do not form a movable run", n, source.Name()))
		}
	default:
		if n != 1 {
			return s.reject(fmt.Sprintf("can only move one card from %s", source.Kind()))
		}
	}

	visible := source.VisibleCards()
	if n > len(visible) {
		return s.reject(fmt.Sprintf("%s has only %d visible cards", source.Name(), len(visible)))
	}
	run := visible[len(visible)-n:]
	if !rules.CanMoveSequence(s.table.Variant(), run, dest) {
		return s.reject(fmt.Sprintf("%s cannot go on %s", run[0], dest.Name()))
	}

	cards, err := source.TakeTop(n)
	if err != nil {
		return s.reject(err.Error())
	}
	for _, c := range cards {
		dest.Push(c)
	}

	if source.Kind() == pile.Foundation {
		s.recordEvent(scoring.FoundationToTableau, cards[0].String())
		suit := cards[0].Suit.String()
		if s.foundationBySuit[suit] > 0 {
			s.foundationBySuit[suit]--
		}
	}
	s.flipRevealed(source)

	s.moveCount++
	s.dispatcher.Move(true, fmt.Sprintf("%s to %s", cards[0], dest.Name()))
	return true, fmt.Sprintf("moved %d card(s) to %s", n, dest.Name())
}

// flipRevealed turns the newly exposed top of a tableau source face-up and
// scores the reveal.
func (s *Service) flipRevealed(source *pile.Pile) {
	if source.Kind() != pile.Tableau {
		return
	}
	flipped, err := source.FlipTopFaceUp()
	if err != nil || !flipped {
		return
	}
	top, _ := source.Peek()
	s.recordEvent(scoring.CardRevealed, top.String())
	s.dispatcher.Card(top)
}

// DrawCards turns count cards (1 or 3) from the stock onto the waste. When
// the stock is exhausted and the waste is not, the waste is recycled first
// and the draw proceeds.
func (s *Service) DrawCards(count int) (bool, string) {
	if s.ended {
		return false, "the game is over"
	}
	if count != 1 && count != 3 {
		return s.reject(fmt.Sprintf("draw count must be 1 or 3, not %d", count))
	}

	stock := s.table.Stock()
	waste := s.table.Waste()
	if stock.IsEmpty() {
		if !rules.CanRecycleWaste(stock, waste) {
			return s.reject("nothing left to draw")
		}
		if ok, msg := s.RecycleWaste(s.opts.ShuffleRecycle); !ok {
			return false, msg
		}
	}

	drawn := 0
	var last deck.Card
	for i := 0; i < count && !stock.IsEmpty(); i++ {
		card, err := stock.Pop()
		if err != nil {
			return s.reject(err.Error())
		}
		card.FaceDown = false
		waste.Push(card)
		s.drawCount++
		s.recordEvent(scoring.StockDraw, card.String())
		drawn++
		last = card
	}
	s.dispatcher.Card(last)
	return true, fmt.Sprintf("drew %d card(s)", drawn)
}

// RecycleWaste turns the waste back into face-down stock. With shuffle the
// cards are permuted; otherwise their order is reversed.
func (s *Service) RecycleWaste(shuffle bool) (bool, string) {
	if s.ended {
		return false, "the game is over"
	}
	stock := s.table.Stock()
	waste := s.table.Waste()
	if !rules.CanRecycleWaste(stock, waste) {
		return s.reject("recycle needs an empty stock and a non-empty waste")
	}

	cards := waste.Cards()
	waste.Clear()
	for i := range cards {
		cards[i].FaceDown = true
	}
	if shuffle {
		deck.Shuffle(cards, s.opts.Rng)
	} else {
		deck.Invert(cards)
	}
	for _, c := range cards {
		stock.Push(c)
	}

	s.recycleCount++
	s.recordEvent(scoring.RecycleWaste, fmt.Sprintf("recycle %d", s.recycleCount))
	s.dispatcher.Move(true, fmt.Sprintf("recycled %d cards into the stock", len(cards)))
	return true, fmt.Sprintf("recycled %d cards", len(cards))
}

// AutoMoveToFoundation scans the waste top and then each tableau top and
// performs the first legal foundation move it finds.
func (s *Service) AutoMoveToFoundation() (bool, string) {
	if s.ended {
		return false, "the game is over"
	}

	candidates := []int{table.WasteIndex}
	for i := 0; i < table.TableauCount; i++ {
		candidates = append(candidates, table.TableauStart+i)
	}

	for _, src := range candidates {
		p, _ := s.table.Pile(src)
		card, ok := p.Peek()
		if !ok || card.FaceDown {
			continue
		}
		for f := 0; f < table.FoundationCount; f++ {
			if rules.CanPlaceOnFoundation(card, s.table.Foundation(f)) {
				ok, msg := s.moveToFoundation(p, s.table.Foundation(f))
				if ok {
					s.recordEvent(scoring.AutoMove, card.String())
				}
				return ok, msg
			}
		}
	}
	return false, "no card can move to a foundation"
}

// OnTimerTick is called by an external driver at roughly 1 Hz. Expiry
// fires exactly once: strict mode ends the game, permissive mode starts
// overtime.
func (s *Service) OnTimerTick() {
	if s.ended || !s.opts.TimerEnabled || s.opts.TimerLimit <= 0 || s.timerExpired {
		return
	}
	elapsed := s.now().UTC().Sub(s.startTime)
	if elapsed <= time.Duration(s.opts.TimerLimit)*time.Second {
		return
	}

	s.timerExpired = true
	if s.opts.TimerMode == models.TimerStrict {
		s.dispatcher.Error("time is up")
		s.EndGame(models.EndTimeoutStrict)
		return
	}
	s.overtimeStart = s.now().UTC()
	s.dispatcher.Move(true, "time is up, playing in overtime")
}

// EndGame finishes the game with the given reason and builds the session
// outcome. A VICTORY during active overtime is upgraded to
// VICTORY_OVERTIME. Ending is fatal: later actions are ignored.
func (s *Service) EndGame(reason models.EndReason) (*models.SessionOutcome, bool) {
	if s.ended {
		return nil, false
	}

	now := s.now().UTC()
	overtime := time.Duration(0)
	if !s.overtimeStart.IsZero() {
		overtime = now.Sub(s.overtimeStart)
	}
	if reason == models.EndVictory && !s.overtimeStart.IsZero() {
		reason = models.EndVictoryOvertime
	}

	elapsed := now.Sub(s.startTime)
	score, err := s.scorer.FinalScore(elapsed, s.moveCount, reason.IsVictory(), s.timerExpired, overtime)
	if err != nil {
		s.dispatcher.Error(fmt.Sprintf("score computation failed: %v", err))
		score = models.ScoreBreakdown{}
	}

	suits := make(map[string]int, len(s.foundationBySuit))
	for suit, n := range s.foundationBySuit {
		suits[suit] = n
	}
	completed := 0
	for _, f := range s.table.Foundations() {
		if rules.IsFoundationComplete(s.table.Variant(), f) {
			completed++
		}
	}

	s.outcome = &models.SessionOutcome{
		SessionID:   s.sessionID,
		ProfileID:   s.opts.ProfileID,
		Timestamp:   now,
		GameVersion: models.GameVersion,
		EndReason:   reason,

		TimerEnabled:    s.opts.TimerEnabled && s.opts.TimerLimit > 0,
		TimerLimit:      s.opts.TimerLimit,
		TimerMode:       s.opts.TimerMode,
		TimerExpired:    s.timerExpired,
		OvertimeSeconds: overtime.Seconds(),

		ScoringEnabled: s.opts.ScoringEnabled,
		Score:          score,

		Difficulty:  s.opts.Difficulty,
		DeckVariant: string(s.opts.Variant.Name),
		DrawCount:   s.opts.DrawCount,
		ShuffleMode: shuffleModeName(s.opts.ShuffleRecycle),

		ElapsedSeconds:  elapsed.Seconds(),
		Moves:           s.moveCount,
		Draws:           s.drawCount,
		Recycles:        s.recycleCount,
		FoundationCards: suits,
		CompletedSuits:  completed,
	}
	s.ended = true

	if reason.IsVictory() {
		s.dispatcher.Victory(s.moveCount, elapsed)
	}
	if s.onEnd != nil {
		s.onEnd(s.outcome)
	}
	return s.outcome, true
}

// Ended reports whether the game is over.
func (s *Service) Ended() bool { return s.ended }

// IsVictory reports whether all foundations are complete.
func (s *Service) IsVictory() bool { return s.table.IsVictory() }

// checkVictory ends the game when the last foundation card lands.
func (s *Service) checkVictory() {
	if s.table.IsVictory() {
		s.EndGame(models.EndVictory)
	}
}

// recordEvent forwards to the scorer only when scoring is enabled.
func (s *Service) recordEvent(kind scoring.EventKind, context string) {
	if !s.opts.ScoringEnabled {
		return
	}
	s.scorer.RecordEvent(kind, context)
}

// reject reports an invalid action: it records a tracking event, announces
// the failure, and leaves all game state untouched.
func (s *Service) reject(reason string) (bool, string) {
	s.recordEvent(scoring.InvalidMove, reason)
	s.dispatcher.Move(false, reason)
	return false, reason
}

func shuffleModeName(shuffle bool) string {
	if shuffle {
		return "shuffle"
	}
	return "invert"
}

func newSessionID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "session_" + hex[:8]
}
