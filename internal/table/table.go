// Package table assembles piles into a dealt Klondike table and provides
// the raw placement primitives the game service builds on.
package table

import (
	"fmt"
	"math/rand"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/pile"
	"github.com/ramonehamilton/klondike-engine/internal/rules"
)

// Pile indices. The table always holds thirteen piles in this layout.
const (
	TableauStart    = 0
	TableauCount    = 7
	FoundationStart = 7
	FoundationCount = 4
	WasteIndex      = 11
	StockIndex      = 12
	PileCount       = 13
)

// Table owns the thirteen piles of one game and deals them from a shuffled
// deck on construction.
type Table struct {
	variant *deck.Variant
	piles   [PileCount]*pile.Pile
	rng     *rand.Rand
}

// New builds a table for the given variant, shuffles a fresh deck, and
// performs the initial deal. A nil rng uses the package-level source.
func New(v *deck.Variant, rng *rand.Rand) *Table {
	t := &Table{variant: v, rng: rng}
	for i := 0; i < TableauCount; i++ {
		t.piles[i] = pile.New(pile.Tableau, fmt.Sprintf("tableau %d", i+1))
	}
	for i := 0; i < FoundationCount; i++ {
		t.piles[FoundationStart+i] = pile.New(pile.Foundation, fmt.Sprintf("foundation %d", i+1))
	}
	t.piles[WasteIndex] = pile.New(pile.Waste, "waste")
	t.piles[StockIndex] = pile.New(pile.Stock, "stock")
	t.deal()
	return t
}

// Variant returns the deck variant this table was dealt from.
func (t *Table) Variant() *deck.Variant { return t.variant }

// Pile returns the pile at the given index.
func (t *Table) Pile(idx int) (*pile.Pile, error) {
	if idx < 0 || idx >= PileCount {
		return nil, fmt.Errorf("pile index %d out of range: %w", idx, pile.ErrInvalidArgument)
	}
	return t.piles[idx], nil
}

// Tableau returns the tableau pile at position 0..6.
func (t *Table) Tableau(i int) *pile.Pile { return t.piles[TableauStart+i] }

// Foundation returns the foundation pile at position 0..3.
func (t *Table) Foundation(i int) *pile.Pile { return t.piles[FoundationStart+i] }

// Foundations returns the four foundation piles.
func (t *Table) Foundations() []*pile.Pile {
	out := make([]*pile.Pile, FoundationCount)
	for i := 0; i < FoundationCount; i++ {
		out[i] = t.piles[FoundationStart+i]
	}
	return out
}

// Waste returns the waste pile.
func (t *Table) Waste() *pile.Pile { return t.piles[WasteIndex] }

// Stock returns the stock pile.
func (t *Table) Stock() *pile.Pile { return t.piles[StockIndex] }

// PutToBase places a card on the tableau pile at position 0..6 after
// checking legality against the rules. Returns false without mutating when
// the placement is illegal.
func (t *Table) PutToBase(c deck.Card, i int) bool {
	if i < 0 || i >= TableauCount {
		return false
	}
	p := t.piles[TableauStart+i]
	if !rules.CanPlaceOnTableau(t.variant, c, p) {
		return false
	}
	p.Push(c)
	return true
}

// PutToFoundation places a card on the foundation pile at position 0..3
// after checking legality against the rules.
func (t *Table) PutToFoundation(c deck.Card, i int) bool {
	if i < 0 || i >= FoundationCount {
		return false
	}
	p := t.piles[FoundationStart+i]
	if !rules.CanPlaceOnFoundation(c, p) {
		return false
	}
	p.Push(c)
	return true
}

// IsVictory reports whether every foundation is built up to the king.
func (t *Table) IsVictory() bool {
	return rules.IsVictory(t.variant, t.Foundations())
}

// Reset empties every pile and re-deals from a freshly shuffled deck.
func (t *Table) Reset() {
	for _, p := range t.piles {
		p.Clear()
	}
	t.deal()
}

// deal shuffles a fresh deck and lays out the opening position: tableau i
// receives i+1 cards with only the last one face-up, the remainder goes
// face-down to the stock.
func (t *Table) deal() {
	cards := t.variant.Enumerate()
	deck.Shuffle(cards, t.rng)

	next := 0
	for i := 0; i < TableauCount; i++ {
		for j := 0; j <= i; j++ {
			c := cards[next]
			next++
			c.FaceDown = j != i
			t.piles[TableauStart+i].Push(c)
		}
	}
	for ; next < len(cards); next++ {
		c := cards[next]
		c.FaceDown = true
		t.piles[StockIndex].Push(c)
	}
}
