// Package pile implements the ordered card stacks a solitaire table is
// built from: tableau, foundation, stock, and waste piles.
package pile

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
)

// Kind classifies a pile. Placement rules and pile operations depend on it.
type Kind int

const (
	Tableau Kind = iota
	Foundation
	Stock
	Waste
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Tableau:
		return "tableau"
	case Foundation:
		return "foundation"
	case Stock:
		return "stock"
	case Waste:
		return "waste"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	// ErrInvalidKind is returned when an operation is called on the wrong
	// pile kind (programmer error).
	ErrInvalidKind = errors.New("operation not valid for this pile kind")

	// ErrInvalidArgument is returned for out-of-range arguments such as
	// taking more cards than the pile holds.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Pile is an ordered stack of cards. Index 0 is the bottom. Tableau piles
// additionally track how many bottom cards are face-down; all other kinds
// keep a face-down count of zero.
type Pile struct {
	kind          Kind
	name          string
	cards         []deck.Card
	faceDownCount int
}

// New creates an empty pile of the given kind.
func New(kind Kind, name string) *Pile {
	return &Pile{kind: kind, name: name}
}

// Kind returns the pile kind.
func (p *Pile) Kind() Kind { return p.kind }

// Name returns the pile's display name.
func (p *Pile) Name() string { return p.name }

// Size returns the number of cards in the pile.
func (p *Pile) Size() int { return len(p.cards) }

// IsEmpty reports whether the pile holds no cards.
func (p *Pile) IsEmpty() bool { return len(p.cards) == 0 }

// FaceDownCount returns how many bottom cards are face-down.
func (p *Pile) FaceDownCount() int { return p.faceDownCount }

// Push adds a card on top of the pile. Pushing a face-down card onto a
// tableau grows the face-down prefix, which only happens during the deal.
func (p *Pile) Push(c deck.Card) {
	if p.kind == Tableau && c.FaceDown && p.faceDownCount == len(p.cards) {
		p.faceDownCount++
	}
	p.cards = append(p.cards, c)
}

// Pop removes and returns the top card.
func (p *Pile) Pop() (deck.Card, error) {
	if len(p.cards) == 0 {
		return deck.Card{}, fmt.Errorf("pop from empty pile %s: %w", p.name, ErrInvalidArgument)
	}
	c := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	if p.faceDownCount > len(p.cards) {
		p.faceDownCount = len(p.cards)
	}
	return c, nil
}

// Peek returns the top card without removing it.
func (p *Pile) Peek() (deck.Card, bool) {
	if len(p.cards) == 0 {
		return deck.Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// TakeTop removes the top n cards and returns them bottom-most first, so
// pushing them in order onto another pile preserves their arrangement.
func (p *Pile) TakeTop(n int) ([]deck.Card, error) {
	if n <= 0 || n > len(p.cards) {
		return nil, fmt.Errorf("take %d from pile %s of size %d: %w", n, p.name, len(p.cards), ErrInvalidArgument)
	}
	start := len(p.cards) - n
	taken := make([]deck.Card, n)
	copy(taken, p.cards[start:])
	p.cards = p.cards[:start]
	if p.faceDownCount > len(p.cards) {
		p.faceDownCount = len(p.cards)
	}
	return taken, nil
}

// Clear removes every card and resets the face-down count.
func (p *Pile) Clear() {
	p.cards = p.cards[:0]
	p.faceDownCount = 0
}

// FlipTopFaceUp turns the top card face-up on a tableau pile when the
// face-down prefix has been exposed. Returns true if a flip happened.
func (p *Pile) FlipTopFaceUp() (bool, error) {
	if p.kind != Tableau {
		return false, fmt.Errorf("flip on %s pile %s: %w", p.kind, p.name, ErrInvalidKind)
	}
	if len(p.cards) == 0 || p.faceDownCount < len(p.cards) {
		return false, nil
	}
	top := p.cards[len(p.cards)-1]
	if !top.FaceDown {
		return false, nil
	}
	p.cards[len(p.cards)-1] = top.Flip()
	p.faceDownCount--
	return true, nil
}

// VisibleCards returns the face-up suffix of a tableau pile, bottom-most
// first. For other kinds it returns every card.
func (p *Pile) VisibleCards() []deck.Card {
	start := 0
	if p.kind == Tableau {
		start = p.faceDownCount
	}
	visible := make([]deck.Card, len(p.cards)-start)
	copy(visible, p.cards[start:])
	return visible
}

// Cards returns a copy of the full card list, bottom-most first.
func (p *Pile) Cards() []deck.Card {
	out := make([]deck.Card, len(p.cards))
	copy(out, p.cards)
	return out
}
