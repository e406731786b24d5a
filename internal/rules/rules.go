// Package rules holds the stateless legality predicates of Klondike.
// Every predicate is a pure function of its inputs plus the deck variant;
// identical inputs always yield identical answers. Illegal moves are
// reported as false, never as errors.
package rules

import (
	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/pile"
)

// CanPlaceOnTableau reports whether card may be placed on the tableau pile.
// An empty tableau accepts only a king of the variant; otherwise the top
// card must be face-up, of the opposite color, and one rank higher.
func CanPlaceOnTableau(v *deck.Variant, card deck.Card, p *pile.Pile) bool {
	if p.Kind() != pile.Tableau {
		return false
	}
	top, ok := p.Peek()
	if !ok {
		return v.IsKing(card)
	}
	if top.FaceDown {
		return false
	}
	return top.Color() != card.Color() && card.Value() == top.Value()-1
}

// CanPlaceOnFoundation reports whether card may be placed on the foundation
// pile. An empty foundation accepts only an ace; otherwise the card must
// match the top card's suit and be one rank higher.
func CanPlaceOnFoundation(card deck.Card, p *pile.Pile) bool {
	if p.Kind() != pile.Foundation {
		return false
	}
	top, ok := p.Peek()
	if !ok {
		return card.Value() == 1
	}
	return card.Suit == top.Suit && card.Value() == top.Value()+1
}

// CanMoveSequence reports whether the given run of cards (bottom-most
// first) may be moved onto the tableau pile as one unit. Every card must be
// face-up, the run must descend by one with alternating colors, and its
// bottom card must be placeable on the destination.
func CanMoveSequence(v *deck.Variant, cards []deck.Card, p *pile.Pile) bool {
	if len(cards) == 0 {
		return false
	}
	if !isDescendingAlternating(cards) {
		return false
	}
	return CanPlaceOnTableau(v, cards[0], p)
}

// IsFoundationComplete reports whether the foundation pile has been built
// up to the variant's king.
func IsFoundationComplete(v *deck.Variant, p *pile.Pile) bool {
	top, ok := p.Peek()
	if !ok {
		return false
	}
	return top.Value() == v.KingValue
}

// IsVictory reports whether all four foundations are complete.
func IsVictory(v *deck.Variant, foundations []*pile.Pile) bool {
	if len(foundations) == 0 {
		return false
	}
	for _, f := range foundations {
		if !IsFoundationComplete(v, f) {
			return false
		}
	}
	return true
}

// CanDrawFromStock reports whether a draw action is available.
func CanDrawFromStock(stock *pile.Pile) bool {
	return !stock.IsEmpty()
}

// CanRecycleWaste reports whether the waste may be turned back into stock.
func CanRecycleWaste(stock, waste *pile.Pile) bool {
	return stock.IsEmpty() && !waste.IsEmpty()
}

// MovablePrefix returns the longest suffix of the tableau pile's visible
// cards that forms a valid movable run, bottom-most first. The result is
// empty for piles with no visible cards.
func MovablePrefix(p *pile.Pile) []deck.Card {
	visible := p.VisibleCards()
	if len(visible) == 0 {
		return nil
	}
	// Walk upward from the top card, extending the run while it stays a
	// descending alternating-color chain.
	start := len(visible) - 1
	for start > 0 {
		below := visible[start-1]
		cur := visible[start]
		if below.FaceDown || below.Color() == cur.Color() || below.Value() != cur.Value()+1 {
			break
		}
		start--
	}
	return visible[start:]
}

func isDescendingAlternating(cards []deck.Card) bool {
	for i, c := range cards {
		if c.FaceDown {
			return false
		}
		if i == 0 {
			continue
		}
		prev := cards[i-1]
		if c.Color() == prev.Color() || c.Value() != prev.Value()-1 {
			return false
		}
	}
	return true
}
