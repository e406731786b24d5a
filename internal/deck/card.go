// Package deck provides card and deck primitives for the solitaire engine.
// Two deck variants are supported: the 52-card French deck and the 40-card
// Neapolitan deck. Ranks are variant-local integers; rule code must consult
// the Variant for the king value instead of hard-coding it.
package deck

import "fmt"

// Color is the binary card color used by tableau placement rules.
type Color int

const (
	Red Color = iota
	Black
)

// String returns a human-readable color name.
func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Suit identifies a card suit across both deck variants.
// French and Neapolitan suits never appear in the same deck.
type Suit int

const (
	// French suits
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades

	// Neapolitan suits
	Coppe   // cups
	Denari  // coins
	Bastoni // clubs (batons)
	Spade   // swords
)

var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
	Coppe:    "coppe",
	Denari:   "denari",
	Bastoni:  "bastoni",
	Spade:    "spade",
}

var suitColors = map[Suit]Color{
	Hearts:   Red,
	Diamonds: Red,
	Clubs:    Black,
	Spades:   Black,
	Coppe:    Red,
	Denari:   Red,
	Bastoni:  Black,
	Spade:    Black,
}

// String returns the suit name.
func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("suit(%d)", int(s))
}

// Color returns the binary color of the suit.
func (s Suit) Color() Color {
	return suitColors[s]
}

// Card is a value object: a rank, a suit, and a face-down flag.
// Rank doubles as the numeric value (1 = ace up to the variant's king).
type Card struct {
	Rank     int
	Suit     Suit
	FaceDown bool
}

// Value returns the numeric rank value of the card.
func (c Card) Value() int {
	return c.Rank
}

// Color returns the binary color of the card's suit.
func (c Card) Color() Color {
	return c.Suit.Color()
}

// Flip toggles the face-down flag and returns the flipped card.
func (c Card) Flip() Card {
	c.FaceDown = !c.FaceDown
	return c
}

// String returns a short human-readable description, e.g. "7 of hearts".
func (c Card) String() string {
	return fmt.Sprintf("%s of %s", rankLabel(c.Rank), c.Suit)
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "ace"
	default:
		return fmt.Sprintf("%d", rank)
	}
}
