package deck

import "math/rand"

// VariantName identifies a deck variant in configuration and persisted data.
type VariantName string

const (
	VariantFrench     VariantName = "french"
	VariantNeapolitan VariantName = "neapolitan"
)

// Variant describes a deck configuration: which suits and ranks exist and
// what the king value is. All rule code asks the Variant the king question
// rather than comparing against a literal.
type Variant struct {
	Name      VariantName
	Suits     []Suit
	Ranks     []int
	KingValue int
}

// French returns the 52-card French deck variant (king = 13).
func French() *Variant {
	return &Variant{
		Name:      VariantFrench,
		Suits:     []Suit{Hearts, Diamonds, Clubs, Spades},
		Ranks:     rankRange(1, 13),
		KingValue: 13,
	}
}

// Neapolitan returns the 40-card Neapolitan deck variant (king = 10).
func Neapolitan() *Variant {
	return &Variant{
		Name:      VariantNeapolitan,
		Suits:     []Suit{Coppe, Denari, Bastoni, Spade},
		Ranks:     rankRange(1, 10),
		KingValue: 10,
	}
}

// ByName returns the variant for a persisted name, defaulting to French
// for unknown names.
func ByName(name VariantName) *Variant {
	if name == VariantNeapolitan {
		return Neapolitan()
	}
	return French()
}

// Size returns the number of cards in the deck.
func (v *Variant) Size() int {
	return len(v.Suits) * len(v.Ranks)
}

// IsKing reports whether the card is a king in this variant.
func (v *Variant) IsKing(c Card) bool {
	return c.Value() == v.KingValue
}

// Enumerate returns a fresh ordered deck, all cards face-down.
func (v *Variant) Enumerate() []Card {
	cards := make([]Card, 0, v.Size())
	for _, s := range v.Suits {
		for _, r := range v.Ranks {
			cards = append(cards, Card{Rank: r, Suit: s, FaceDown: true})
		}
	}
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates shuffle.
// A nil rng uses the package-level source.
func Shuffle(cards []Card, rng *rand.Rand) {
	swap := func(i, j int) { cards[i], cards[j] = cards[j], cards[i] }
	if rng != nil {
		rng.Shuffle(len(cards), swap)
		return
	}
	rand.Shuffle(len(cards), swap)
}

// Invert reverses the order of cards in place. Used by the non-shuffling
// waste recycle mode.
func Invert(cards []Card) {
	for i, j := 0, len(cards)-1; i < j; i, j = i+1, j-1 {
		cards[i], cards[j] = cards[j], cards[i]
	}
}

func rankRange(lo, hi int) []int {
	ranks := make([]int, 0, hi-lo+1)
	for r := lo; r <= hi; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}
