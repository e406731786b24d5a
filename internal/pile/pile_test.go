package pile

import (
	"errors"
	"testing"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
)

func TestPushPopPeek(t *testing.T) {
	p := New(Waste, "waste")
	if !p.IsEmpty() {
		t.Fatal("new pile should be empty")
	}
	if _, ok := p.Peek(); ok {
		t.Fatal("peek on empty pile should report false")
	}

	p.Push(deck.Card{Rank: 3, Suit: deck.Hearts})
	p.Push(deck.Card{Rank: 7, Suit: deck.Clubs})

	top, ok := p.Peek()
	if !ok || top.Rank != 7 {
		t.Fatalf("peek = %v, want 7 of clubs", top)
	}
	if p.Size() != 2 {
		t.Fatalf("size = %d, want 2", p.Size())
	}

	popped, err := p.Pop()
	if err != nil || popped.Rank != 7 {
		t.Fatalf("pop = %v, %v", popped, err)
	}
	if p.Size() != 1 {
		t.Fatalf("size after pop = %d, want 1", p.Size())
	}
}

func TestPopEmptyFails(t *testing.T) {
	p := New(Stock, "stock")
	if _, err := p.Pop(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("pop on empty pile: err = %v, want ErrInvalidArgument", err)
	}
}

func TestTakeTopOrder(t *testing.T) {
	p := New(Tableau, "tableau 1")
	for rank := 5; rank >= 3; rank-- {
		p.Push(deck.Card{Rank: rank, Suit: deck.Spades})
	}

	taken, err := p.TakeTop(2)
	if err != nil {
		t.Fatalf("TakeTop(2): %v", err)
	}
	// Bottom-most first: 4 then 3.
	if taken[0].Rank != 4 || taken[1].Rank != 3 {
		t.Errorf("taken order = [%d %d], want [4 3]", taken[0].Rank, taken[1].Rank)
	}
	if p.Size() != 1 {
		t.Errorf("size after take = %d, want 1", p.Size())
	}
}

func TestTakeTopTooMany(t *testing.T) {
	p := New(Tableau, "tableau 1")
	p.Push(deck.Card{Rank: 2, Suit: deck.Hearts})

	if _, err := p.TakeTop(2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("TakeTop beyond size: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := p.TakeTop(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("TakeTop(0): err = %v, want ErrInvalidArgument", err)
	}
	if p.Size() != 1 {
		t.Errorf("failed take mutated the pile: size = %d", p.Size())
	}
}

func TestFaceDownTracking(t *testing.T) {
	p := New(Tableau, "tableau 3")
	p.Push(deck.Card{Rank: 9, Suit: deck.Hearts, FaceDown: true})
	p.Push(deck.Card{Rank: 4, Suit: deck.Clubs, FaceDown: true})
	p.Push(deck.Card{Rank: 11, Suit: deck.Diamonds})

	if p.FaceDownCount() != 2 {
		t.Fatalf("face-down count = %d, want 2", p.FaceDownCount())
	}

	visible := p.VisibleCards()
	if len(visible) != 1 || visible[0].Rank != 11 {
		t.Fatalf("visible = %v, want [jack of diamonds]", visible)
	}
}

func TestFlipTopFaceUp(t *testing.T) {
	p := New(Tableau, "tableau 2")
	p.Push(deck.Card{Rank: 6, Suit: deck.Diamonds, FaceDown: true})
	p.Push(deck.Card{Rank: 1, Suit: deck.Hearts})

	// Visible card still present: nothing to flip.
	flipped, err := p.FlipTopFaceUp()
	if err != nil || flipped {
		t.Fatalf("flip with visible top = %v, %v, want false", flipped, err)
	}

	if _, err := p.Pop(); err != nil {
		t.Fatal(err)
	}
	flipped, err = p.FlipTopFaceUp()
	if err != nil || !flipped {
		t.Fatalf("flip after exposing face-down top = %v, %v, want true", flipped, err)
	}
	top, _ := p.Peek()
	if top.FaceDown {
		t.Error("top card should be face-up after flip")
	}
	if p.FaceDownCount() != 0 {
		t.Errorf("face-down count = %d, want 0", p.FaceDownCount())
	}

	// A second flip is a no-op.
	flipped, err = p.FlipTopFaceUp()
	if err != nil || flipped {
		t.Errorf("repeat flip = %v, %v, want false", flipped, err)
	}
}

func TestFlipWrongKind(t *testing.T) {
	p := New(Foundation, "foundation 1")
	p.Push(deck.Card{Rank: 1, Suit: deck.Hearts})

	if _, err := p.FlipTopFaceUp(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("flip on foundation: err = %v, want ErrInvalidKind", err)
	}
}

func TestClear(t *testing.T) {
	p := New(Tableau, "tableau 1")
	p.Push(deck.Card{Rank: 8, Suit: deck.Hearts, FaceDown: true})
	p.Push(deck.Card{Rank: 2, Suit: deck.Spades})
	p.Clear()

	if !p.IsEmpty() || p.FaceDownCount() != 0 {
		t.Errorf("clear left size=%d faceDown=%d", p.Size(), p.FaceDownCount())
	}
}
