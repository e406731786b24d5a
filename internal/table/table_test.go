package table

import (
	"math/rand"
	"testing"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/pile"
)

func TestInitialDeal(t *testing.T) {
	tests := []struct {
		name      string
		variant   *deck.Variant
		wantStock int
	}{
		{"French", deck.French(), 24},
		{"Neapolitan", deck.Neapolitan(), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New(tt.variant, rand.New(rand.NewSource(1)))

			for i := 0; i < TableauCount; i++ {
				p := tbl.Tableau(i)
				if p.Size() != i+1 {
					t.Errorf("tableau %d size = %d, want %d", i, p.Size(), i+1)
				}
				if p.FaceDownCount() != i {
					t.Errorf("tableau %d face-down = %d, want %d", i, p.FaceDownCount(), i)
				}
				top, ok := p.Peek()
				if !ok || top.FaceDown {
					t.Errorf("tableau %d top should be face-up", i)
				}
			}

			for i := 0; i < FoundationCount; i++ {
				if !tbl.Foundation(i).IsEmpty() {
					t.Errorf("foundation %d should start empty", i)
				}
			}
			if !tbl.Waste().IsEmpty() {
				t.Error("waste should start empty")
			}

			if got := tbl.Stock().Size(); got != tt.wantStock {
				t.Errorf("stock size = %d, want %d", got, tt.wantStock)
			}
			for _, c := range tbl.Stock().Cards() {
				if !c.FaceDown {
					t.Fatalf("stock card %s should be face-down", c)
				}
			}
		})
	}
}

func TestPileIndexing(t *testing.T) {
	tbl := New(deck.French(), rand.New(rand.NewSource(2)))

	wantKinds := map[int]pile.Kind{
		0: pile.Tableau, 6: pile.Tableau,
		7: pile.Foundation, 10: pile.Foundation,
		11: pile.Waste,
		12: pile.Stock,
	}
	for idx, kind := range wantKinds {
		p, err := tbl.Pile(idx)
		if err != nil {
			t.Fatalf("Pile(%d): %v", idx, err)
		}
		if p.Kind() != kind {
			t.Errorf("pile %d kind = %s, want %s", idx, p.Kind(), kind)
		}
	}

	if _, err := tbl.Pile(13); err == nil {
		t.Error("Pile(13) should fail")
	}
	if _, err := tbl.Pile(-1); err == nil {
		t.Error("Pile(-1) should fail")
	}
}

func TestPutToBase(t *testing.T) {
	tbl := New(deck.French(), rand.New(rand.NewSource(3)))

	tbl.Tableau(0).Clear()
	king := deck.Card{Rank: 13, Suit: deck.Spades}
	if !tbl.PutToBase(king, 0) {
		t.Fatal("king should be placeable on an empty tableau")
	}
	if tbl.PutToBase(deck.Card{Rank: 5, Suit: deck.Hearts}, 0) {
		t.Error("5 should not be placeable on a king")
	}
	if !tbl.PutToBase(deck.Card{Rank: 12, Suit: deck.Hearts}, 0) {
		t.Error("red queen should be placeable on a black king")
	}
	if tbl.PutToBase(king, -1) || tbl.PutToBase(king, 7) {
		t.Error("out-of-range tableau index should fail")
	}
}

func TestPutToFoundation(t *testing.T) {
	tbl := New(deck.French(), rand.New(rand.NewSource(4)))

	if tbl.PutToFoundation(deck.Card{Rank: 2, Suit: deck.Hearts}, 0) {
		t.Error("2 should not start a foundation")
	}
	if !tbl.PutToFoundation(deck.Card{Rank: 1, Suit: deck.Hearts}, 0) {
		t.Fatal("ace should start a foundation")
	}
	if !tbl.PutToFoundation(deck.Card{Rank: 2, Suit: deck.Hearts}, 0) {
		t.Error("2 of hearts should continue the hearts foundation")
	}
	if tbl.PutToFoundation(deck.Card{Rank: 3, Suit: deck.Clubs}, 0) {
		t.Error("wrong suit should be rejected")
	}
}

func TestReset(t *testing.T) {
	tbl := New(deck.French(), rand.New(rand.NewSource(5)))

	tbl.Foundation(0).Push(deck.Card{Rank: 1, Suit: deck.Hearts})
	tbl.Reset()

	total := 0
	for i := 0; i < PileCount; i++ {
		p, _ := tbl.Pile(i)
		total += p.Size()
	}
	if total != 52 {
		t.Errorf("total cards after reset = %d, want 52", total)
	}
	if !tbl.Foundation(0).IsEmpty() {
		t.Error("foundation should be empty after reset")
	}
	if tbl.Stock().Size() != 24 {
		t.Errorf("stock after reset = %d, want 24", tbl.Stock().Size())
	}
}
