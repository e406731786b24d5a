// Package scoring implements the event log and score computation of the
// solitaire engine: base event points, progressive draw and recycle
// penalties, the provisional score with difficulty multiplier, the time
// bonus, and the quality-weighted victory bonus.
package scoring

import "time"

// EventKind enumerates the scoring events a game can emit. The string
// values double as keys into the configured event point table.
type EventKind string

const (
	WasteToFoundation   EventKind = "WASTE_TO_FOUNDATION"
	TableauToFoundation EventKind = "TABLEAU_TO_FOUNDATION"
	CardRevealed        EventKind = "CARD_REVEALED"
	FoundationToTableau EventKind = "FOUNDATION_TO_TABLEAU"
	StockDraw           EventKind = "STOCK_DRAW"
	RecycleWaste        EventKind = "RECYCLE_WASTE"
	InvalidMove         EventKind = "INVALID_MOVE"
	AutoMove            EventKind = "AUTO_MOVE"
	UndoMove            EventKind = "UNDO_MOVE"
	HintUsed            EventKind = "HINT_USED"
)

// Event is one immutable entry of a game's score log. Points are captured
// at emission time, so progressive penalties stay correct under any
// re-ordering or replay of the log.
type Event struct {
	Kind      EventKind `json:"kind"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
	Context   string    `json:"context,omitempty"`
}
