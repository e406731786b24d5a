// Package events distributes announce notifications from the game core to
// presentation-layer observers (screen reader, GUI, logs). The core calls
// the dispatcher; it has no dependency on any observer implementation.
package events

import (
	"log"
	"sync"
	"time"

	"github.com/ramonehamilton/klondike-engine/internal/deck"
)

// Announcer is implemented by presentation-layer subscribers that want to
// voice or display game feedback.
type Announcer interface {
	// AnnounceMove reports the result of a player action.
	AnnounceMove(success bool, message string)

	// AnnounceCard reports a newly revealed or drawn card.
	AnnounceCard(card deck.Card)

	// AnnounceVictory reports a won game with its move count and duration.
	AnnounceVictory(moves int, elapsed time.Duration)

	// AnnounceError reports a failure the player should hear about.
	AnnounceError(message string)

	// Name returns a human-readable name for logging.
	Name() string
}

// Dispatcher fans announce calls out to registered announcers. Announcers
// are notified sequentially in registration order; a panicking announcer
// must not take the game down, so notification failures are isolated.
type Dispatcher struct {
	announcers []Announcer
	mu         sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{announcers: make([]Announcer, 0)}
}

// Register adds an announcer.
func (d *Dispatcher) Register(a Announcer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.announcers = append(d.announcers, a)
	log.Printf("[Events] Registered announcer: %s", a.Name())
}

// Unregister removes an announcer.
func (d *Dispatcher) Unregister(a Announcer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, registered := range d.announcers {
		if registered == a {
			d.announcers[i] = d.announcers[len(d.announcers)-1]
			d.announcers = d.announcers[:len(d.announcers)-1]
			log.Printf("[Events] Unregistered announcer: %s", a.Name())
			return
		}
	}
}

// AnnouncerCount returns the number of registered announcers.
func (d *Dispatcher) AnnouncerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.announcers)
}

// Move notifies all announcers of a player action result.
func (d *Dispatcher) Move(success bool, message string) {
	for _, a := range d.snapshot() {
		d.notify(a, func() { a.AnnounceMove(success, message) })
	}
}

// Card notifies all announcers of a revealed or drawn card.
func (d *Dispatcher) Card(card deck.Card) {
	for _, a := range d.snapshot() {
		d.notify(a, func() { a.AnnounceCard(card) })
	}
}

// Victory notifies all announcers of a won game.
func (d *Dispatcher) Victory(moves int, elapsed time.Duration) {
	for _, a := range d.snapshot() {
		d.notify(a, func() { a.AnnounceVictory(moves, elapsed) })
	}
}

// Error notifies all announcers of a failure.
func (d *Dispatcher) Error(message string) {
	for _, a := range d.snapshot() {
		d.notify(a, func() { a.AnnounceError(message) })
	}
}

func (d *Dispatcher) snapshot() []Announcer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Announcer, len(d.announcers))
	copy(out, d.announcers)
	return out
}

func (d *Dispatcher) notify(a Announcer, call func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Events] Announcer %s panicked: %v", a.Name(), r)
		}
	}()
	call()
}
