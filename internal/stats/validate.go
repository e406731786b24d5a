package stats

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// ErrInvalidSession is returned for outcomes that fail validation and must
// not be folded into the aggregate views.
var ErrInvalidSession = errors.New("invalid session outcome")

// ValidateSession checks an outcome for internal consistency before it is
// recorded: elapsed time and scores must be non-negative and the timer
// fields must agree with each other.
func ValidateSession(o *models.SessionOutcome) error {
	if o == nil {
		return fmt.Errorf("nil outcome: %w", ErrInvalidSession)
	}
	if !o.EndReason.Valid() {
		return fmt.Errorf("unknown end reason %q: %w", o.EndReason, ErrInvalidSession)
	}
	if o.ElapsedSeconds < 0 {
		return fmt.Errorf("negative elapsed time %.1f: %w", o.ElapsedSeconds, ErrInvalidSession)
	}
	if o.TimerEnabled && o.TimerLimit <= 0 {
		return fmt.Errorf("timer enabled with limit %d: %w", o.TimerLimit, ErrInvalidSession)
	}
	if o.OvertimeSeconds < 0 {
		return fmt.Errorf("negative overtime %.1f: %w", o.OvertimeSeconds, ErrInvalidSession)
	}
	if o.Score.Total < 0 {
		return fmt.Errorf("negative score %d: %w", o.Score.Total, ErrInvalidSession)
	}
	return nil
}
