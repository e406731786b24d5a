// Package profile manages player profiles: the active profile's in-memory
// state, the session recording pipeline, and crash-recovery surfacing.
package profile

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/klondike-engine/internal/stats"
	"github.com/ramonehamilton/klondike-engine/internal/storage"
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

var (
	// ErrNoSuchProfile is returned when a profile id does not exist.
	ErrNoSuchProfile = errors.New("no such profile")

	// ErrProfileMismatch is returned when an outcome belongs to a profile
	// other than the active one.
	ErrProfileMismatch = errors.New("outcome profile does not match the active profile")

	// ErrSaveFailed is returned when the store could not persist the
	// profile document.
	ErrSaveFailed = errors.New("profile save failed")
)

// Service owns the active profile in memory. The store remains the
// persistent owner; every mutation is written through atomically.
type Service struct {
	store   *storage.ProfileStore
	archive *storage.Archive // optional; nil disables the session archive

	active *models.ProfileFile

	// recovered remembers dirty-shutdown session ids already surfaced in
	// this process, so a retried startup check does not re-announce them.
	recovered map[string]bool
}

// NewService creates the profile service and activates the guest profile,
// creating it on first run. A nil archive disables session archiving.
func NewService(store *storage.ProfileStore, archive *storage.Archive) (*Service, error) {
	s := &Service{
		store:     store,
		archive:   archive,
		recovered: make(map[string]bool),
	}
	guest, err := s.ensureGuest()
	if err != nil {
		return nil, err
	}
	s.active = guest
	return s, nil
}

// ensureGuest loads or creates the built-in guest profile.
func (s *Service) ensureGuest() (*models.ProfileFile, error) {
	if pf := s.store.LoadProfile(models.GuestProfileID); pf != nil {
		return pf, nil
	}

	now := time.Now().UTC()
	guest := &models.ProfileFile{
		Profile: models.Profile{
			ID:          models.GuestProfileID,
			DisplayName: "Guest",
			CreatedAt:   now,
			IsDefault:   true,
			IsGuest:     true,
			Preferences: models.DefaultPreferences(),
		},
		Stats: models.NewProfileStats(),
	}
	if !s.store.SaveProfile(guest) {
		return nil, fmt.Errorf("create guest profile: %w", ErrSaveFailed)
	}
	return guest, nil
}

// Active returns the active profile.
func (s *Service) Active() *models.Profile { return &s.active.Profile }

// ActiveStats returns the active profile's aggregate views.
func (s *Service) ActiveStats() models.ProfileStats { return s.active.Stats }

// RecentSessions returns the active profile's recent outcomes, oldest
// first.
func (s *Service) RecentSessions() []*models.SessionOutcome {
	out := make([]*models.SessionOutcome, len(s.active.RecentSessions))
	copy(out, s.active.RecentSessions)
	return out
}

// List returns summaries of every stored profile.
func (s *Service) List() []models.ProfileSummary {
	return s.store.LoadIndex()
}

// CreateProfile creates, persists, and activates a new profile.
func (s *Service) CreateProfile(displayName string) (*models.Profile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("display name cannot be empty")
	}

	now := time.Now().UTC()
	pf := &models.ProfileFile{
		Profile: models.Profile{
			ID:          newProfileID(),
			DisplayName: displayName,
			CreatedAt:   now,
			Preferences: models.DefaultPreferences(),
		},
		Stats: models.NewProfileStats(),
	}
	if !s.store.SaveProfile(pf) {
		return nil, fmt.Errorf("create profile %q: %w", displayName, ErrSaveFailed)
	}
	s.active = pf
	log.Printf("[Profile] Created profile %s (%s)", pf.Profile.ID, displayName)
	return &pf.Profile, nil
}

// SwitchProfile activates the profile with the given id.
func (s *Service) SwitchProfile(id string) error {
	if s.active != nil && s.active.Profile.ID == id {
		return nil
	}
	pf := s.store.LoadProfile(id)
	if pf == nil {
		return fmt.Errorf("switch to %s: %w", id, ErrNoSuchProfile)
	}
	s.active = pf
	log.Printf("[Profile] Switched to profile %s", id)
	return nil
}

// DeleteProfile removes a profile. The guest profile is protected; deleting
// the active profile falls back to the guest.
func (s *Service) DeleteProfile(id string) error {
	if err := s.store.DeleteProfile(id); err != nil {
		return err
	}
	log.Printf("[Profile] Deleted profile %s", id)
	if s.active != nil && s.active.Profile.ID == id {
		guest, err := s.ensureGuest()
		if err != nil {
			return err
		}
		s.active = guest
	}
	return nil
}

// BeginSession writes the active-session marker for a newly started game.
func (s *Service) BeginSession(sessionID string, startTime time.Time) {
	s.store.WriteActiveSession(models.ActiveSession{
		SessionID: sessionID,
		ProfileID: s.active.Profile.ID,
		StartTime: startTime,
	})
}

// RecordSession runs the recording pipeline for one finished game:
// validate, check profile ownership, fold the aggregates, append to the
// recent list, stamp last_played, and save atomically. The archive append
// is best-effort. The active-session marker is cleared on success.
func (s *Service) RecordSession(outcome *models.SessionOutcome) error {
	if err := stats.ValidateSession(outcome); err != nil {
		return err
	}
	if outcome.ProfileID != s.active.Profile.ID {
		return fmt.Errorf("outcome for %s, active is %s: %w",
			outcome.ProfileID, s.active.Profile.ID, ErrProfileMismatch)
	}

	stats.UpdateFromSession(&s.active.Stats, outcome)

	s.active.RecentSessions = append(s.active.RecentSessions, outcome)
	if len(s.active.RecentSessions) > models.RecentSessionsCap {
		s.active.RecentSessions = s.active.RecentSessions[len(s.active.RecentSessions)-models.RecentSessionsCap:]
	}
	s.active.Profile.LastPlayed = outcome.Timestamp

	if !s.store.SaveProfile(s.active) {
		return fmt.Errorf("record session %s: %w", outcome.SessionID, ErrSaveFailed)
	}

	if s.archive != nil {
		if err := s.archive.AppendSession(outcome); err != nil {
			log.Printf("[Profile] Failed to archive session %s: %v", outcome.SessionID, err)
		}
	}

	s.store.ClearActiveSession()
	return nil
}

// CheckDirtyShutdown returns the leftover active-session marker on the
// first call after an unclean exit and nil afterwards, so retried startup
// flows do not double-count the recovery.
func (s *Service) CheckDirtyShutdown() *models.ActiveSession {
	marker := s.store.ReadActiveSession()
	if marker == nil {
		return nil
	}
	if s.recovered[marker.SessionID] {
		return nil
	}
	s.recovered[marker.SessionID] = true
	log.Printf("[Profile] Detected dirty shutdown of session %s", marker.SessionID)
	return marker
}

// RecalculateStats rebuilds the active profile's aggregate views from the
// archived session history and saves the result. It requires the archive.
func (s *Service) RecalculateStats() error {
	if s.archive == nil {
		return fmt.Errorf("recalculate requires the session archive")
	}
	sessions, err := s.archive.SessionsByProfile(s.active.Profile.ID)
	if err != nil {
		return fmt.Errorf("load archived sessions: %w", err)
	}
	s.active.Stats = stats.RecalculateAll(sessions)
	if !s.store.SaveProfile(s.active) {
		return fmt.Errorf("save recalculated stats: %w", ErrSaveFailed)
	}
	log.Printf("[Profile] Recalculated stats for %s from %d sessions", s.active.Profile.ID, len(sessions))
	return nil
}

// newProfileID generates a profile id: "profile_" + 8 lowercase hex chars.
func newProfileID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "profile_" + hex[:8]
}
