// Package storage persists player profiles and session history. Profiles
// live as one JSON document per profile plus a rebuildable index; every
// write goes through write-temp-then-rename so a crash never leaves a
// partial file. An optional SQLite archive keeps the complete session
// history beyond the capped recent list.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// ErrGuestProtected is returned when a caller tries to delete the guest
// profile. The check runs before any I/O.
var ErrGuestProtected = errors.New("the guest profile cannot be deleted")

const (
	profilesDirName  = "profiles"
	sessionsDirName  = ".sessions"
	indexFileName    = "profiles_index.json"
	markerFileName   = "active_session.json"
	profileFileExt   = ".json"
	profileTmpSuffix = ".tmp"
)

// ProfileStore is the file-backed persistence layer for profiles.
type ProfileStore struct {
	profilesDir string
	sessionsDir string
}

// NewProfileStore creates the store rooted at dataDir, creating the
// profiles and sessions directories if needed.
func NewProfileStore(dataDir string) (*ProfileStore, error) {
	profilesDir := filepath.Join(dataDir, profilesDirName)
	sessionsDir := filepath.Join(dataDir, sessionsDirName)
	for _, dir := range []string{profilesDir, sessionsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}
	return &ProfileStore{profilesDir: profilesDir, sessionsDir: sessionsDir}, nil
}

// ProfilePath returns the on-disk path of a profile document.
func (s *ProfileStore) ProfilePath(id string) string {
	return filepath.Join(s.profilesDir, id+profileFileExt)
}

// writeAtomic marshals v and writes it to path via a sibling temp file and
// rename. A crash at any point leaves either the previous intact file or
// the temp file, never a partial target.
func (s *ProfileStore) writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmpPath := path + profileTmpSuffix
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file over %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SaveProfile writes the full profile document atomically and refreshes
// the index. Environmental failures are logged and reported as false.
func (s *ProfileStore) SaveProfile(pf *models.ProfileFile) bool {
	if pf == nil || pf.Profile.ID == "" {
		log.Printf("[Storage] Refusing to save profile without an id")
		return false
	}
	if err := s.writeAtomic(s.ProfilePath(pf.Profile.ID), pf); err != nil {
		log.Printf("[Storage] Failed to save profile %s: %v", pf.Profile.ID, err)
		return false
	}
	if _, ok := s.RebuildIndex(); !ok {
		log.Printf("[Storage] Saved profile %s but index rebuild failed", pf.Profile.ID)
	}
	return true
}

// LoadProfile reads one profile document. Missing or corrupt files return
// nil; corruption is logged and left for the caller to decide on.
func (s *ProfileStore) LoadProfile(id string) *models.ProfileFile {
	data, err := os.ReadFile(s.ProfilePath(id))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Storage] Failed to read profile %s: %v", id, err)
		}
		return nil
	}

	var pf models.ProfileFile
	if err := json.Unmarshal(data, &pf); err != nil {
		log.Printf("[Storage] Profile %s is corrupt: %v", id, err)
		return nil
	}
	return &pf
}

// DeleteProfile removes a profile file. Deleting the guest profile is a
// programmer error and fails before any I/O.
func (s *ProfileStore) DeleteProfile(id string) error {
	if id == models.GuestProfileID {
		return ErrGuestProtected
	}
	if err := os.Remove(s.ProfilePath(id)); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if _, ok := s.RebuildIndex(); !ok {
		log.Printf("[Storage] Deleted profile %s but index rebuild failed", id)
	}
	return nil
}

// ListProfileIDs scans the profiles directory for profile documents.
func (s *ProfileStore) ListProfileIDs() ([]string, error) {
	entries, err := os.ReadDir(s.profilesDir)
	if err != nil {
		return nil, fmt.Errorf("read profiles directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, profileFileExt) {
			continue
		}
		if name == indexFileName || strings.HasSuffix(name, profileTmpSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, profileFileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// RebuildIndex scans every profile file and rewrites the index from them.
// The index is a cache: it can always be reconstructed.
func (s *ProfileStore) RebuildIndex() ([]models.ProfileSummary, bool) {
	ids, err := s.ListProfileIDs()
	if err != nil {
		log.Printf("[Storage] Failed to scan profiles for index: %v", err)
		return nil, false
	}

	summaries := make([]models.ProfileSummary, 0, len(ids))
	for _, id := range ids {
		pf := s.LoadProfile(id)
		if pf == nil {
			continue
		}
		summaries = append(summaries, models.ProfileSummary{
			ID:          pf.Profile.ID,
			DisplayName: pf.Profile.DisplayName,
			LastPlayed:  pf.Profile.LastPlayed,
			IsDefault:   pf.Profile.IsDefault,
			IsGuest:     pf.Profile.IsGuest,
			TotalGames:  pf.Stats.Global.TotalGames,
		})
	}

	indexPath := filepath.Join(s.profilesDir, indexFileName)
	if err := s.writeAtomic(indexPath, summaries); err != nil {
		log.Printf("[Storage] Failed to write profiles index: %v", err)
		return summaries, false
	}
	return summaries, true
}

// LoadIndex reads the profiles index, rebuilding it when missing or
// corrupt.
func (s *ProfileStore) LoadIndex() []models.ProfileSummary {
	data, err := os.ReadFile(filepath.Join(s.profilesDir, indexFileName))
	if err != nil {
		summaries, _ := s.RebuildIndex()
		return summaries
	}

	var summaries []models.ProfileSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		log.Printf("[Storage] Profiles index is corrupt, rebuilding: %v", err)
		summaries, _ = s.RebuildIndex()
		return summaries
	}
	return summaries
}

// markerPath returns the active-session marker location.
func (s *ProfileStore) markerPath() string {
	return filepath.Join(s.sessionsDir, markerFileName)
}

// WriteActiveSession writes the crash-recovery marker atomically.
func (s *ProfileStore) WriteActiveSession(marker models.ActiveSession) bool {
	if err := s.writeAtomic(s.markerPath(), marker); err != nil {
		log.Printf("[Storage] Failed to write active session marker: %v", err)
		return false
	}
	return true
}

// ClearActiveSession removes the marker at clean game end.
func (s *ProfileStore) ClearActiveSession() bool {
	err := os.Remove(s.markerPath())
	if err != nil && !os.IsNotExist(err) {
		log.Printf("[Storage] Failed to clear active session marker: %v", err)
		return false
	}
	return true
}

// ReadActiveSession returns the marker if present, nil otherwise. Presence
// on startup indicates a prior dirty shutdown.
func (s *ProfileStore) ReadActiveSession() *models.ActiveSession {
	data, err := os.ReadFile(s.markerPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[Storage] Failed to read active session marker: %v", err)
		}
		return nil
	}

	var marker models.ActiveSession
	if err := json.Unmarshal(data, &marker); err != nil {
		log.Printf("[Storage] Active session marker is corrupt: %v", err)
		return nil
	}
	return &marker
}
