package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := OpenArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := archive.Close(); err != nil {
			t.Errorf("failed to close archive: %v", err)
		}
	})
	return archive
}

func archivedOutcome(sessionID, profileID string, when time.Time) *models.SessionOutcome {
	return &models.SessionOutcome{
		SessionID:      sessionID,
		ProfileID:      profileID,
		Timestamp:      when,
		GameVersion:    models.GameVersion,
		EndReason:      models.EndVictory,
		ScoringEnabled: true,
		Score:          models.ScoreBreakdown{Total: 950},
		Difficulty:     2,
		DeckVariant:    "french",
		DrawCount:      1,
		ElapsedSeconds: 312.5,
		Moves:          140,
	}
}

func TestArchiveAppendAndQuery(t *testing.T) {
	archive := newTestArchive(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		o := archivedOutcome(fmt.Sprintf("session_%08d", i), models.GuestProfileID, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, archive.AppendSession(o))
	}
	other := archivedOutcome("session_other001", "profile_xyz", base)
	require.NoError(t, archive.AppendSession(other))

	sessions, err := archive.SessionsByProfile(models.GuestProfileID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	// Oldest first.
	assert.Equal(t, "session_00000000", sessions[0].SessionID)
	assert.Equal(t, "session_00000002", sessions[2].SessionID)

	// The full document round-trips through the outcome column.
	assert.Equal(t, 950, sessions[0].Score.Total)
	assert.Equal(t, 140, sessions[0].Moves)
	assert.Equal(t, models.EndVictory, sessions[0].EndReason)

	count, err := archive.CountByProfile(models.GuestProfileID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = archive.CountByProfile("profile_unknown")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestArchiveAppendIsIdempotent(t *testing.T) {
	archive := newTestArchive(t)

	o := archivedOutcome("session_dupe0001", models.GuestProfileID, time.Now().UTC())
	require.NoError(t, archive.AppendSession(o))
	require.NoError(t, archive.AppendSession(o), "re-appending the same session must be a no-op")

	count, err := archive.CountByProfile(models.GuestProfileID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestArchiveOnDisk(t *testing.T) {
	path := t.TempDir() + "/history/sessions.db"

	archive, err := OpenArchive(path)
	require.NoError(t, err)
	require.NoError(t, archive.AppendSession(archivedOutcome("session_disk0001", models.GuestProfileID, time.Now().UTC())))
	require.NoError(t, archive.Close())

	// Reopen: migrations are idempotent and the row survives.
	archive, err = OpenArchive(path)
	require.NoError(t, err)
	defer func() {
		if err := archive.Close(); err != nil {
			t.Errorf("failed to close archive: %v", err)
		}
	}()

	count, err := archive.CountByProfile(models.GuestProfileID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
