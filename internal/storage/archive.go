package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// Archive is the append-only SQLite mirror of every finished session.
// The per-profile JSON files cap recent_sessions at 50; the archive keeps
// the complete history so the aggregate views can be rebuilt from scratch
// after corruption.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the archive database at path and brings
// its schema up to date. Use ":memory:" for tests.
func OpenArchive(path string) (*Archive, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}

		mgr, err := NewMigrationManager(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration manager: %w", err)
		}
		if err := mgr.Up(); err != nil {
			if closeErr := mgr.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to close migration manager after error: %w (original error: %v)", closeErr, err)
			}
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if err := mgr.Close(); err != nil {
			return nil, fmt.Errorf("failed to close migration manager: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to close archive after ping error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	a := &Archive{db: conn}
	if path == ":memory:" {
		if err := a.createSchema(); err != nil {
			if closeErr := conn.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to close archive after schema error: %w (original error: %v)", closeErr, err)
			}
			return nil, err
		}
	}
	return a, nil
}

// createSchema applies the schema directly for in-memory databases, where
// the file-based migration manager cannot reach the connection.
func (a *Archive) createSchema() error {
	data, err := migrationsFS.ReadFile("migrations/0001_create_sessions.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := a.db.Exec(string(data)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the archive database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// AppendSession records one finished session. The full outcome document is
// stored alongside the queryable columns.
func (a *Archive) AppendSession(o *models.SessionOutcome) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	query := `
		INSERT INTO sessions (
			session_id, profile_id, timestamp, end_reason,
			difficulty, deck_variant, elapsed_seconds, score_total, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`
	_, err = a.db.Exec(query,
		o.SessionID,
		o.ProfileID,
		o.Timestamp,
		string(o.EndReason),
		o.Difficulty,
		o.DeckVariant,
		o.ElapsedSeconds,
		o.Score.Total,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", o.SessionID, err)
	}
	return nil
}

// SessionsByProfile returns every archived session of a profile in play
// order (oldest first).
func (a *Archive) SessionsByProfile(profileID string) ([]*models.SessionOutcome, error) {
	rows, err := a.db.Query(
		`SELECT outcome FROM sessions WHERE profile_id = ? ORDER BY timestamp ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	var outcomes []*models.SessionOutcome
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		var o models.SessionOutcome
		if err := json.Unmarshal([]byte(doc), &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		outcomes = append(outcomes, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return outcomes, nil
}

// CountByProfile returns how many sessions are archived for a profile.
func (a *Archive) CountByProfile(profileID string) (int, error) {
	var count int
	err := a.db.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE profile_id = ?`,
		profileID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
