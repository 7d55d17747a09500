package repositories

import (
	"database/sql"
	"fmt"
)

// SessionRepository persists the single bearer token.
//
// The session table is constrained to one slot: writing replaces any prior
// token, mirroring the "exactly one live session" contract of the store.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores the token, replacing any existing one.
func (r *SessionRepository) Save(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to persist empty token")
	}

	query := `
		INSERT INTO session (slot, token) VALUES (0, ?)
		ON CONFLICT(slot) DO UPDATE SET token = excluded.token, saved_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Load returns the persisted token, or "" when no session is stored.
func (r *SessionRepository) Load() (string, error) {
	var token string
	err := r.db.QueryRow("SELECT token FROM session WHERE slot = 0").Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Clear removes the persisted token. Clearing an empty store is a no-op.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM session WHERE slot = 0"); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
