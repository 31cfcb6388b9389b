// Package state persists small JSON documents across runs: pairing
// credentials and session selections live here so setup only happens once.
package state

import (
	"database/sql"
	"sync"
	"time"
)

// Store is a generic JSON document store keyed by (kind, id).
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a store on an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get retrieves the payload for a key. Returns nil when absent.
func (s *Store) Get(kind, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow(`
		SELECT payload FROM resource_state WHERE kind = ? AND id = ?
	`, kind, id).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Set stores the payload for a key, replacing any previous value.
func (s *Store) Set(kind, id string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Unix()
	_, err := s.db.Exec(`
		INSERT INTO resource_state (kind, id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, kind, id, payload, now)
	return err
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM resource_state WHERE kind = ? AND id = ?`, kind, id)
	return err
}

// Clear removes all state of a kind.
func (s *Store) Clear(kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM resource_state WHERE kind = ?`, kind)
	return err
}
