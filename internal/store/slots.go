package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Lookup returns the value stored under key. ok is false when the slot
// has never been written.
func (s *Store) Lookup(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the whole value under key.
func (s *Store) Put(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put slot %q: %w", key, err)
	}
	return nil
}

// All lists every slot ordered by key.
func (s *Store) All() ([]Slot, error) {
	rows, err := s.db.Query(`SELECT key, value, updated_at FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var updatedAt string
		if err := rows.Scan(&sl.Key, &sl.Value, &updatedAt); err != nil {
			return nil, err
		}
		sl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}
