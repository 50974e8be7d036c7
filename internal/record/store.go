// Package record is the generic persistence layer behind every domain service:
// one Store per collection of JSON documents in the shared records table.
package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/cricket-hub/internal/apperr"
)

var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store holds an ordered collection of T. P is always *T; it is spelled out so
// the store can reach the embedded Meta without reflection.
type Store[T any, P interface {
	*T
	Record
}] struct {
	db         *sql.DB
	collection string
	mu         sync.RWMutex
	now        func() time.Time
}

// New creates a Store for the named collection.
func New[T any, P interface {
	*T
	Record
}](db *sql.DB, collection string) *Store[T, P] {
	return &Store[T, P]{
		db:         db,
		collection: collection,
		now:        time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (s *Store[T, P]) WithClock(now func() time.Time) *Store[T, P] {
	s.now = now
	return s
}

func (s *Store[T, P]) Collection() string {
	return s.collection
}

// Insert assigns a fresh id, version and timestamps to rec and appends it.
func (s *Store[T, P]) Insert(ctx context.Context, rec *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored := *rec
	meta := P(&stored).RecordMeta()
	meta.ID = uuid.NewString()
	meta.Version = 1
	meta.CreatedAt = now
	meta.UpdatedAt = now

	body, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s record: %w", s.collection, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, version, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.collection, meta.ID, meta.Version, string(body), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s record: %w", s.collection, err)
	}

	log.Debug("Inserted record", "collection", s.collection, "id", meta.ID)
	return s.decode(body)
}

// Get returns the record with the given id, or nil when there is none.
func (s *Store[T, P]) Get(ctx context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE collection = ? AND id = ?`, s.collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s record: %w", s.collection, err)
	}
	return s.decode([]byte(body))
}

// Require is Get for callers that treat absence as a failure.
func (s *Store[T, P]) Require(ctx context.Context, id string) (*T, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound(s.collection, id)
	}
	return rec, nil
}

// List returns every record whose top-level JSON field equals value, in insertion order.
func (s *Store[T, P]) List(ctx context.Context, field, value string) ([]T, error) {
	if !fieldPattern.MatchString(field) {
		return nil, fmt.Errorf("invalid field name %q for %s", field, s.collection)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx,
		`SELECT body FROM records WHERE collection = ? AND json_extract(body, ?) = ? ORDER BY seq`,
		s.collection, "$."+field, value,
	)
}

// All returns every record in insertion order.
func (s *Store[T, P]) All(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(ctx, `SELECT body FROM records WHERE collection = ? ORDER BY seq`, s.collection)
}

// Filter returns the records for which keep reports true, in insertion order.
func (s *Store[T, P]) Filter(ctx context.Context, keep func(*T) bool) ([]T, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]T, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			kept = append(kept, all[i])
		}
	}
	return kept, nil
}

// Count returns the number of records in the collection.
func (s *Store[T, P]) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection = ?`, s.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", s.collection, err)
	}
	return n, nil
}

// Update applies a read-modify-write to the record with the given id inside
// one transaction. An error from apply aborts the update without writing.
func (s *Store[T, P]) Update(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	return s.UpdateVersion(ctx, id, 0, apply)
}

// UpdateVersion is Update with an optimistic concurrency check: when expected
// is non-zero the stored version must match it.
func (s *Store[T, P]) UpdateVersion(ctx context.Context, id string, expected int, apply func(*T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin %s update: %w", s.collection, err)
	}
	defer tx.Rollback()

	var body string
	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT body, version FROM records WHERE collection = ? AND id = ?`, s.collection, id,
	).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(s.collection, id)
		}
		return nil, fmt.Errorf("failed to read %s record: %w", s.collection, err)
	}
	if expected != 0 && expected != version {
		return nil, apperr.Conflict(s.collection, id, expected, version)
	}

	var current T
	if err := json.Unmarshal([]byte(body), &current); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", s.collection, err)
	}
	createdAt := P(&current).RecordMeta().CreatedAt

	if err := apply(&current); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	meta := P(&current).RecordMeta()
	meta.ID = id
	meta.Version = version + 1
	meta.CreatedAt = createdAt
	meta.UpdatedAt = now

	updated, err := json.Marshal(&current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s record: %w", s.collection, err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE records SET body = ?, version = ?, updated_at = ? WHERE collection = ? AND id = ? AND version = ?`,
		string(updated), meta.Version, now.UnixMilli(), s.collection, id, version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record: %w", s.collection, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, apperr.Conflict(s.collection, id, version, -1)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s update: %w", s.collection, err)
	}

	log.Debug("Updated record", "collection", s.collection, "id", id, "version", meta.Version)
	return s.decode(updated)
}

// Delete removes the record with the given id. It reports whether a record
// was removed.
func (s *Store[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, s.collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s record: %w", s.collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete %s record: %w", s.collection, err)
	}
	if n > 0 {
		log.Debug("Deleted record", "collection", s.collection, "id", id)
	}
	return n > 0, nil
}

func (s *Store[T, P]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", s.collection, err)
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", s.collection, err)
		}
		var rec T
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			log.Error("Failed to decode record, skipping", "collection", s.collection, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store[T, P]) decode(body []byte) (*T, error) {
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", s.collection, err)
	}
	return &rec, nil
}
