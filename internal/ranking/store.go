// Package ranking persists ranking snapshots for points tables and leaderboards.
package ranking

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type store struct {
	db *sql.DB
	mu sync.Mutex
}

func New(db *sql.DB) RankingStore {
	return &store{db: db}
}

func (s *store) Rotate(ctx context.Context, board, fingerprint string, current map[string]int) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ranking rotation: %w", err)
	}
	defer tx.Rollback()

	var storedFingerprint, currentJSON string
	var previousJSON sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT fingerprint, current_json, previous_json FROM ranking_snapshots WHERE board_id = ?`, board,
	).Scan(&storedFingerprint, &currentJSON, &previousJSON)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read ranking snapshot: %w", err)
	}

	if err == nil && storedFingerprint == fingerprint {
		return decode(previousJSON.String)
	}

	encoded, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ranking snapshot: %w", err)
	}

	var previous map[string]int
	var newPrevious sql.NullString
	if currentJSON != "" {
		previous, err = decode(currentJSON)
		if err != nil {
			return nil, err
		}
		newPrevious = sql.NullString{String: currentJSON, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ranking_snapshots (board_id, fingerprint, current_json, previous_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(board_id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			current_json = excluded.current_json,
			previous_json = excluded.previous_json,
			updated_at = excluded.updated_at`,
		board, fingerprint, string(encoded), newPrevious, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write ranking snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ranking snapshot: %w", err)
	}

	log.Debug("Rotated ranking snapshot", "board", board, "fingerprint", fingerprint)
	return previous, nil
}

func decode(raw string) (map[string]int, error) {
	if raw == "" {
		return nil, nil
	}
	var positions map[string]int
	if err := json.Unmarshal([]byte(raw), &positions); err != nil {
		return nil, fmt.Errorf("failed to decode ranking snapshot: %w", err)
	}
	return positions, nil
}

// Fingerprint identifies a set of inputs independent of their order.
func Fingerprint(parts ...string) string {
	sorted := append([]string(nil), parts...)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:])
}
