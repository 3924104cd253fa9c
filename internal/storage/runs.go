package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrAmbiguousRun is returned when an ID prefix matches more than one run.
var ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")

// Run is a finished game together with its encoded replay.
type Run struct {
	ID        string
	GameID    string
	Seed      uint32
	Tier      string
	Score     int
	Lines     int
	Pieces    int
	Ticks     uint64
	TopOut    string
	Replay    []byte // YAML replay log; empty in listings
	CreatedAt time.Time
}

// ShortID returns the first 8 characters of the run ID.
func (r Run) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// SaveRun stores a run. A missing ID is generated.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, game_id, seed, tier, score, lines, pieces, ticks, top_out, replay)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GameID, int64(r.Seed), r.Tier, r.Score, r.Lines, r.Pieces, int64(r.Ticks), r.TopOut, r.Replay,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// RecentRuns lists the latest runs, newest first, without replay data.
// An empty gameID lists every game.
func (s *Store) RecentRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, seed, tier, score, lines, pieces, ticks, top_out, created_at
		 FROM runs
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var seed, ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &seed, &r.Tier, &r.Score, &r.Lines, &r.Pieces, &ticks, &r.TopOut, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.Seed = uint32(seed)
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunByID loads a run including its replay. id may be a unique prefix of
// the full ID. Returns nil, nil when nothing matches.
func (s *Store) RunByID(id string) (*Run, error) {
	if id == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, seed, tier, score, lines, pieces, ticks, top_out, replay, created_at
		 FROM runs
		 WHERE substr(id, 1, length(?)) = ?
		 LIMIT 2`,
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		var r Run
		var seed, ticks int64
		var replay []byte
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &seed, &r.Tier, &r.Score, &r.Lines, &r.Pieces, &ticks, &r.TopOut, &replay, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.Seed = uint32(seed)
		r.Ticks = uint64(ticks)
		r.Replay = replay
		r.CreatedAt = parseTime(createdAt)
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, id)
	}
}

// DeleteRun removes a run. Deleting a missing run is not an error.
func (s *Store) DeleteRun(id string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	return nil
}

