// Package indexdb keeps a small sqlite index of finished episodes so runs
// can be listed and their trace and snapshot files found without scanning
// the data directory. It is a secondary index: the traces are the source of
// truth and the database can be rebuilt from them.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Index struct {
	db *sqlx.DB
}

// EpisodeRow is one finished (or in-progress) episode.
type EpisodeRow struct {
	EpisodeID    string  `db:"episode_id" json:"episode_id"`
	Seed         uint64  `db:"seed" json:"seed"`
	StartedAt    string  `db:"started_at" json:"started_at"`
	EndedAt      string  `db:"ended_at" json:"ended_at,omitempty"`
	Ticks        int     `db:"ticks" json:"ticks"`
	TotalReward  float64 `db:"total_reward" json:"total_reward"`
	DoneReason   string  `db:"done_reason" json:"done_reason,omitempty"`
	Achievements string  `db:"achievements" json:"achievements"` // JSON array of unlocked names
	TracePath    string  `db:"trace_path" json:"trace_path,omitempty"`
	SnapshotPath string  `db:"snapshot_path" json:"snapshot_path,omitempty"`
}

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS episodes (
	episode_id    TEXT PRIMARY KEY,
	seed          INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	ended_at      TEXT NOT NULL DEFAULT '',
	ticks         INTEGER NOT NULL DEFAULT 0,
	total_reward  REAL NOT NULL DEFAULT 0,
	done_reason   TEXT NOT NULL DEFAULT '',
	achievements  TEXT NOT NULL DEFAULT '[]',
	trace_path    TEXT NOT NULL DEFAULT '',
	snapshot_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_episodes_started ON episodes(started_at);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA busy_timeout=5000;",
	"PRAGMA temp_store=MEMORY;",
}

// Open creates or opens the index database at path.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("indexdb: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("indexdb: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("indexdb: init schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// StartEpisode registers a fresh episode.
func (ix *Index) StartEpisode(ctx context.Context, episodeID string, seed uint64, tracePath string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO episodes (episode_id, seed, started_at, trace_path)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(episode_id) DO NOTHING`,
		episodeID, int64(seed), time.Now().UTC().Format(time.RFC3339), tracePath)
	if err != nil {
		return fmt.Errorf("indexdb: start episode: %w", err)
	}
	return nil
}

// FinishEpisode records the terminal stats of an episode.
func (ix *Index) FinishEpisode(ctx context.Context, episodeID string, ticks int, totalReward float64, doneReason string, unlocked []string, snapshotPath string) error {
	if unlocked == nil {
		unlocked = []string{}
	}
	ach, err := json.Marshal(unlocked)
	if err != nil {
		return fmt.Errorf("indexdb: marshal achievements: %w", err)
	}
	_, err = ix.db.ExecContext(ctx,
		`UPDATE episodes
		 SET ended_at = ?, ticks = ?, total_reward = ?, done_reason = ?, achievements = ?, snapshot_path = ?
		 WHERE episode_id = ?`,
		time.Now().UTC().Format(time.RFC3339), ticks, totalReward, doneReason, string(ach), snapshotPath, episodeID)
	if err != nil {
		return fmt.Errorf("indexdb: finish episode: %w", err)
	}
	return nil
}

// Episode fetches one episode by id.
func (ix *Index) Episode(ctx context.Context, episodeID string) (EpisodeRow, error) {
	var row EpisodeRow
	err := ix.db.GetContext(ctx, &row,
		`SELECT * FROM episodes WHERE episode_id = ?`, episodeID)
	if err != nil {
		return row, fmt.Errorf("indexdb: episode %s: %w", episodeID, err)
	}
	return row, nil
}

// Episodes lists the most recent episodes, newest first.
func (ix *Index) Episodes(ctx context.Context, limit int) ([]EpisodeRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []EpisodeRow
	err := ix.db.SelectContext(ctx, &rows,
		`SELECT * FROM episodes ORDER BY started_at DESC, episode_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("indexdb: list episodes: %w", err)
	}
	return rows, nil
}

// SetMeta upserts a metadata key, used for build and catalog digests.
func (ix *Index) SetMeta(ctx context.Context, key, value string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("indexdb: set meta: %w", err)
	}
	return nil
}

// Meta fetches a metadata value; missing keys return an empty string.
func (ix *Index) Meta(ctx context.Context, key string) (string, error) {
	var v string
	err := ix.db.GetContext(ctx, &v, `SELECT value FROM meta WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("indexdb: meta %s: %w", key, err)
	}
	return v, nil
}
