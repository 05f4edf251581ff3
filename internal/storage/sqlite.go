// Package storage provides SQLite-based persistence for runs, banked coins
// and the leaderboard. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/hill-rider/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys in the kv table.
const (
	keyTotalCoins  = "total_coins"
	keyLeaderboard = "leaderboard"
)

// timeLayout is how created_at is written. sqliteLayout is what
// CURRENT_TIMESTAMP produces.
const (
	timeLayout   = time.RFC3339Nano
	sqliteLayout = "2006-01-02 15:04:05"
)

// Store manages the SQLite database connection for run persistence.
// It implements session.Bank.
type Store struct {
	db *sql.DB
}

// RunEntry is a stored run.
type RunEntry struct {
	ID int64
	session.Run
}

// leaderboardData is the JSON shape of the leaderboard value.
type leaderboardData struct {
	Scores []int `json:"scores"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			strategy TEXT NOT NULL,
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// get reads a kv value. A missing key returns ok == false.
func (s *Store) get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// TotalCoins implements session.Bank. It returns 0 before anything is banked.
func (s *Store) TotalCoins() (int, error) {
	v, ok, err := s.get(keyTotalCoins)
	if err != nil || !ok {
		return 0, err
	}
	total, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: corrupt %s %q: %w", keyTotalCoins, v, err)
	}
	return total, nil
}

// SetTotalCoins implements session.Bank.
func (s *Store) SetTotalCoins(total int) error {
	return s.set(keyTotalCoins, strconv.Itoa(total))
}

// Leaderboard implements session.Bank. The scores are stored as a JSON
// object holding an int list.
func (s *Store) Leaderboard() ([]int, error) {
	v, ok, err := s.get(keyLeaderboard)
	if err != nil || !ok {
		return nil, err
	}
	var data leaderboardData
	if err := json.UnmarshalFromString(v, &data); err != nil {
		return nil, fmt.Errorf("storage: corrupt %s: %w", keyLeaderboard, err)
	}
	return data.Scores, nil
}

// SetLeaderboard implements session.Bank.
func (s *Store) SetLeaderboard(scores []int) error {
	if scores == nil {
		scores = []int{}
	}
	v, err := json.MarshalToString(leaderboardData{Scores: scores})
	if err != nil {
		return fmt.Errorf("storage: cannot encode %s: %w", keyLeaderboard, err)
	}
	return s.set(keyLeaderboard, v)
}

// SaveRun implements session.Bank.
func (s *Store) SaveRun(run session.Run) error {
	_, err := s.InsertRun(run)
	return err
}

// InsertRun records a finished run and returns the row ID.
func (s *Store) InsertRun(run session.Run) (int64, error) {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (run_id, strategy, score, coins, distance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Strategy, run.Score, run.Coins, run.Distance,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best runs across all strategies, ordered by score
// descending.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, run_id, strategy, score, coins, distance, created_at
		 FROM runs
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, run_id, strategy, score, coins, distance, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// RunByID retrieves a run by its run ID. It returns nil when none exists.
func (s *Store) RunByID(runID string) (*RunEntry, error) {
	entries, err := s.queryRuns(
		`SELECT id, run_id, strategy, score, coins, distance, created_at
		 FROM runs
		 WHERE run_id = ?`,
		runID,
	)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Run.ID, &e.Strategy, &e.Score, &e.Coins, &e.Distance, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// StrategyStats contains aggregated statistics for one strategy.
type StrategyStats struct {
	Strategy     string
	Runs         int
	HighScore    int
	AvgScore     float64
	TotalCoins   int64
	BestDistance float64
	LastPlayed   time.Time
}

// Stats retrieves statistics for every strategy that has been played.
func (s *Store) Stats() (map[string]*StrategyStats, error) {
	rows, err := s.db.Query(
		`SELECT strategy, COUNT(*), MAX(score), AVG(score), SUM(coins), MAX(distance), MAX(created_at)
		 FROM runs
		 GROUP BY strategy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StrategyStats)
	for rows.Next() {
		var st StrategyStats
		var lastPlayed any
		if err := rows.Scan(&st.Strategy, &st.Runs, &st.HighScore, &st.AvgScore, &st.TotalCoins, &st.BestDistance, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Strategy] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes the run history. Banked coins and the leaderboard are
// kept.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and the string layouts we may read back.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{timeLayout, sqliteLayout} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

var _ session.Bank = (*Store)(nil)
