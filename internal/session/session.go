// Package session tracks the coin and score economy of a run and persists
// the results through a Bank.
package session

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/hill-rider/internal/config"
)

// Run is the record of one finished run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Strategy  string    `json:"strategy" yaml:"strategy"`
	Score     int       `json:"score" yaml:"score"`
	Coins     int       `json:"coins" yaml:"coins"`
	Distance  float64   `json:"distance" yaml:"distance"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Bank persists state that outlives a run.
type Bank interface {
	TotalCoins() (int, error)
	SetTotalCoins(total int) error
	Leaderboard() ([]int, error)
	SetLeaderboard(scores []int) error
	SaveRun(run Run) error
}

// Session is the explicit per-player context: run counters plus the
// persisted totals loaded at construction.
type Session struct {
	cfg      config.SessionConfig
	bank     Bank
	strategy string
	now      func() time.Time

	coins    int
	position float64

	totalCoins  int
	leaderboard []int
	lastRank    int
}

// New validates cfg, loads the persisted totals from bank and starts a run.
// A nil bank keeps everything in memory.
func New(cfg config.SessionConfig, bank Bank, strategy string) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bank == nil {
		bank = NewMemoryBank()
	}

	total, err := bank.TotalCoins()
	if err != nil {
		return nil, fmt.Errorf("session: load total coins: %w", err)
	}
	board, err := bank.Leaderboard()
	if err != nil {
		return nil, fmt.Errorf("session: load leaderboard: %w", err)
	}

	return &Session{
		cfg:         cfg,
		bank:        bank,
		strategy:    strategy,
		now:         time.Now,
		totalCoins:  total,
		leaderboard: trimBoard(board, cfg.LeaderboardSize),
	}, nil
}

// AddCoins adds amount to the current run.
func (s *Session) AddCoins(amount int) {
	s.coins += amount
}

// CollectCoin credits one collected coin at the configured value.
func (s *Session) CollectCoin() {
	s.AddCoins(s.cfg.CoinValue)
}

// Track records the rider's current x-coordinate.
func (s *Session) Track(x float64) {
	s.position = x
}

// Coins returns the coins earned in the current run.
func (s *Session) Coins() int {
	return s.coins
}

// Distance returns the forward progress of the current run.
func (s *Session) Distance() float64 {
	return math.Max(0, s.position)
}

// Score returns the live score: distance times the multiplier, floored,
// plus run coins.
func (s *Session) Score() int {
	return int(math.Floor(s.Distance()*s.cfg.DistanceMultiplier)) + s.coins
}

// TotalCoins returns the coins banked across all finished runs.
func (s *Session) TotalCoins() int {
	return s.totalCoins
}

// Leaderboard returns a copy of the top scores, highest first.
func (s *Session) Leaderboard() []int {
	out := make([]int, len(s.leaderboard))
	copy(out, s.leaderboard)
	return out
}

// LastRank returns the leaderboard rank the last ended run took, 1-based,
// or 0 when it did not place.
func (s *Session) LastRank() int {
	return s.lastRank
}

// EndRun banks the run coins, updates the leaderboard, records the run and
// resets the run counters. The run is reset even when persisting fails.
func (s *Session) EndRun() (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Strategy:  s.strategy,
		Score:     s.Score(),
		Coins:     s.coins,
		Distance:  s.Distance(),
		CreatedAt: s.now().UTC(),
	}
	defer s.StartNewRun()
	s.lastRank = 0

	var errs []error
	s.totalCoins += run.Coins
	if err := s.bank.SetTotalCoins(s.totalCoins); err != nil {
		errs = append(errs, fmt.Errorf("session: save total coins: %w", err))
	}

	if run.Score > 0 {
		s.leaderboard, s.lastRank = InsertScore(s.leaderboard, run.Score, s.cfg.LeaderboardSize)
		if err := s.bank.SetLeaderboard(s.Leaderboard()); err != nil {
			errs = append(errs, fmt.Errorf("session: save leaderboard: %w", err))
		}
	}

	if err := s.bank.SaveRun(run); err != nil {
		errs = append(errs, fmt.Errorf("session: save run: %w", err))
	}
	return run, errors.Join(errs...)
}

// StartNewRun clears the run counters. Persisted totals are kept.
func (s *Session) StartNewRun() {
	s.coins = 0
	s.position = 0
}

// InsertScore returns a new leaderboard with score added, sorted highest
// first and cut to limit entries. Scores <= 0 are never kept. The second
// result is the 1-based rank the score took, or 0 when it did not place.
// A new score ranks below older entries with the same value.
func InsertScore(board []int, score, limit int) ([]int, int) {
	out := make([]int, 0, len(board)+1)
	rank := 0
	if score > 0 {
		rank = 1
	}
	for _, v := range board {
		if v <= 0 {
			continue
		}
		out = append(out, v)
		if rank > 0 && v >= score {
			rank++
		}
	}
	if score > 0 {
		out = append(out, score)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(out)))

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	if rank > len(out) {
		rank = 0
	}
	return out, rank
}

// trimBoard sorts a loaded leaderboard and drops invalid entries.
func trimBoard(board []int, limit int) []int {
	out, _ := InsertScore(board, 0, limit)
	return out
}
