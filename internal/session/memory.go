package session

import "sync"

// MemoryBank is a Bank that keeps everything in process memory.
type MemoryBank struct {
	mu          sync.Mutex
	totalCoins  int
	leaderboard []int
	runs        []Run
}

// NewMemoryBank returns an empty in-memory bank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{}
}

// TotalCoins implements Bank.
func (b *MemoryBank) TotalCoins() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalCoins, nil
}

// SetTotalCoins implements Bank.
func (b *MemoryBank) SetTotalCoins(total int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalCoins = total
	return nil
}

// Leaderboard implements Bank.
func (b *MemoryBank) Leaderboard() ([]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.leaderboard...), nil
}

// SetLeaderboard implements Bank.
func (b *MemoryBank) SetLeaderboard(scores []int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaderboard = append([]int(nil), scores...)
	return nil
}

// SaveRun implements Bank.
func (b *MemoryBank) SaveRun(run Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = append(b.runs, run)
	return nil
}

// Runs returns the recorded runs, oldest first.
func (b *MemoryBank) Runs() []Run {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Run(nil), b.runs...)
}

var _ Bank = (*MemoryBank)(nil)
