package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and its parent directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetTotalCoins(77); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if total, err := store.TotalCoins(); err != nil || total != 77 {
		t.Errorf("TotalCoins() = %d, %v; expected 77", total, err)
	}
}

func TestTotalCoins(t *testing.T) {
	store := openTestStore(t)

	total, err := store.TotalCoins()
	if err != nil {
		t.Fatalf("TotalCoins() failed: %v", err)
	}
	if total != 0 {
		t.Errorf("empty store total = %d, expected 0", total)
	}

	for _, v := range []int{10, 250} {
		if err := store.SetTotalCoins(v); err != nil {
			t.Fatalf("SetTotalCoins(%d) failed: %v", v, err)
		}
		if got, _ := store.TotalCoins(); got != v {
			t.Errorf("TotalCoins() = %d, expected %d", got, v)
		}
	}
}

func TestLeaderboardRoundTrip(t *testing.T) {
	store := openTestStore(t)

	board, err := store.Leaderboard()
	if err != nil || board != nil {
		t.Fatalf("empty Leaderboard() = %v, %v", board, err)
	}

	if err := store.SetLeaderboard([]int{900, 400, 12}); err != nil {
		t.Fatalf("SetLeaderboard() failed: %v", err)
	}
	board, err = store.Leaderboard()
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if !reflect.DeepEqual(board, []int{900, 400, 12}) {
		t.Errorf("Leaderboard() = %v", board)
	}

	// The stored value is the JSON object
	raw, _, err := store.get(keyLeaderboard)
	if err != nil {
		t.Fatal(err)
	}
	if raw != `{"scores":[900,400,12]}` {
		t.Errorf("stored %q", raw)
	}
}

func TestLeaderboardCorrupt(t *testing.T) {
	store := openTestStore(t)
	if err := store.set(keyLeaderboard, "not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Leaderboard(); err == nil {
		t.Error("expected error for corrupt leaderboard")
	}
}

func TestRunsSaveAndQuery(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []session.Run{
		{ID: "a", Strategy: "spline", Score: 100, Coins: 10, Distance: 9, CreatedAt: base},
		{ID: "b", Strategy: "spline", Score: 300, Coins: 30, Distance: 27, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Strategy: "chunk", Score: 200, Coins: 0, Distance: 20, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		if err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", r.ID, err)
		}
	}

	top, err := store.TopRuns(2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 || top[0].Run.ID != "b" || top[1].Run.ID != "c" {
		t.Errorf("TopRuns(2) = %+v", top)
	}

	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 || recent[0].Run.ID != "c" || recent[2].Run.ID != "a" {
		t.Errorf("RecentRuns() = %+v", recent)
	}
	if !recent[2].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, expected %v", recent[2].CreatedAt, base)
	}

	got, err := store.RunByID("b")
	if err != nil || got == nil {
		t.Fatalf("RunByID() = %v, %v", got, err)
	}
	if got.Score != 300 || got.Coins != 30 || got.Distance != 27 || got.Strategy != "spline" {
		t.Errorf("RunByID() = %+v", got)
	}

	missing, err := store.RunByID("zzz")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v", missing, err)
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	store := openTestStore(t)
	r := session.Run{ID: "dup", Strategy: "spline", Score: 1}
	if err := store.SaveRun(r); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(r); err == nil {
		t.Error("expected unique constraint error")
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)
	for i, score := range []int{100, 300, 200} {
		_ = store.SaveRun(session.Run{
			ID:       string(rune('a' + i)),
			Strategy: "spline",
			Score:    score,
			Coins:    score / 10,
			Distance: float64(score) / 10,
		})
	}
	_ = store.SaveRun(session.Run{ID: "z", Strategy: "chunk", Score: 50, Distance: 5})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	sp := stats["spline"]
	if sp == nil {
		t.Fatal("missing spline stats")
	}
	if sp.Runs != 3 || sp.HighScore != 300 || sp.AvgScore != 200 || sp.TotalCoins != 60 || sp.BestDistance != 30 {
		t.Errorf("spline stats = %+v", sp)
	}
	if sp.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
	if stats["chunk"] == nil || stats["chunk"].Runs != 1 {
		t.Errorf("chunk stats = %+v", stats["chunk"])
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatal(err)
	}
	if stats, _ := store.Stats(); len(stats) != 0 {
		t.Errorf("stats after clear = %v", stats)
	}
}

func TestStoreBacksSession(t *testing.T) {
	store := openTestStore(t)

	s, err := session.New(config.DefaultRiderConfig().Session, store, "chunk")
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}
	s.Track(20)
	s.AddCoins(40)
	run, err := s.EndRun()
	if err != nil {
		t.Fatalf("EndRun() failed: %v", err)
	}

	// A fresh session sees the persisted totals
	s2, err := session.New(config.DefaultRiderConfig().Session, store, "chunk")
	if err != nil {
		t.Fatal(err)
	}
	if s2.TotalCoins() != 40 {
		t.Errorf("TotalCoins() = %d, expected 40", s2.TotalCoins())
	}
	if !reflect.DeepEqual(s2.Leaderboard(), []int{240}) {
		t.Errorf("Leaderboard() = %v, expected [240]", s2.Leaderboard())
	}

	stored, err := store.RunByID(run.ID)
	if err != nil || stored == nil {
		t.Fatalf("run %s not stored: %v", run.ID, err)
	}
	if stored.Score != 240 {
		t.Errorf("stored score = %d", stored.Score)
	}
}
