package placement

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
	"github.com/vovakirdan/hill-rider/internal/terrain"
)

// flatCurve returns a curve with points at indices [0, n) and y = 0.
func flatCurve(t *testing.T, n int) *terrain.Curve {
	t.Helper()
	b, err := terrain.NewBuilder(config.TerrainConfig{
		StepX:          1,
		HeightScale:    10,
		FloorDepth:     10,
		NoiseFrequency: 1,
	}, &noise.Fixed{Height: 0.5}, nil)
	if err != nil {
		t.Fatalf("NewBuilder() failed: %v", err)
	}
	b.Extend(n - 1)
	return b.Curve()
}

func indices(ps []core.Placement) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Index
	}
	return out
}

func newPolicy(t *testing.T, cfg config.CoinConfig, src noise.Source) *Policy {
	t.Helper()
	p, err := NewPolicy(cfg, src, nil)
	if err != nil {
		t.Fatalf("NewPolicy() failed: %v", err)
	}
	return p
}

func TestNewPolicyRejectsBadConfig(t *testing.T) {
	_, err := NewPolicy(config.CoinConfig{CheckInterval: 0, SpawnChance: 0.5}, &noise.Fixed{}, nil)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("NewPolicy() error = %v, expected ErrInvalid", err)
	}
}

func TestCertainSpawnCapsRuns(t *testing.T) {
	curve := flatCurve(t, 10)
	p := newPolicy(t, config.CoinConfig{SpawnChance: 1, CheckInterval: 1, MaxConsecutive: 4}, &noise.Fixed{})

	got := p.PlaceItems(curve, 0, 10)

	// The fifth candidate is rejected to break the run, then four more fit
	want := []int{0, 1, 2, 3, 5, 6, 7, 8}
	if !reflect.DeepEqual(indices(got), want) {
		t.Errorf("placements at %v, expected %v", indices(got), want)
	}
}

func TestRunNeverExceedsMax(t *testing.T) {
	curve := flatCurve(t, 500)

	for _, maxRun := range []int{0, 1, 2, 4, 7} {
		p := newPolicy(t, config.CoinConfig{SpawnChance: 0.9, CheckInterval: 1, MaxConsecutive: maxRun}, noise.New(3, 2, 2, 3))
		got := p.PlaceItems(curve, 0, 500)

		run := 0
		for i, pl := range got {
			if i > 0 && pl.Index == got[i-1].Index+1 {
				run++
			} else {
				run = 1
			}
			if run > maxRun {
				t.Fatalf("max %d: run of %d ending at index %d", maxRun, run, pl.Index)
			}
		}
		if maxRun == 0 && len(got) != 0 {
			t.Errorf("max 0 should place nothing, got %d", len(got))
		}
	}
}

func TestCheckIntervalSkipsAndResets(t *testing.T) {
	curve := flatCurve(t, 12)
	src := &noise.Fixed{}
	p := newPolicy(t, config.CoinConfig{SpawnChance: 1, CheckInterval: 3, MaxConsecutive: 1}, src)

	got := p.PlaceItems(curve, 0, 12)

	// Skipped indices reset the run, so a cap of 1 still allows every candidate
	want := []int{0, 3, 6, 9}
	if !reflect.DeepEqual(indices(got), want) {
		t.Errorf("placements at %v, expected %v", indices(got), want)
	}
	if src.Consumed() != 4 {
		t.Errorf("consumed %d draws, expected one per candidate (4)", src.Consumed())
	}
}

func TestDrawsMatchCandidates(t *testing.T) {
	curve := flatCurve(t, 20)
	src := &noise.Fixed{} // every draw passes
	p := newPolicy(t, config.CoinConfig{SpawnChance: 1, CheckInterval: 1, MaxConsecutive: 2}, src)

	p.PlaceItems(curve, 5, 15)

	// Draws are taken even while the run is capped
	if src.Consumed() != 10 {
		t.Errorf("consumed %d draws, expected 10", src.Consumed())
	}
}

func TestZeroChancePlacesNothing(t *testing.T) {
	curve := flatCurve(t, 10)
	p := newPolicy(t, config.CoinConfig{SpawnChance: 0, CheckInterval: 1, MaxConsecutive: 4}, &noise.Fixed{})

	if got := p.PlaceItems(curve, 0, 10); len(got) != 0 {
		t.Errorf("chance 0 placed %d coins", len(got))
	}
}

func TestPlacementPositionUsesOffset(t *testing.T) {
	curve := flatCurve(t, 4)
	p := newPolicy(t, config.CoinConfig{VerticalOffset: -14.5, SpawnChance: 1, CheckInterval: 1, MaxConsecutive: 10}, &noise.Fixed{})

	got := p.PlaceItems(curve, 1, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(got))
	}
	for _, pl := range got {
		pt, _ := curve.At(pl.Index)
		if pl.Position.X != pt.Position.X || pl.Position.Y != pt.Position.Y-14.5 {
			t.Errorf("placement %d at %v, point at %v", pl.Index, pl.Position, pt.Position)
		}
	}
}

func TestRunStateAcrossBatches(t *testing.T) {
	curve := flatCurve(t, 6)
	base := config.CoinConfig{SpawnChance: 1, CheckInterval: 1, MaxConsecutive: 4}

	t.Run("reset per call", func(t *testing.T) {
		p := newPolicy(t, base, &noise.Fixed{})
		a := p.PlaceItems(curve, 0, 3)
		b := p.PlaceItems(curve, 3, 6)

		if len(a) != 3 || len(b) != 3 {
			t.Errorf("batches placed %d and %d, expected 3 and 3", len(a), len(b))
		}
		if p.RunState() != 0 {
			t.Errorf("RunState() = %d, expected 0 without persistence", p.RunState())
		}
	})

	t.Run("persist across calls", func(t *testing.T) {
		cfg := base
		cfg.PersistRun = true
		p := newPolicy(t, cfg, &noise.Fixed{})

		a := p.PlaceItems(curve, 0, 3)
		if p.RunState() != 3 {
			t.Errorf("RunState() = %d after first batch, expected 3", p.RunState())
		}
		b := p.PlaceItems(curve, 3, 6)

		// 0,1,2 | 3 then the cap breaks the run at 4, and 5 starts a new one
		if !reflect.DeepEqual(append(indices(a), indices(b)...), []int{0, 1, 2, 3, 5}) {
			t.Errorf("placements at %v %v", indices(a), indices(b))
		}

		p.Reset()
		if p.RunState() != 0 {
			t.Error("Reset() should clear the run")
		}
	})
}

func TestTrimmedIndicesAreSkipped(t *testing.T) {
	b, err := terrain.NewBuilder(config.TerrainConfig{
		StepX: 1, HeightScale: 10, FloorDepth: 10, NoiseFrequency: 1,
	}, &noise.Fixed{Height: 0.5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b.Extend(9)
	b.TrimBehind(5) // keeps 5..9

	src := &noise.Fixed{}
	p := newPolicy(t, config.CoinConfig{SpawnChance: 1, CheckInterval: 1, MaxConsecutive: 10}, src)
	got := p.PlaceItems(b.Curve(), 0, 10)

	if !reflect.DeepEqual(indices(got), []int{5, 6, 7, 8, 9}) {
		t.Errorf("placements at %v, expected only retained points", indices(got))
	}
	if src.Consumed() != 5 {
		t.Errorf("consumed %d draws for 5 retained points", src.Consumed())
	}
}

func TestSeededPlacementIsDeterministic(t *testing.T) {
	run := func() []core.Placement {
		src := noise.New(2024, 2, 2, 3)
		b, err := terrain.NewBuilder(config.DefaultRiderConfig().Terrain, src, nil)
		if err != nil {
			t.Fatal(err)
		}
		p := newPolicy(t, config.DefaultRiderConfig().Coins, src)

		var out []core.Placement
		for i := 0; i < 5; i++ {
			first, last := b.Extend(10)
			out = append(out, p.PlaceItems(b.Curve(), first, last)...)
		}
		return out
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seeds produced different placements")
	}
	if len(a) == 0 {
		t.Error("expected some placements with default chance")
	}
}
