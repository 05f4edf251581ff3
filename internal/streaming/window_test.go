package streaming

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
	"github.com/vovakirdan/hill-rider/internal/registry"
)

func splineOptions(mutate func(*config.RiderConfig)) registry.Options {
	cfg := config.DefaultRiderConfig()
	cfg.Streaming.TriggerDistance = 50
	cfg.Streaming.BatchSize = 10
	cfg.Streaming.RetainSegments = 3
	cfg.Streaming.InitialBatch = 0
	if mutate != nil {
		mutate(&cfg)
	}
	return registry.Options{Config: cfg, Source: noise.New(42, 2, 2, 3)}
}

func newTestWindow(t *testing.T, opts registry.Options) *Window {
	t.Helper()
	w, err := NewWindow(opts)
	if err != nil {
		t.Fatalf("NewWindow() failed: %v", err)
	}
	return w
}

func TestNewWindowRejectsBadConfig(t *testing.T) {
	opts := splineOptions(func(c *config.RiderConfig) { c.Coins.CheckInterval = 0 })
	if _, err := NewWindow(opts); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("NewWindow() error = %v, expected ErrInvalid", err)
	}

	opts = splineOptions(nil)
	opts.Source = nil
	if _, err := NewWindow(opts); err == nil {
		t.Error("NewWindow() accepted a nil source")
	}
}

func TestWindowInitialBatch(t *testing.T) {
	w := newTestWindow(t, splineOptions(func(c *config.RiderConfig) { c.Streaming.InitialBatch = 100 }))

	u := w.Initial()
	if !u.Generated || u.First != 1 || u.Last != 101 {
		t.Errorf("Initial() = generated %v [%d, %d), expected [1, 101)", u.Generated, u.First, u.Last)
	}
	if got, want := w.Frontier(), 100*15.9; !almostEqual(got, want) {
		t.Errorf("Frontier() = %g, expected %g", got, want)
	}
}

func TestWindowJumpLoopsUntilCovered(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))

	u := w.Advance(0)
	if !u.Generated {
		t.Fatal("first advance should generate from an empty frontier")
	}

	u = w.Advance(200)
	if !u.Generated {
		t.Fatal("jump to 200 should generate")
	}
	if w.Frontier() < 250 {
		t.Errorf("Frontier() = %g after jump to 200, expected >= 250", w.Frontier())
	}

	// Level triggered: the frontier is already ahead, so nothing happens
	if again := w.Advance(200); again.Generated {
		t.Error("second advance at the same position should not generate")
	}
}

func TestWindowTrimsBehind(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))

	var last core.Update
	for x := 0.0; x <= 2000; x += 37 {
		if u := w.Advance(x); u.Generated {
			last = u
		}
	}

	curve := w.Builder().Curve()
	if curve.Len() != 30 {
		t.Errorf("retained %d points, expected retain_segments*batch_size = 30", curve.Len())
	}
	if !last.Retired() {
		t.Fatal("expected the last generating advance to trim")
	}
	first, _ := curve.At(curve.FirstIndex())
	if last.RetiredBefore != first.Position.X {
		t.Errorf("RetiredBefore = %g, expected first retained x %g", last.RetiredBefore, first.Position.X)
	}
}

func TestWindowNoTrimWhenRetainZero(t *testing.T) {
	w := newTestWindow(t, splineOptions(func(c *config.RiderConfig) { c.Streaming.RetainSegments = 0 }))

	for x := 0.0; x <= 1000; x += 50 {
		if u := w.Advance(x); u.Trimmed != 0 {
			t.Fatalf("advance to %g trimmed %d points", x, u.Trimmed)
		}
	}
	if w.Builder().Curve().FirstIndex() != 0 {
		t.Error("leading point should survive without trimming")
	}
}

func TestWindowRangesNeverOverlap(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))

	next := 1
	seen := map[int]bool{}
	for x := 0.0; x <= 3000; x += 23 {
		u := w.Advance(x)
		if !u.Generated {
			continue
		}
		if u.First != next {
			t.Fatalf("range starts at %d, expected %d", u.First, next)
		}
		next = u.Last
		for _, p := range u.Placements {
			if p.Index < u.First || p.Index >= u.Last {
				t.Fatalf("placement %d outside new range [%d, %d)", p.Index, u.First, u.Last)
			}
			if seen[p.Index] {
				t.Fatalf("index %d placed twice", p.Index)
			}
			seen[p.Index] = true
		}
	}
}

func TestWindowDeterministic(t *testing.T) {
	run := func() []core.Update {
		w := newTestWindow(t, splineOptions(func(c *config.RiderConfig) { c.Streaming.InitialBatch = 20 }))
		out := []core.Update{w.Initial()}
		for x := 0.0; x <= 1500; x += 40 {
			out = append(out, w.Advance(x))
		}
		return out
	}

	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Error("identical seeds produced different updates")
	}
}

func TestWindowGroundSpansRange(t *testing.T) {
	w := newTestWindow(t, splineOptions(func(c *config.RiderConfig) { c.Streaming.InitialBatch = 50 }))

	ground := w.Ground(100, 300)
	if len(ground) < 2 {
		t.Fatalf("Ground() returned %d points", len(ground))
	}
	if ground[0].X > 100 || ground[len(ground)-1].X < 300 {
		t.Errorf("Ground() spans [%g, %g], expected to cover [100, 300]", ground[0].X, ground[len(ground)-1].X)
	}
	for i := 1; i < len(ground); i++ {
		if ground[i].X <= ground[i-1].X {
			t.Fatalf("ground x not increasing at %d", i)
		}
	}
}

func TestWindowGroundMatchesRetainedPoints(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))
	for x := 0.0; x <= 1500; x += 40 {
		w.Advance(x)
	}

	// Reference: scan every retained point
	scan := func(from, to float64) []core.Vec2 {
		pts := w.Builder().Points()
		var out []core.Vec2
		for i, p := range pts {
			if p.Position.X < from && (i+1 >= len(pts) || pts[i+1].Position.X < from) {
				continue
			}
			out = append(out, p.Position)
			if p.Position.X > to {
				break
			}
		}
		return out
	}

	pts := w.Builder().Points()
	mid := pts[len(pts)/2].Position.X
	ranges := [][2]float64{
		{pts[0].Position.X, pts[len(pts)-1].Position.X},
		{mid, mid + 100},
		{mid - 0.1, mid + 15.9},
		{-500, mid},
		{mid, 1e6},
	}
	for _, r := range ranges {
		got, want := w.Ground(r[0], r[1]), scan(r[0], r[1])
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Ground(%g, %g) = %v, expected %v", r[0], r[1], got, want)
		}
	}
}

func TestWindowIgnoresNonFiniteObserver(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))
	frontier := w.Frontier()

	for _, x := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if u := w.Advance(x); u.Generated {
			t.Errorf("Advance(%g) generated %+v", x, u)
		}
	}
	if w.Frontier() != frontier {
		t.Errorf("frontier moved from %g to %g", frontier, w.Frontier())
	}
}

func TestWindowTrimStaysBehindObserver(t *testing.T) {
	w := newTestWindow(t, splineOptions(nil))

	for x := 0.0; x <= 3000; x += 23 {
		u := w.Advance(x)
		if u.Retired() && u.RetiredBefore > x {
			t.Fatalf("Advance(%g) retired terrain up to %g, ahead of the observer", x, u.RetiredBefore)
		}
	}
}

func TestRegisteredStrategies(t *testing.T) {
	for _, name := range []string{StrategySpline, StrategyChunk} {
		opts := splineOptions(nil)
		g, err := registry.Create(name, opts)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
		if g.Strategy() != name {
			t.Errorf("Strategy() = %q, expected %q", g.Strategy(), name)
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
