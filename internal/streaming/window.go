package streaming

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/placement"
	"github.com/vovakirdan/hill-rider/internal/registry"
	"github.com/vovakirdan/hill-rider/internal/terrain"
)

// Window is the spline strategy. It extends the curve in batches until the
// frontier is at least TriggerDistance ahead of the observer, places coins
// on every new batch and trims the curve behind the retention horizon.
type Window struct {
	cfg     config.StreamingConfig
	terrain config.TerrainConfig
	builder *terrain.Builder
	policy  *placement.Policy
	logger  *log.Logger

	initial core.Update
}

// NewWindow validates the options, builds the curve and generates the
// initial batch.
func NewWindow(opts registry.Options) (*Window, error) {
	if err := checkSource(opts); err != nil {
		return nil, err
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	builder, err := terrain.NewBuilder(opts.Config.Terrain, opts.Source, opts.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("streaming: %w", err)
	}
	policy, err := placement.NewPolicy(opts.Config.Coins, opts.Source, opts.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("streaming: %w", err)
	}

	w := &Window{
		cfg:     opts.Config.Streaming,
		terrain: opts.Config.Terrain,
		builder: builder,
		policy:  policy,
		logger:  opts.Logger,
	}
	w.initial = w.batch(w.cfg.InitialBatch)
	return w, nil
}

// Strategy implements registry.Generator.
func (w *Window) Strategy() string {
	return StrategySpline
}

// Initial returns the update produced by the initial batch.
func (w *Window) Initial() core.Update {
	return w.initial
}

// Advance extends the curve until observerX+TriggerDistance is covered.
// Generated is false when the frontier was already far enough ahead, in
// which case nothing else changes. A non-finite observer never generates.
func (w *Window) Advance(observerX float64) core.Update {
	var u core.Update
	if math.IsNaN(observerX) || math.IsInf(observerX, 0) {
		return u
	}
	for observerX+w.cfg.TriggerDistance > w.builder.FrontierX() {
		u.Merge(w.batch(w.cfg.BatchSize))
	}
	if !u.Generated || w.cfg.RetainSegments == 0 {
		return u
	}

	if trimmed := w.builder.TrimBehind(w.cfg.RetainSegments * w.cfg.BatchSize); trimmed > 0 {
		curve := w.builder.Curve()
		first, _ := curve.At(curve.FirstIndex())
		u.Trimmed = trimmed
		u.RetiredBefore = first.Position.X
		if w.logger != nil {
			w.logger.Debug("trimmed curve", "points", trimmed, "retired_before", u.RetiredBefore)
		}
	}
	return u
}

// batch extends the curve by n points and places coins on exactly those.
func (w *Window) batch(n int) core.Update {
	first, last := w.builder.Extend(n)
	if first == last {
		return core.Update{First: first, Last: last}
	}
	placements := w.policy.PlaceItems(w.builder.Curve(), first, last)

	if w.logger != nil {
		w.logger.Debug("generated batch",
			"first", first,
			"last", last,
			"coins", len(placements),
			"frontier", w.builder.FrontierX(),
		)
	}
	return core.Update{
		Generated:  true,
		First:      first,
		Last:       last,
		Placements: placements,
	}
}

// Frontier implements registry.Generator.
func (w *Window) Frontier() float64 {
	return w.builder.FrontierX()
}

// Ground returns the retained height points covering [from, to], including
// the nearest point on either side so the polyline spans the whole range.
func (w *Window) Ground(from, to float64) []core.Vec2 {
	// Point i sits at start_x + i*step_x; widen by one on each side
	curve := w.builder.Curve()
	first, last := float64(curve.FirstIndex()), float64(curve.LastIndex())
	lo := math.Floor((from-w.terrain.StartX)/w.terrain.StepX) - 1
	hi := math.Ceil((to-w.terrain.StartX)/w.terrain.StepX) + 2
	pts := w.builder.Snapshot(int(core.ClampF(lo, first, last)), int(core.ClampF(hi, first, last)))
	var out []core.Vec2
	for i, p := range pts {
		x := p.Position.X
		if x < from && (i+1 >= len(pts) || pts[i+1].Position.X < from) {
			continue
		}
		out = append(out, p.Position)
		if x > to {
			break
		}
	}
	return out
}

// Builder exposes the curve builder for read-only inspection.
func (w *Window) Builder() *terrain.Builder {
	return w.builder
}
