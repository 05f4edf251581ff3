package terrain

import (
	"fmt"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
)

// Builder incrementally extends the ground curve as the frontier advances.
type Builder struct {
	cfg        config.TerrainConfig
	src        noise.Source
	difficulty *config.DifficultyManager

	curve     Curve
	frontierX float64 // x of the newest height point
	nextIndex int     // global index the next point receives
}

// NewBuilder validates the terrain config and returns an initialized
// builder. difficulty may be nil.
func NewBuilder(cfg config.TerrainConfig, src noise.Source, difficulty *config.DifficultyManager) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("terrain: nil noise source")
	}
	b := &Builder{
		cfg:        cfg,
		src:        src,
		difficulty: difficulty,
	}
	b.Initialize()
	return b, nil
}

// Initialize discards all points and lays down the minimal closed shape:
// one leading point at (StartX, 0) plus the floor.
func (b *Builder) Initialize() {
	b.curve = Curve{
		points:     make([]ControlPoint, 0, 128),
		floorDepth: b.cfg.FloorDepth,
	}
	b.curve.points = append(b.curve.points, b.point(0, core.Vec2{X: b.cfg.StartX, Y: 0}))
	b.frontierX = b.cfg.StartX
	b.nextIndex = 1
}

// Extend appends n points before the closing floor and returns the global
// index range [first, last) of the new points. n <= 0 is a no-op.
func (b *Builder) Extend(n int) (first, last int) {
	first = b.nextIndex
	if n <= 0 {
		return first, first
	}

	for i := 0; i < n; i++ {
		// Derived from the index so the frontier never drifts
		x := b.cfg.StartX + float64(b.nextIndex)*b.cfg.StepX
		if x <= b.frontierX {
			panic(fmt.Sprintf("terrain: frontier did not advance (%g -> %g)", b.frontierX, x))
		}
		scale := b.difficulty.HeightScale(b.cfg.HeightScale, x)
		y := (b.src.HeightAt(x*b.cfg.NoiseFrequency) - 0.5) * scale

		b.curve.points = append(b.curve.points, b.point(b.nextIndex, core.Vec2{X: x, Y: y}))
		b.frontierX = x
		b.nextIndex++
	}
	return first, b.nextIndex
}

// point builds a control point with symmetric continuous tangents.
func (b *Builder) point(index int, pos core.Vec2) ControlPoint {
	handle := core.Vec2{X: 1}.Scale(b.cfg.StepX * b.cfg.TangentSmoothness)
	return ControlPoint{
		Index:        index,
		Position:     pos,
		LeftTangent:  handle.Neg(),
		RightTangent: handle,
	}
}

// TrimBehind removes height points older than retain points from the
// leading edge and returns how many were removed. At least one point is
// always kept so the floor stays closed.
func (b *Builder) TrimBehind(retain int) int {
	if retain < 1 {
		retain = 1
	}
	drop := len(b.curve.points) - retain
	if drop <= 0 {
		return 0
	}
	// Copy down so the backing array does not grow without bound
	n := copy(b.curve.points, b.curve.points[drop:])
	clear(b.curve.points[n:])
	b.curve.points = b.curve.points[:n]
	return drop
}

// FrontierX returns the x-coordinate up to which terrain exists.
func (b *Builder) FrontierX() float64 {
	return b.frontierX
}

// NextIndex returns the global index the next point will receive.
func (b *Builder) NextIndex() int {
	return b.nextIndex
}

// Curve returns the curve for read-only use.
func (b *Builder) Curve() *Curve {
	return &b.curve
}

// Points returns a copy of all retained height points.
func (b *Builder) Points() []ControlPoint {
	return b.curve.Snapshot(b.curve.FirstIndex(), b.curve.LastIndex())
}

// Snapshot returns a copy of the points in the global range [from, to).
func (b *Builder) Snapshot(from, to int) []ControlPoint {
	return b.curve.Snapshot(from, to)
}
