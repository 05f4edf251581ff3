// Package terrain builds the ground curve: an ordered run of height
// control points closed by a fixed-depth floor so every batch forms a
// well-formed polygon.
package terrain

import "github.com/vovakirdan/hill-rider/internal/core"

// ControlPoint is one vertex of the ground curve with its tangent handles.
type ControlPoint struct {
	Index        int       `json:"index" yaml:"index"`
	Position     core.Vec2 `json:"position" yaml:"position"`
	LeftTangent  core.Vec2 `json:"left_tangent" yaml:"left_tangent"`
	RightTangent core.Vec2 `json:"right_tangent" yaml:"right_tangent"`
}

// closingPoints is the number of floor points that close the polygon.
const closingPoints = 2

// Curve is the ordered ground curve. Height points are stored in insertion
// order; the two floor points are derived on demand. Indices are global and
// survive trimming.
type Curve struct {
	points     []ControlPoint
	floorDepth float64
}

// Len returns the number of height points.
func (c *Curve) Len() int {
	return len(c.points)
}

// PointCount returns height points plus the closing floor points.
func (c *Curve) PointCount() int {
	return len(c.points) + closingPoints
}

// FirstIndex returns the global index of the oldest retained point.
func (c *Curve) FirstIndex() int {
	if len(c.points) == 0 {
		return 0
	}
	return c.points[0].Index
}

// LastIndex returns the global index one past the newest point.
func (c *Curve) LastIndex() int {
	if len(c.points) == 0 {
		return 0
	}
	return c.points[len(c.points)-1].Index + 1
}

// At returns the point with the given global index.
func (c *Curve) At(index int) (ControlPoint, bool) {
	i := index - c.FirstIndex()
	if i < 0 || i >= len(c.points) {
		return ControlPoint{}, false
	}
	return c.points[i], true
}

// Floor returns the closing points: below the leading edge first, then
// below the trailing edge, matching polygon winding.
func (c *Curve) Floor() [closingPoints]core.Vec2 {
	if len(c.points) == 0 {
		return [closingPoints]core.Vec2{}
	}
	y := -c.floorDepth
	return [closingPoints]core.Vec2{
		{X: c.points[len(c.points)-1].Position.X, Y: y},
		{X: c.points[0].Position.X, Y: y},
	}
}

// Polygon returns the closed outline: height points followed by the floor.
func (c *Curve) Polygon() []core.Vec2 {
	out := make([]core.Vec2, 0, c.PointCount())
	for _, p := range c.points {
		out = append(out, p.Position)
	}
	floor := c.Floor()
	return append(out, floor[:]...)
}

// Snapshot returns a copy of the points in the global range [from, to),
// clipped to what is retained.
func (c *Curve) Snapshot(from, to int) []ControlPoint {
	first := c.FirstIndex()
	lo := core.Clamp(from-first, 0, len(c.points))
	hi := core.Clamp(to-first, lo, len(c.points))
	out := make([]ControlPoint, hi-lo)
	copy(out, c.points[lo:hi])
	return out
}
