// Package preview draws a side view of generated terrain into a
// core.Screen.
package preview

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/hill-rider/internal/core"
)

const (
	runeFill   = ':'
	runeFlat   = '_'
	runeRise   = '/'
	runeFall   = '\\'
	runeCoin   = 'o'
	runeSeam   = '|'
	runeRider  = '@'
	runeBorder = '-'
)

// Frame is everything one profile shows. Ground must be ordered by x.
type Frame struct {
	From, To float64 // World x range mapped onto the screen width
	Ground   []core.Vec2
	Coins    []core.Placement
	Chunks   []core.Chunk

	ShowRider bool
	RiderX    float64

	Title string
}

// Draw renders f into dst. Row 0 holds the title, the last row is the
// bottom border and everything in between is the plot.
func Draw(dst *core.Screen, f Frame) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 1 || h < 3 || f.To <= f.From {
		return
	}
	dst.DrawText(0, 0, f.Title, core.ColorBrightWhite)
	dst.DrawHLine(0, h-1, w, runeBorder, core.ColorGray)

	plot := core.NewRect(0, 1, w, h-2)
	top, bottom := plot.Y, plot.Bottom()-1
	scale := newVScale(f, top, bottom)
	colX := func(cx int) float64 {
		return f.From + (float64(cx)+0.5)*(f.To-f.From)/float64(w)
	}

	// Surface row per column, -1 where there is no ground
	surface := make([]int, w)
	for cx := range surface {
		y, ok := groundAt(f.Ground, colX(cx))
		if !ok {
			surface[cx] = -1
			continue
		}
		surface[cx] = scale.row(y)
	}

	for cx, row := range surface {
		if row < 0 {
			continue
		}
		dst.SetColor(cx, row, slopeRune(surface, cx), core.ColorGreen)
		for fy := row + 1; fy <= bottom; fy++ {
			dst.SetColor(cx, fy, runeFill, core.ColorBrown)
		}
	}

	for _, c := range f.Chunks {
		cx := column(f, w, c.Position.X)
		if !plot.Contains(cx, top) || surface[cx] < 0 {
			continue
		}
		dst.DrawVLine(cx, surface[cx]+1, bottom-surface[cx], runeSeam, core.ColorCyan)
	}

	for _, c := range f.Coins {
		cx, row := column(f, w, c.Position.X), scale.row(c.Position.Y)
		if plot.Contains(cx, row) {
			dst.SetColor(cx, row, runeCoin, core.ColorYellow)
		}
	}

	if f.ShowRider {
		cx := column(f, w, f.RiderX)
		if plot.Contains(cx, top) {
			row := top
			if surface[cx] > top {
				row = surface[cx] - 1
			}
			dst.SetColor(cx, row, runeRider, core.ColorBrightWhite)
		}
	}
}

// Caption describes the frame's range in one line.
func Caption(f Frame, coins int) string {
	return fmt.Sprintf("x %.0f..%.0f  coins %d", f.From, f.To, coins)
}

// vscale maps world y (up) to screen rows (down).
type vscale struct {
	minY, maxY  float64
	top, bottom int
}

func newVScale(f Frame, top, bottom int) vscale {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range f.Ground {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	for _, c := range f.Coins {
		maxY = math.Max(maxY, c.Position.Y)
	}
	if math.IsInf(minY, 0) || math.IsInf(maxY, 0) {
		minY, maxY = -1, 1
	}
	// Leave some fill under the lowest valley
	pad := math.Max((maxY-minY)*0.15, 1)
	return vscale{minY: minY - pad, maxY: maxY, top: top, bottom: bottom}
}

func (v vscale) row(y float64) int {
	t := (v.maxY - y) / (v.maxY - v.minY)
	r := v.top + int(math.Round(t*float64(v.bottom-v.top)))
	return core.Clamp(r, v.top, v.bottom)
}

func column(f Frame, w int, x float64) int {
	return int(math.Floor((x - f.From) / (f.To - f.From) * float64(w)))
}

func slopeRune(surface []int, cx int) rune {
	prev, next := surface[cx], surface[cx]
	if cx > 0 && surface[cx-1] >= 0 {
		prev = surface[cx-1]
	}
	if cx+1 < len(surface) && surface[cx+1] >= 0 {
		next = surface[cx+1]
	}
	switch {
	case next < prev:
		return runeRise
	case next > prev:
		return runeFall
	default:
		return runeFlat
	}
}

// groundAt linearly interpolates the polyline at x. ok is false outside
// its extent.
func groundAt(pts []core.Vec2, x float64) (float64, bool) {
	if len(pts) == 0 || x < pts[0].X || x > pts[len(pts)-1].X {
		return 0, false
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
	if pts[i].X == x || i == 0 {
		return pts[i].Y, true
	}
	a, b := pts[i-1], pts[i]
	if b.X == a.X {
		return b.Y, true
	}
	return core.Lerp(a.Y, b.Y, (x-a.X)/(b.X-a.X)), true
}
