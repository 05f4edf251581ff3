package streaming

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
	"github.com/vovakirdan/hill-rider/internal/registry"
)

// ChunkWindow is the chunk strategy. Chunks of a fixed length are laid end
// to end at ConnectY and held in a FIFO that never exceeds Keep+2 entries.
type ChunkWindow struct {
	cfg    config.ChunkConfig
	src    noise.Source
	logger *log.Logger

	active []core.Chunk // oldest first
	spawnX float64
	nextID int

	initial core.Update
}

// NewChunkWindow validates the chunk config and spawns Keep+1 chunks so
// there is ground under the observer immediately.
func NewChunkWindow(opts registry.Options) (*ChunkWindow, error) {
	if err := checkSource(opts); err != nil {
		return nil, err
	}
	if err := opts.Config.Streaming.Chunk.Validate(); err != nil {
		return nil, err
	}

	w := &ChunkWindow{
		cfg:    opts.Config.Streaming.Chunk,
		src:    opts.Source,
		logger: opts.Logger,
		spawnX: opts.Config.Terrain.StartX,
		active: make([]core.Chunk, 0, opts.Config.Streaming.Chunk.Keep+3),
	}
	for i := 0; i < w.cfg.Keep+1; i++ {
		w.initial.Merge(w.spawn())
	}
	return w, nil
}

// Strategy implements registry.Generator.
func (w *ChunkWindow) Strategy() string {
	return StrategyChunk
}

// Initial returns the update that spawned the starting chunks.
func (w *ChunkWindow) Initial() core.Update {
	return w.initial
}

// Advance spawns at most one chunk. Callers that can move far in one step
// should call it until Generated is false. A non-finite observer never
// spawns.
func (w *ChunkWindow) Advance(observerX float64) core.Update {
	if math.IsNaN(observerX) || math.IsInf(observerX, 0) {
		return core.Update{}
	}
	if observerX <= w.spawnX-float64(w.cfg.Keep)*w.cfg.Length {
		return core.Update{}
	}
	return w.spawn()
}

func (w *ChunkWindow) spawn() core.Update {
	prefab := int(w.src.Uniform01() * float64(w.cfg.Prefabs))
	if prefab >= w.cfg.Prefabs {
		prefab = w.cfg.Prefabs - 1
	}

	c := core.Chunk{
		ID:       w.nextID,
		Prefab:   prefab,
		Position: core.Vec2{X: w.spawnX, Y: w.cfg.ConnectY},
		Length:   w.cfg.Length,
	}
	w.nextID++
	w.active = append(w.active, c)
	w.spawnX += w.cfg.Length

	u := core.Update{Generated: true, Spawned: []core.Chunk{c}}
	if len(w.active) > w.cfg.Keep+2 {
		old := w.active[0]
		copy(w.active, w.active[1:])
		w.active = w.active[:len(w.active)-1]
		u.Evicted = []core.Chunk{old}
		u.RetiredBefore = old.End()
	}

	if w.logger != nil {
		w.logger.Debug("spawned chunk", "id", c.ID, "prefab", c.Prefab, "x", c.Position.X, "active", len(w.active))
	}
	return u
}

// Frontier implements registry.Generator.
func (w *ChunkWindow) Frontier() float64 {
	return w.spawnX
}

// Ground returns the flat tops of the active chunks overlapping [from, to].
func (w *ChunkWindow) Ground(from, to float64) []core.Vec2 {
	var out []core.Vec2
	for _, c := range w.active {
		if c.End() < from || c.Position.X > to {
			continue
		}
		out = append(out, c.Position, core.Vec2{X: c.End(), Y: c.Position.Y})
	}
	return out
}

// Chunks returns a copy of the active chunks, oldest first.
func (w *ChunkWindow) Chunks() []core.Chunk {
	out := make([]core.Chunk, len(w.active))
	copy(out, w.active)
	return out
}
