// Package placement decides where coins go along freshly generated terrain.
package placement

import (
	"fmt"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
	"github.com/vovakirdan/hill-rider/internal/terrain"
)

// Policy places coins on control points under a spawn chance, a check
// interval and a cap on consecutive coins.
type Policy struct {
	cfg        config.CoinConfig
	src        noise.Source
	difficulty *config.DifficultyManager

	consecutive int // carried between calls only with PersistRun
}

// NewPolicy validates the coin config and returns a policy. difficulty may
// be nil.
func NewPolicy(cfg config.CoinConfig, src noise.Source, difficulty *config.DifficultyManager) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("placement: nil noise source")
	}
	return &Policy{cfg: cfg, src: src, difficulty: difficulty}, nil
}

// PlaceItems walks the global index range [first, last) in ascending order
// and returns the accepted placements in that order.
//
// An index that is not a multiple of CheckInterval is skipped and breaks
// the current run. Every other index consumes exactly one draw; it is
// accepted when the run is below MaxConsecutive and the draw beats the
// spawn chance, otherwise the run resets.
func (p *Policy) PlaceItems(curve *terrain.Curve, first, last int) []core.Placement {
	consecutive := 0
	if p.cfg.PersistRun {
		consecutive = p.consecutive
	}

	var out []core.Placement
	for i := first; i < last; i++ {
		if i%p.cfg.CheckInterval != 0 {
			consecutive = 0
			continue
		}
		pt, ok := curve.At(i)
		if !ok {
			// Already trimmed; nothing to stand on
			consecutive = 0
			continue
		}

		roll := p.src.Uniform01()
		chance := p.difficulty.SpawnChance(p.cfg.SpawnChance, pt.Position.X)
		if consecutive < p.cfg.MaxConsecutive && roll < chance {
			out = append(out, core.Placement{
				Index:    i,
				Position: pt.Position.Add(core.Vec2{Y: p.cfg.VerticalOffset}),
			})
			consecutive++
		} else {
			consecutive = 0
		}
	}

	if p.cfg.PersistRun {
		p.consecutive = consecutive
	}
	return out
}

// RunState returns the consecutive-coin counter carried into the next call.
// It is always 0 unless PersistRun is set.
func (p *Policy) RunState() int {
	return p.consecutive
}

// Reset clears the carried run.
func (p *Policy) Reset() {
	p.consecutive = 0
}
