// Package noise provides the deterministic height function and the uniform
// random stream that terrain and coin generation draw from.
package noise

import (
	"math/rand"
	"sync"

	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
)

// Source is the randomness a generator consumes.
type Source interface {
	// HeightAt returns a smooth, deterministic value in [0, 1].
	HeightAt(coord float64) float64

	// Uniform01 returns the next draw in [0, 1) and advances the stream.
	Uniform01() float64
}

// Perlin generates heights with 1D perlin noise and draws decisions from
// a seeded stream.
type Perlin struct {
	height *perlin.Perlin

	mu  sync.Mutex // guards rng so draws form one sequence
	rng *rand.Rand
}

// New creates a Perlin source with a seed.
func New(seed int64, alpha, beta float64, octaves int) *Perlin {
	return &Perlin{
		height: perlin.NewPerlin(alpha, beta, octaves, seed),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NewFromConfig creates a Perlin source from the noise section.
func NewFromConfig(cfg config.NoiseConfig) *Perlin {
	return New(cfg.Seed, cfg.Alpha, cfg.Beta, cfg.Octaves)
}

// HeightAt implements Source.HeightAt.
func (p *Perlin) HeightAt(coord float64) float64 {
	// Noise1D is roughly within [-1, 1]
	return core.ClampF(p.height.Noise1D(coord)*0.5+0.5, 0, 1)
}

// Uniform01 implements Source.Uniform01.
func (p *Perlin) Uniform01() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

// Fixed is a scripted Source for tests: a constant height and a repeating
// sequence of draws.
type Fixed struct {
	Height float64
	Draws  []float64

	next int
}

// HeightAt implements Source.HeightAt.
func (f *Fixed) HeightAt(float64) float64 {
	return f.Height
}

// Uniform01 implements Source.Uniform01. An empty sequence always draws 0.
func (f *Fixed) Uniform01() float64 {
	if len(f.Draws) == 0 {
		f.next++
		return 0
	}
	v := f.Draws[f.next%len(f.Draws)]
	f.next++
	return v
}

// Consumed returns how many draws have been taken.
func (f *Fixed) Consumed() int {
	return f.next
}
