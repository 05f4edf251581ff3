// Package ride drives a generator with a simulated rider: the top-level
// loop that owns the generator, the session and the coins in play.
package ride

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/registry"
	"github.com/vovakirdan/hill-rider/internal/session"
)

// Options configures a Runner.
type Options struct {
	Speed  float64       // World units per tick
	Tick   time.Duration // Wall time per tick, 0 runs as fast as possible
	Logger *log.Logger   // nil disables logging
}

// Result summarizes a finished ride.
type Result struct {
	Run      session.Run
	Ticks    int
	Canceled bool // Stopped by the context before reaching the distance

	Placed    int // Coins emitted by the generator
	Collected int // Coins picked up
	Missed    int // Coins dropped with retired terrain
	Remaining int // Coins still ahead when the ride ended

	Batches       int
	PointsTrimmed int
	ChunksSpawned int
	ChunksEvicted int
	Frontier      float64
}

// Runner advances a rider along generated terrain one tick at a time.
type Runner struct {
	gen     registry.Generator
	session *session.Session
	opts    Options

	started bool
	x       float64
	coins   []core.Placement // ordered by x
	result  Result
}

// NewRunner returns a runner for gen that reports into sess.
func NewRunner(gen registry.Generator, sess *session.Session, opts Options) (*Runner, error) {
	if gen == nil || sess == nil {
		return nil, fmt.Errorf("ride: generator and session are required")
	}
	if opts.Speed <= 0 || math.IsNaN(opts.Speed) || math.IsInf(opts.Speed, 0) {
		return nil, fmt.Errorf("ride: speed must be a positive number, got %g", opts.Speed)
	}
	return &Runner{gen: gen, session: sess, opts: opts}, nil
}

// Run rides until distance is reached or ctx is done. The run is ended and
// persisted in both cases. A Runner rides once.
func (r *Runner) Run(ctx context.Context, distance float64) (Result, error) {
	if r.started {
		return Result{}, fmt.Errorf("ride: runner already used")
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return Result{}, fmt.Errorf("ride: distance must be finite, got %g", distance)
	}
	r.started = true
	r.session.StartNewRun()
	r.apply(r.gen.Initial())
	r.catchUp()

	var ticker *time.Ticker
	if r.opts.Tick > 0 {
		ticker = time.NewTicker(r.opts.Tick)
		defer ticker.Stop()
	}

loop:
	for r.x < distance {
		if ticker != nil {
			select {
			case <-ctx.Done():
				r.result.Canceled = true
				break loop
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			r.result.Canceled = true
			break
		}
		r.step(math.Min(r.x+r.opts.Speed, distance))
	}

	r.result.Remaining = len(r.coins)
	r.result.Frontier = r.gen.Frontier()

	run, err := r.session.EndRun()
	r.result.Run = run
	if err != nil {
		return r.result, fmt.Errorf("ride: %w", err)
	}

	if r.opts.Logger != nil {
		r.opts.Logger.Info("ride finished",
			"strategy", r.gen.Strategy(),
			"distance", run.Distance,
			"score", run.Score,
			"coins", r.result.Collected,
			"ticks", r.result.Ticks,
			"canceled", r.result.Canceled,
		)
	}
	return r.result, nil
}

// step moves the rider to x and settles coins and terrain around it.
func (r *Runner) step(x float64) {
	r.x = x
	r.result.Ticks++
	r.session.Track(x)

	r.collect()
	r.catchUp()
	// Coins generated behind the rider in a long jump count as passed
	r.collect()
}

// catchUp calls Advance until the generator reports nothing new.
func (r *Runner) catchUp() {
	for {
		u := r.gen.Advance(r.x)
		if !u.Generated {
			return
		}
		r.apply(u)
	}
}

func (r *Runner) apply(u core.Update) {
	if !u.Generated {
		return
	}
	r.result.Batches++
	r.result.PointsTrimmed += u.Trimmed
	r.result.ChunksSpawned += len(u.Spawned)
	r.result.ChunksEvicted += len(u.Evicted)
	r.result.Placed += len(u.Placements)

	r.coins = append(r.coins, u.Placements...)
	sort.SliceStable(r.coins, func(i, j int) bool {
		return r.coins[i].Position.X < r.coins[j].Position.X
	})

	if !u.Retired() {
		return
	}
	kept := r.coins[:0]
	for _, c := range r.coins {
		if c.Position.X < u.RetiredBefore {
			r.result.Missed++
			continue
		}
		kept = append(kept, c)
	}
	r.coins = kept
}

// collect picks up every coin the rider has reached.
func (r *Runner) collect() {
	n := sort.Search(len(r.coins), func(i int) bool {
		return r.coins[i].Position.X > r.x
	})
	for i := 0; i < n; i++ {
		r.session.CollectCoin()
	}
	r.result.Collected += n
	r.coins = r.coins[n:]
}

// Position returns the rider's current x-coordinate.
func (r *Runner) Position() float64 {
	return r.x
}

// ActiveCoins returns the coins still in play, ordered by x.
func (r *Runner) ActiveCoins() []core.Placement {
	return append([]core.Placement(nil), r.coins...)
}
