package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hill-rider/internal/config"
	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/noise"
	"github.com/vovakirdan/hill-rider/internal/registry"
)

// env is the resolved state every command starts from.
type env struct {
	cfg    config.RiderConfig
	seed   int64
	logger *log.Logger
}

// newLogger builds the stderr logger from --log-level.
func newLogger() (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rider",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// loadEnv loads the config and applies the global flags on top of it.
func loadEnv() (*env, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadRider(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return nil, fmt.Errorf("unknown difficulty %q (easy, normal, hard, fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagStrategy != "" {
		cfg.Streaming.Strategy = flagStrategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !registry.Exists(cfg.Streaming.Strategy) {
		if guess := registry.Suggest(cfg.Streaming.Strategy); guess != "" {
			return nil, fmt.Errorf("unknown strategy %q (did you mean %q?)", cfg.Streaming.Strategy, guess)
		}
		return nil, fmt.Errorf("unknown strategy %q; run 'rider list'", cfg.Streaming.Strategy)
	}

	// Flag seed wins over config seed; 0 in both means time based
	seed := flagSeed
	if seed == 0 {
		seed = cfg.Noise.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg.Noise.Seed = seed

	logger.Debug("configuration loaded",
		"strategy", cfg.Streaming.Strategy,
		"seed", seed,
		"difficulty", cfg.Difficulty.Enabled,
	)
	return &env{cfg: cfg, seed: seed, logger: logger}, nil
}

// finiteFlag rejects NaN and infinities, which ParseFloat accepts.
func finiteFlag(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("--%s must be a finite number, got %g", name, v)
	}
	return nil
}

// generator creates the configured strategy with a fresh noise source.
func (e *env) generator() (registry.Generator, error) {
	return registry.Create(e.cfg.Streaming.Strategy, registry.Options{
		Config:     e.cfg,
		Source:     noise.NewFromConfig(e.cfg.Noise),
		Difficulty: config.NewDifficultyManager(e.cfg.Difficulty),
		Logger:     e.logger,
	})
}

// tracker follows generator updates the way a consumer would: it keeps the
// coins and chunks that still exist.
type tracker struct {
	coins   []core.Placement
	chunks  []core.Chunk
	all     []core.Placement
	spawned []core.Chunk
}

func (t *tracker) apply(u core.Update) {
	if !u.Generated {
		return
	}
	t.coins = append(t.coins, u.Placements...)
	t.all = append(t.all, u.Placements...)
	t.chunks = append(t.chunks, u.Spawned...)
	t.spawned = append(t.spawned, u.Spawned...)
	if !u.Retired() {
		return
	}

	coins := t.coins[:0]
	for _, c := range t.coins {
		if c.Position.X >= u.RetiredBefore {
			coins = append(coins, c)
		}
	}
	t.coins = coins

	evicted := make(map[int]bool, len(u.Evicted))
	for _, c := range u.Evicted {
		evicted[c.ID] = true
	}
	chunks := t.chunks[:0]
	for _, c := range t.chunks {
		if !evicted[c.ID] {
			chunks = append(chunks, c)
		}
	}
	t.chunks = chunks
}

// advanceTo moves the observer to x, calling Advance until the generator
// has caught up.
func (t *tracker) advanceTo(gen registry.Generator, x float64) {
	for {
		u := gen.Advance(x)
		if !u.Generated {
			return
		}
		t.apply(u)
	}
}

// driveTo starts a generator and steps the observer to x.
func driveTo(gen registry.Generator, x, step float64) *tracker {
	t := &tracker{}
	t.apply(gen.Initial())
	if step <= 0 {
		step = x
	}
	for pos := 0.0; pos < x; pos += step {
		t.advanceTo(gen, pos)
	}
	t.advanceTo(gen, x)
	return t
}
