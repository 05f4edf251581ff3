package config

import "math"

// DifficultyManager calculates dynamic generation parameters based on how
// far along the track a point is.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty scaling is active.
// A nil manager is always disabled.
func (d *DifficultyManager) IsEnabled() bool {
	return d != nil && d.cfg.Enabled
}

// Level returns the current difficulty level (0.0 to 1.0) at distance x.
func (d *DifficultyManager) Level(x float64) float64 {
	if !d.IsEnabled() {
		return 0
	}
	if d.cfg.Progression.Type != "distance" {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	// Distance behind the start counts as no progress
	progress := clampF(x/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// HeightScale returns the hill height scale at distance x.
func (d *DifficultyManager) HeightScale(base, x float64) float64 {
	if !d.IsEnabled() {
		return base
	}
	// Height grows from base to base * (1 + heightMultiplier)
	return base * (1.0 + d.Level(x)*d.cfg.Scaling.HeightMultiplier)
}

// SpawnChance returns the coin spawn chance at distance x.
func (d *DifficultyManager) SpawnChance(base, x float64) float64 {
	if !d.IsEnabled() {
		return base
	}
	// Chance shrinks as difficulty increases
	return clampF(base*(1.0-d.Level(x)*d.cfg.Scaling.ChanceReduction), 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
