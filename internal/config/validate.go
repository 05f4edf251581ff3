package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is matched by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Error reports a single invalid configuration field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalid) match.
func (e *Error) Unwrap() error {
	return ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// field pairs a yaml path with its value for the finiteness check.
type field struct {
	name  string
	value float64
}

// finite rejects NaN and infinities, which slip through ordered
// comparisons.
func finite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.name, "must be finite, got %g", f.value)
		}
	}
	return nil
}

// Validate checks the noise section.
func (c NoiseConfig) Validate() error {
	if err := finite(field{"noise.alpha", c.Alpha}, field{"noise.beta", c.Beta}); err != nil {
		return err
	}
	if c.Octaves < 1 {
		return invalid("noise.octaves", "must be >= 1, got %d", c.Octaves)
	}
	return nil
}

// Validate checks the terrain section.
func (c TerrainConfig) Validate() error {
	if err := finite(
		field{"terrain.start_x", c.StartX},
		field{"terrain.step_x", c.StepX},
		field{"terrain.height_scale", c.HeightScale},
		field{"terrain.tangent_smoothness", c.TangentSmoothness},
		field{"terrain.floor_depth", c.FloorDepth},
		field{"terrain.noise_frequency", c.NoiseFrequency},
	); err != nil {
		return err
	}
	if c.StepX <= 0 {
		return invalid("terrain.step_x", "must be > 0, got %g", c.StepX)
	}
	if c.HeightScale < 0 {
		return invalid("terrain.height_scale", "must be >= 0, got %g", c.HeightScale)
	}
	if c.TangentSmoothness < 0 {
		return invalid("terrain.tangent_smoothness", "must be >= 0, got %g", c.TangentSmoothness)
	}
	if c.NoiseFrequency <= 0 {
		return invalid("terrain.noise_frequency", "must be > 0, got %g", c.NoiseFrequency)
	}
	// Heights span [-height_scale/2, height_scale/2].
	if c.FloorDepth <= c.HeightScale/2 {
		return invalid("terrain.floor_depth", "must exceed height_scale/2 (%g), got %g", c.HeightScale/2, c.FloorDepth)
	}
	return nil
}

// Validate checks the coin placement section.
func (c CoinConfig) Validate() error {
	if err := finite(
		field{"coins.vertical_offset", c.VerticalOffset},
		field{"coins.spawn_chance", c.SpawnChance},
	); err != nil {
		return err
	}
	if c.SpawnChance < 0 || c.SpawnChance > 1 {
		return invalid("coins.spawn_chance", "must be in [0, 1], got %g", c.SpawnChance)
	}
	if c.CheckInterval < 1 {
		return invalid("coins.check_interval", "must be >= 1, got %d", c.CheckInterval)
	}
	if c.MaxConsecutive < 0 {
		return invalid("coins.max_consecutive", "must be >= 0, got %d", c.MaxConsecutive)
	}
	return nil
}

// Validate checks the streaming section, including the chunk settings
// when the chunk strategy is selected.
func (c StreamingConfig) Validate() error {
	if c.Strategy == "" {
		return invalid("streaming.strategy", "must not be empty")
	}
	if err := finite(field{"streaming.trigger_distance", c.TriggerDistance}); err != nil {
		return err
	}
	if c.TriggerDistance < 0 {
		return invalid("streaming.trigger_distance", "must be >= 0, got %g", c.TriggerDistance)
	}
	if c.BatchSize < 1 {
		return invalid("streaming.batch_size", "must be >= 1, got %d", c.BatchSize)
	}
	if c.InitialBatch < 0 {
		return invalid("streaming.initial_batch", "must be >= 0, got %d", c.InitialBatch)
	}
	if c.RetainSegments < 0 {
		return invalid("streaming.retain_segments", "must be >= 0, got %d", c.RetainSegments)
	}
	if c.Strategy == "chunk" {
		return c.Chunk.Validate()
	}
	return nil
}

// Validate checks the chunk section.
func (c ChunkConfig) Validate() error {
	if err := finite(
		field{"streaming.chunk.length", c.Length},
		field{"streaming.chunk.connect_y", c.ConnectY},
	); err != nil {
		return err
	}
	if c.Length <= 0 {
		return invalid("streaming.chunk.length", "must be > 0, got %g", c.Length)
	}
	if c.Prefabs < 1 {
		return invalid("streaming.chunk.prefabs", "must be >= 1, got %d", c.Prefabs)
	}
	if c.Keep < 1 {
		return invalid("streaming.chunk.keep", "must be >= 1, got %d", c.Keep)
	}
	return nil
}

// Validate checks the session section.
func (c SessionConfig) Validate() error {
	if err := finite(
		field{"session.distance_multiplier", c.DistanceMultiplier},
		field{"session.speed", c.Speed},
	); err != nil {
		return err
	}
	if c.CoinValue < 0 {
		return invalid("session.coin_value", "must be >= 0, got %d", c.CoinValue)
	}
	if c.DistanceMultiplier < 0 {
		return invalid("session.distance_multiplier", "must be >= 0, got %g", c.DistanceMultiplier)
	}
	if c.LeaderboardSize < 1 {
		return invalid("session.leaderboard_size", "must be >= 1, got %d", c.LeaderboardSize)
	}
	if c.Speed <= 0 {
		return invalid("session.speed", "must be > 0, got %g", c.Speed)
	}
	return nil
}

// Validate checks the difficulty section.
func (c DifficultyConfig) Validate() error {
	if err := finite(
		field{"difficulty.initial_level", c.InitialLevel},
		field{"difficulty.progression.max_at", c.Progression.MaxAt},
		field{"difficulty.scaling.height_multiplier", c.Scaling.HeightMultiplier},
		field{"difficulty.scaling.chance_reduction", c.Scaling.ChanceReduction},
	); err != nil {
		return err
	}
	if c.InitialLevel < 0 || c.InitialLevel > 1 {
		return invalid("difficulty.initial_level", "must be in [0, 1], got %g", c.InitialLevel)
	}
	switch c.Progression.Type {
	case "distance", "none", "":
	default:
		return invalid("difficulty.progression.type", "must be \"distance\" or \"none\", got %q", c.Progression.Type)
	}
	if c.Scaling.ChanceReduction < 0 || c.Scaling.ChanceReduction > 1 {
		return invalid("difficulty.scaling.chance_reduction", "must be in [0, 1], got %g", c.Scaling.ChanceReduction)
	}
	return nil
}

// Validate checks every section and the constraints between them.
// The first problem found is returned.
func (c RiderConfig) Validate() error {
	validators := []func() error{
		c.Noise.Validate,
		c.Terrain.Validate,
		c.Coins.Validate,
		c.Streaming.Validate,
		c.Session.Validate,
		c.Difficulty.Validate,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}

	// After a trim the oldest retained point must stay behind the observer.
	// The frontier can overshoot observer+trigger_distance by one batch.
	if c.Streaming.Strategy != "chunk" && c.Streaming.RetainSegments > 0 {
		retained := c.Streaming.RetainSegments * c.Streaming.BatchSize
		span := float64(retained-1) * c.Terrain.StepX
		need := c.Streaming.TriggerDistance + float64(c.Streaming.BatchSize)*c.Terrain.StepX
		if span < need {
			return invalid("streaming.retain_segments",
				"%d points span %g, less than trigger_distance plus one batch (%g)", retained, span, need)
		}
	}

	// The floor has to clear the tallest hills difficulty can produce.
	if c.Difficulty.Enabled {
		maxScale := c.Terrain.HeightScale * (1 + c.Difficulty.Scaling.HeightMultiplier)
		if c.Terrain.FloorDepth <= maxScale/2 {
			return invalid("terrain.floor_depth", "must exceed %g at max difficulty, got %g", maxScale/2, c.Terrain.FloorDepth)
		}
	}
	return nil
}
