package config

import (
	_ "embed"
)

//go:embed defaults/rider.yaml
var defaultRiderYAML []byte

// DefaultRiderConfig returns the default generator configuration.
// It must stay in sync with defaults/rider.yaml.
func DefaultRiderConfig() RiderConfig {
	return RiderConfig{
		Noise: NoiseConfig{
			Seed:    0,
			Alpha:   2,
			Beta:    2,
			Octaves: 3,
		},
		Terrain: TerrainConfig{
			StartX:            0,
			StepX:             15.9,
			HeightScale:       24,
			TangentSmoothness: 0.1,
			FloorDepth:        40,
			NoiseFrequency:    0.0063,
		},
		Coins: CoinConfig{
			VerticalOffset: 2,
			SpawnChance:    0.7,
			CheckInterval:  1,
			MaxConsecutive: 4,
			PersistRun:     false,
		},
		Streaming: StreamingConfig{
			Strategy:        "spline",
			TriggerDistance: 50,
			BatchSize:       10,
			InitialBatch:    100,
			RetainSegments:  3,
			Chunk: ChunkConfig{
				Length:   25,
				ConnectY: -23.5,
				Prefabs:  4,
				Keep:     3,
			},
		},
		Session: SessionConfig{
			CoinValue:          10,
			DistanceMultiplier: 10,
			LeaderboardSize:    5,
			Speed:              1.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 5000,
			},
			Scaling: ScalingConfig{
				HeightMultiplier: 1.0,
				ChanceReduction:  0.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRiderYAML
}
