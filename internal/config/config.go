// Package config provides YAML-based generator configuration loading,
// validation and difficulty management.
package config

// RiderConfig contains every tunable of the terrain generator and the run
// economy built on top of it.
type RiderConfig struct {
	Noise      NoiseConfig      `yaml:"noise"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Coins      CoinConfig       `yaml:"coins"`
	Streaming  StreamingConfig  `yaml:"streaming"`
	Session    SessionConfig    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// NoiseConfig defines the perlin noise parameters.
type NoiseConfig struct {
	Seed    int64   `yaml:"seed"` // 0 = pick from time at startup
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int     `yaml:"octaves"`
}

// TerrainConfig defines the ground curve geometry.
type TerrainConfig struct {
	StartX            float64 `yaml:"start_x"`
	StepX             float64 `yaml:"step_x"`             // Horizontal spacing between points
	HeightScale       float64 `yaml:"height_scale"`       // Vertical scaling factor
	TangentSmoothness float64 `yaml:"tangent_smoothness"` // Tangent length as a fraction of step_x
	FloorDepth        float64 `yaml:"floor_depth"`        // Depth of the closing floor below y=0
	NoiseFrequency    float64 `yaml:"noise_frequency"`    // Noise units per world unit
}

// CoinConfig defines how coins are placed along new terrain.
type CoinConfig struct {
	VerticalOffset float64 `yaml:"vertical_offset"`
	SpawnChance    float64 `yaml:"spawn_chance"`
	CheckInterval  int     `yaml:"check_interval"`
	MaxConsecutive int     `yaml:"max_consecutive"`

	// PersistRun carries the consecutive-coin counter across batches so a
	// run cannot exceed MaxConsecutive by straddling a batch boundary.
	PersistRun bool `yaml:"persist_run"`
}

// StreamingConfig defines when terrain is generated and retired.
type StreamingConfig struct {
	Strategy        string      `yaml:"strategy"` // "spline" or "chunk"
	TriggerDistance float64     `yaml:"trigger_distance"`
	BatchSize       int         `yaml:"batch_size"`
	InitialBatch    int         `yaml:"initial_batch"`
	RetainSegments  int         `yaml:"retain_segments"` // 0 disables trimming for splines
	Chunk           ChunkConfig `yaml:"chunk"`
}

// ChunkConfig defines the coarse prefab chunk strategy.
type ChunkConfig struct {
	Length   float64 `yaml:"length"`
	ConnectY float64 `yaml:"connect_y"` // Fixed Y every chunk is spawned at
	Prefabs  int     `yaml:"prefabs"`   // Number of prefab variants to pick from
	Keep     int     `yaml:"keep"`      // Chunks kept ahead of and behind the observer
}

// SessionConfig defines the coin and score economy of a run.
type SessionConfig struct {
	CoinValue          int     `yaml:"coin_value"`
	DistanceMultiplier float64 `yaml:"distance_multiplier"`
	LeaderboardSize    int     `yaml:"leaderboard_size"`
	Speed              float64 `yaml:"speed"` // World units per tick in simulated rides
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases along the track.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "distance" or "none"
	MaxAt float64 `yaml:"max_at"` // Distance at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	HeightMultiplier float64 `yaml:"height_multiplier"` // Added to height scale at max difficulty
	ChanceReduction  float64 `yaml:"chance_reduction"`  // Fraction of spawn chance removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RiderConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
