// rider generates endless hill terrain with collectible coins and rides it
// headless.
//
// Usage:
//
//	rider list               - List generation strategies
//	rider generate           - Dump generated terrain as JSON or YAML
//	rider preview            - Print a side view of the streaming window
//	rider ride               - Simulate a run and record the score
//	rider scores             - Show the leaderboard and recent runs
//	rider config             - Print the effective configuration
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible terrain
//	--db <path>           - Set database path (default: ~/.rider/rider.db)
//	--config <path>       - Custom config YAML
//	--strategy <name>     - Override streaming.strategy
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import strategies to register them
	_ "github.com/vovakirdan/hill-rider/internal/streaming"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagStrategy   string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rider",
	Short: "Hill Rider - endless terrain and coin generator",
	Long: `Hill Rider streams procedurally generated hill terrain ahead of a
moving observer, scatters coins along it and keeps score.

Available commands:
  list      - Show all generation strategies
  generate  - Generate terrain and print it as JSON or YAML
  preview   - Draw the terrain around a position
  ride      - Simulate a run and save the score
  scores    - View the leaderboard and recent runs
  config    - Print the effective configuration

Examples:
  rider list
  rider generate --distance 2000 --format yaml
  rider preview --at 500 --seed 42
  rider ride --distance 5000 --difficulty hard
  rider scores`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, then time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rider/rider.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStrategy, "strategy", "", "Generation strategy (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(rideCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}
