package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hill-rider/internal/ride"
	"github.com/vovakirdan/hill-rider/internal/session"
	"github.com/vovakirdan/hill-rider/internal/storage"
)

var (
	flagRideDistance float64
	flagRideSpeed    float64
	flagRideTick     time.Duration
	flagNoDB         bool
)

var rideCmd = &cobra.Command{
	Use:   "ride",
	Short: "Simulate a run and save the score",
	Long: `Moves an observer along freshly generated terrain, collecting every
coin it passes. The run is scored as distance*multiplier + coins, banked
and added to the leaderboard. Ctrl+C ends the run early; it is still
recorded.

Examples:
  rider ride
  rider ride --distance 10000 --speed 3
  rider ride --tick 16ms --log-level debug
  rider ride --no-db`,
	RunE: runRide,
}

func init() {
	rideCmd.Flags().Float64Var(&flagRideDistance, "distance", 2000, "Distance to ride")
	rideCmd.Flags().Float64Var(&flagRideSpeed, "speed", 0, "World units per tick (0 = session.speed)")
	rideCmd.Flags().DurationVar(&flagRideTick, "tick", 0, "Wall time per tick (0 = as fast as possible)")
	rideCmd.Flags().BoolVar(&flagNoDB, "no-db", false, "Keep results in memory only")
}

func runRide(cmd *cobra.Command, args []string) error {
	if err := finiteFlag("distance", flagRideDistance); err != nil {
		return err
	}
	if err := finiteFlag("speed", flagRideSpeed); err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}

	var bank session.Bank = session.NewMemoryBank()
	if !flagNoDB {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			// Continue without storage - the ride still works
			e.logger.Warn("could not open runs database", "error", err)
		} else {
			defer store.Close()
			bank = store
		}
	}

	sess, err := session.New(e.cfg.Session, bank, e.cfg.Streaming.Strategy)
	if err != nil {
		return err
	}
	gen, err := e.generator()
	if err != nil {
		return err
	}

	speed := flagRideSpeed
	if speed == 0 {
		speed = e.cfg.Session.Speed
	}
	runner, err := ride.NewRunner(gen, sess, ride.Options{
		Speed:  speed,
		Tick:   flagRideTick,
		Logger: e.logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx, flagRideDistance)
	if err != nil {
		return err
	}

	status := "finished"
	if res.Canceled {
		status = "stopped early"
	}
	fmt.Printf("Run %s (%s)\n", res.Run.ID, status)
	fmt.Println()
	fmt.Printf("  %-10s %s\n", "Strategy", res.Run.Strategy)
	fmt.Printf("  %-10s %.1f\n", "Distance", res.Run.Distance)
	fmt.Printf("  %-10s %d of %d (%d missed)\n", "Coins", res.Collected, res.Placed, res.Missed)
	fmt.Printf("  %-10s %d\n", "Score", res.Run.Score)
	fmt.Printf("  %-10s %d\n", "Banked", sess.TotalCoins())

	if rank := sess.LastRank(); rank > 0 {
		fmt.Println()
		fmt.Printf("New leaderboard entry at #%d!\n", rank)
	}
	return nil
}
