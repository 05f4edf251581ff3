package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hill-rider/internal/core"
	"github.com/vovakirdan/hill-rider/internal/preview"
)

var (
	flagPreviewAt    float64
	flagPreviewSpan  float64
	flagPreviewPlain bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw the terrain around a position",
	Long: `Streams terrain up to --at the way a rider would, then prints a side
view of the retained window around that position. The view fills the
terminal width.

Legend:
  _ / \   ground surface
  :       ground fill
  o       coin
  |       chunk seam
  @       observer

Examples:
  rider preview
  rider preview --at 2500 --span 600 --seed 42
  rider preview --strategy chunk --plain`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Float64Var(&flagPreviewAt, "at", 0, "Observer position")
	previewCmd.Flags().Float64Var(&flagPreviewSpan, "span", 400, "World units shown across the screen")
	previewCmd.Flags().BoolVar(&flagPreviewPlain, "plain", false, "Print without colors")
}

func runPreview(cmd *cobra.Command, args []string) error {
	for name, v := range map[string]float64{"at": flagPreviewAt, "span": flagPreviewSpan} {
		if err := finiteFlag(name, v); err != nil {
			return err
		}
	}
	if flagPreviewSpan <= 0 {
		return fmt.Errorf("--span must be > 0")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	gen, err := e.generator()
	if err != nil {
		return err
	}
	t := driveTo(gen, flagPreviewAt, e.cfg.Streaming.TriggerDistance)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h - 1 // Leave room for the prompt
	}

	from := flagPreviewAt - flagPreviewSpan/4
	to := from + flagPreviewSpan
	frame := preview.Frame{
		From:      from,
		To:        to,
		Ground:    gen.Ground(from, to),
		Chunks:    t.chunks,
		ShowRider: true,
		RiderX:    flagPreviewAt,
	}
	for _, c := range t.coins {
		if c.Position.X >= from && c.Position.X <= to {
			frame.Coins = append(frame.Coins, c)
		}
	}
	frame.Title = fmt.Sprintf("%s seed %d  %s", gen.Strategy(), e.seed, preview.Caption(frame, len(frame.Coins)))

	screen := core.NewScreen(width, height)
	preview.Draw(screen, frame)

	if flagPreviewPlain {
		fmt.Println(screen.String())
	} else {
		fmt.Println(preview.RenderScreen(screen))
	}
	return nil
}
