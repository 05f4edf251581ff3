package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hill-rider/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresRun   string
	flagClearRuns   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard and recent runs",
	Long: `Display the top scores, banked coins, per-strategy statistics and the
most recent runs.

Examples:
  rider scores
  rider scores --limit 20
  rider scores --run 6f1c2a9e-...
  rider scores --clear-history
  rider scores --db ./rider.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of recent runs to show")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show a single run by its ID")
	scoresCmd.Flags().BoolVar(&flagClearRuns, "clear-history", false, "Delete the run history (keeps coins and leaderboard)")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagScoresRun != "" {
		return printRun(os.Stdout, store, flagScoresRun)
	}
	if flagClearRuns {
		return clearHistory(os.Stdout, store)
	}

	board, err := store.Leaderboard()
	if err != nil {
		return err
	}
	total, err := store.TotalCoins()
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Leaderboard"))
	if len(board) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Run 'rider ride' to set the first high score!")
		return nil
	}

	top := newTable("Rank", "Score")
	for i, score := range board {
		top.Row(strconv.Itoa(i+1), strconv.Itoa(score))
	}
	fmt.Println(top.Render())
	fmt.Printf("Banked coins: %d\n\n", total)

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if len(stats) > 0 {
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println(titleStyle.Render("Strategies"))
		st := newTable("Strategy", "Runs", "Best", "Average", "Coins", "Farthest")
		for _, name := range names {
			s := stats[name]
			st.Row(
				name,
				strconv.Itoa(s.Runs),
				strconv.Itoa(s.HighScore),
				fmt.Sprintf("%.0f", s.AvgScore),
				strconv.FormatInt(s.TotalCoins, 10),
				fmt.Sprintf("%.1f", s.BestDistance),
			)
		}
		fmt.Println(st.Render())
		fmt.Println()
	}

	recent, err := store.RecentRuns(flagScoresLimit)
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render("Recent runs"))
	rt := newTable("Date", "Strategy", "Score", "Coins", "Distance")
	for _, r := range recent {
		rt.Row(
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Strategy,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Coins),
			fmt.Sprintf("%.1f", r.Distance),
		)
	}
	fmt.Println(rt.Render())
	return nil
}

// printRun writes the details of one stored run.
func printRun(w io.Writer, store *storage.Store, id string) error {
	run, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with ID %q", id)
	}

	fmt.Fprintln(w, titleStyle.Render("Run "+run.Run.ID))
	t := newTable("Field", "Value")
	t.Row("Date", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	t.Row("Strategy", run.Strategy)
	t.Row("Score", strconv.Itoa(run.Score))
	t.Row("Coins", strconv.Itoa(run.Coins))
	t.Row("Distance", fmt.Sprintf("%.1f", run.Distance))
	fmt.Fprintln(w, t.Render())
	return nil
}

// clearHistory deletes stored runs and reports how many were removed.
func clearHistory(w io.Writer, store *storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	runs := 0
	for _, s := range stats {
		runs += s.Runs
	}
	if err := store.ClearRuns(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %d runs. Banked coins and the leaderboard were kept.\n", runs)
	return nil
}
