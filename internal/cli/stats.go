package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/autotimer/internal/data"
	"github.com/roach88/autotimer/internal/engine"
	"github.com/roach88/autotimer/internal/ir"
	"github.com/roach88/autotimer/internal/store"
	"github.com/roach88/autotimer/internal/timing"
)

// DefaultWindow is how many recent runs the rolling average covers.
const DefaultWindow = 5

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
	Window   int
}

// StatsResult summarizes the completed runs in a database.
// Durations are whole milliseconds.
type StatsResult struct {
	Runs      int         `json:"runs"`
	BestMS    int64       `json:"best_ms"`
	AverageMS int64       `json:"average_ms"`
	RollingMS int64       `json:"rolling_ms"`
	Window    int         `json:"window"`
	Latest    *LatestRun  `json:"latest,omitempty"`
	Splits    []SplitStat `json:"splits,omitempty"`
}

// LatestRun is the most recent completed run judged against the ones
// before it.
type LatestRun struct {
	Session    string `json:"session"`
	DurationMS int64  `json:"duration_ms"`
	Verdict    string `json:"verdict"`
	DiffMS     int64  `json:"diff_ms"`
}

// SplitStat aggregates one objective position across runs.
type SplitStat struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	BestMS int64  `json:"best_ms"`
	AvgMS  int64  `json:"avg_ms"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize completed runs",
		Long: `Read every completed run from the database and report the best,
average and rolling average times, plus the verdict of the latest run
against the best run before it.

A run is completed when its last objective is the Triforce or the end
credits.

Exit codes:
  0 - Statistics reported (also when there are no completed runs)
  2 - Command error (database not found, etc.)

Examples:
  autotimer stats --db ./autotimer.db
  autotimer stats --db ./autotimer.db --window 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Window, "window", DefaultWindow, "number of recent runs in the rolling average")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Window <= 0 {
		_ = formatter.Error(ErrCodeGeneric, "window must be positive", nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid window %d", opts.Window))
	}

	// store.Open would create a missing database.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ReadRuns(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	completed := completedRuns(runs)
	formatter.VerboseLog("Found %d run(s), %d completed", len(runs), len(completed))

	// Stored records only name transitions.
	ds, err := data.Default()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load check data", err)
	}
	result := Summarize(completed, opts.Window, ds)
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	printStats(formatter, result)
	return nil
}

// Summarize computes statistics over runs, oldest first. Split names
// missing from the runs are looked up in ds when it is not nil.
func Summarize(runs []timing.RunRecord, window int, ds *data.Dataset) StatsResult {
	durations := timing.RunDurations(runs)
	result := StatsResult{Runs: len(durations), Window: window}
	if len(durations) == 0 {
		return result
	}

	best, _ := durations.Min()
	avg, _ := durations.Avg()
	rolling, _ := durations.RollingAvg(window)
	result.BestMS = best.Milliseconds()
	result.AverageMS = avg.Milliseconds()
	result.RollingMS = rolling.Milliseconds()

	last := durations[len(durations)-1]
	verdict := durations[:len(durations)-1].Verdict(last)
	result.Latest = &LatestRun{
		Session:    runs[len(runs)-1].Session,
		DurationMS: last.Milliseconds(),
		Verdict:    verdict.Kind.String(),
		DiffMS:     verdict.Diff.Milliseconds(),
	}

	// Splits are only comparable across runs of the same route; the
	// latest run names them.
	latest := runs[len(runs)-1]
	for i := 1; i < latest.Len(); i++ {
		gaps := timing.ObjectiveDurations(runs, i)
		bestGap, _ := gaps.Min()
		avgGap, _ := gaps.Avg()
		result.Splits = append(result.Splits, SplitStat{
			Index:  i,
			Name:   splitLabel(latest.Splits[i], ds),
			BestMS: bestGap.Milliseconds(),
			AvgMS:  avgGap.Milliseconds(),
		})
	}
	return result
}

func printStats(f *OutputFormatter, r StatsResult) {
	if r.Runs == 0 {
		fmt.Fprintln(f.Writer, "No completed runs found in database.")
		return
	}
	ms := func(v int64) string { return timing.FormatDuration(time.Duration(v) * time.Millisecond) }

	fmt.Fprintf(f.Writer, "Completed runs: %d\n", r.Runs)
	fmt.Fprintf(f.Writer, "Best:           %s\n", ms(r.BestMS))
	fmt.Fprintf(f.Writer, "Average:        %s\n", ms(r.AverageMS))
	fmt.Fprintf(f.Writer, "Rolling (%d):    %s\n", r.Window, ms(r.RollingMS))

	if r.Latest != nil {
		kind := timing.VerdictBest
		switch r.Latest.Verdict {
		case timing.VerdictOk.String():
			kind = timing.VerdictOk
		case timing.VerdictBad.String():
			kind = timing.VerdictBad
		}
		verdict := timing.Verdict{Kind: kind, Diff: time.Duration(r.Latest.DiffMS) * time.Millisecond}
		fmt.Fprintf(f.Writer, "\nLatest (%s)\n", r.Latest.Session)
		fmt.Fprintf(f.Writer, "  %s\n", verdict.Describe(time.Duration(r.Latest.DurationMS)*time.Millisecond))
	}

	if len(r.Splits) > 0 {
		fmt.Fprintln(f.Writer, "\nSplits (best / avg):")
		for _, s := range r.Splits {
			fmt.Fprintf(f.Writer, "  %2d. %-32s %10s %10s\n", s.Index, s.Name, ms(s.BestMS), ms(s.AvgMS))
		}
	}
}

// completedRuns keeps the runs whose last objective ended the game.
func completedRuns(runs []timing.RunRecord) []timing.RunRecord {
	var out []timing.RunRecord
	for _, r := range runs {
		if n := r.Len(); n > 0 && isVictory(r.Splits[n-1].Kind, r.Splits[n-1].ID) {
			out = append(out, r)
		}
	}
	return out
}

// isVictory reports whether an event ends a run: the Triforce event or a
// transition to the end credits.
func isVictory(kind ir.EventKind, id int) bool {
	switch kind {
	case ir.EventOther:
		return id == engine.VictoryEventID
	case ir.EventTransition:
		return id == engine.EndCreditsTileID
	}
	return false
}

func splitLabel(s timing.Split, ds *data.Dataset) string {
	if s.Name != "" {
		return s.Name
	}
	if ds != nil {
		if name, ok := ds.NameOf(s.Kind, s.ID); ok {
			return name
		}
	}
	return fmt.Sprintf("%s #%d", s.Kind, s.ID)
}
