package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tilewave/internal/ir"
	"github.com/roach88/tilewave/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - list runs when empty
	Failed   bool   // only contradictions
}

// TraceStats holds summary statistics for a run.
type TraceStats struct {
	Attempts       int `json:"attempts"`
	Successes      int `json:"successes"`
	Contradictions int `json:"contradictions"`
	Steps          int `json:"steps"`
}

// TraceResult is the attempt timeline of one run.
type TraceResult struct {
	Run      ir.Run       `json:"run"`
	Attempts []ir.Attempt `json:"attempts"`
	Stats    TraceStats   `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show logged runs and their attempts",
		Long: `Show the attempt log.

Without --run, lists every logged run with its settings. With --run, shows
the attempts of that run in order: seed, outcome, steps taken and grid hash.

Examples:
  wfc trace --db ./runs.db
  wfc trace --db ./runs.db --run 0192f0c4-...
  wfc trace --db ./runs.db --run 0192f0c4-... --failed --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to trace")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "show only contradicted attempts")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			return outputTraceJSON(cmd, runs)
		}
		outputRunsText(cmd, runs)
		return nil
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	attempts, err := st.ReadAttempts(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read attempts", err)
	}

	result := TraceResult{Run: run, Attempts: filterAttempts(attempts, opts.Failed)}
	result.Stats = traceStats(attempts)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	outputTraceText(cmd, result, opts.Verbose)
	return nil
}

// filterAttempts keeps only contradictions when failedOnly is set.
func filterAttempts(attempts []ir.Attempt, failedOnly bool) []ir.Attempt {
	if !failedOnly {
		return attempts
	}
	out := []ir.Attempt{}
	for _, a := range attempts {
		if !a.Success {
			out = append(out, a)
		}
	}
	return out
}

// traceStats summarizes all attempts of a run, ignoring any filter.
func traceStats(attempts []ir.Attempt) TraceStats {
	stats := TraceStats{Attempts: len(attempts)}
	for _, a := range attempts {
		if a.Success {
			stats.Successes++
		} else {
			stats.Contradictions++
		}
		stats.Steps += a.Steps
	}
	return stats
}

func outputTraceJSON(cmd *cobra.Command, data interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

func outputRunsText(cmd *cobra.Command, runs []ir.Run) {
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return
	}
	fmt.Fprintf(w, "%d run(s)\n\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s/%s  %dx%d  %s", r.ID, r.Genre, r.Theme, r.Width, r.Height, r.Heuristic)
		if r.Periodic {
			fmt.Fprint(w, "  periodic")
		}
		if r.Ground {
			fmt.Fprint(w, "  ground")
		}
		fmt.Fprintln(w)
	}
}

func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) {
	w := cmd.OutOrStdout()
	r := result.Run

	fmt.Fprintf(w, "Run %s\n", r.ID)
	fmt.Fprintf(w, "  %s/%s  %dx%d  heuristic=%s  limit=%d\n", r.Genre, r.Theme, r.Width, r.Height, r.Heuristic, r.StepLimit)
	fmt.Fprintf(w, "  tileset %s (%s)\n\n", r.TilesetFile, r.TilesetHash)

	if len(result.Attempts) == 0 {
		fmt.Fprintln(w, "No attempts.")
	}
	for _, a := range result.Attempts {
		status := "✓"
		if !a.Success {
			status = "✗"
		}
		fmt.Fprintf(w, "%s #%d seed=%d steps=%d", status, a.Attempt, a.Seed, a.Steps)
		if a.Success && verbose {
			fmt.Fprintf(w, " grid=%s", a.GridHash)
		}
		fmt.Fprintln(w)
	}

	s := result.Stats
	fmt.Fprintf(w, "\n%d attempt(s): %d success(es), %d contradiction(s), %d step(s)\n",
		s.Attempts, s.Successes, s.Contradictions, s.Steps)
}
