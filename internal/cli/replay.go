package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tilewave/internal/ir"
	"github.com/roach88/tilewave/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// AttemptMismatch describes an attempt whose replay disagreed with the log.
type AttemptMismatch struct {
	Attempt  int    `json:"attempt"`
	Seed     int64  `json:"seed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID          string            `json:"run_id"`
	Theme          string            `json:"theme"`
	Attempts       int               `json:"attempts"`
	Successes      int               `json:"successes"`
	TilesetChanged bool              `json:"tileset_changed"`
	Mismatches     []AttemptMismatch `json:"mismatches,omitempty"`
	Deterministic  bool              `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-solve logged attempts and verify determinism",
		Long: `Re-solve every attempt in the attempt log and compare the outcome.

Each run's tileset is reloaded from the catalog path it was recorded with
and its hash checked against the log. Every attempt is then solved again
with its seed; the success flag and grid hash must match what was logged.

Exit codes:
  0 - All attempts replayed identically
  1 - A tileset changed or an attempt diverged
  2 - Command error (database not found, catalog unreadable, etc.)

Examples:
  wfc replay --db ./runs.db
  wfc replay --db ./runs.db --run 0192f0c4-...
  wfc replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	configureLogging(cmd.ErrOrStderr(), opts.Verbose)
	ctx := commandContext(cmd)

	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []ir.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []ir.Run{run}
	} else {
		runs, err = st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	if len(runs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Runs:             []ReplayRunResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}

	for _, run := range runs {
		runResult, err := replayRun(ctx, st, run)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		if err := outputReplayJSON(cmd, result); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, result, opts.Verbose)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from the attempt log")
	}
	return nil
}

// replayRun reloads a run's tileset and solves each logged seed again.
func replayRun(ctx context.Context, st *store.Store, run ir.Run) (ReplayRunResult, error) {
	result := ReplayRunResult{RunID: run.ID, Theme: run.Theme, Deterministic: true}

	attempts, err := st.ReadAttempts(ctx, run.ID)
	if err != nil {
		return result, err
	}
	result.Attempts = len(attempts)

	loadResult, loadErrors := LoadTileset(run.TilesetFile, run.Theme, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return result, loadErrors[0]
	}
	ts := loadResult.Tileset

	hash, err := ir.TilesetHash(ts)
	if err != nil {
		return result, err
	}
	if hash != run.TilesetHash {
		slog.Warn("tileset changed since run", "run_id", run.ID, "logged", run.TilesetHash, "current", hash)
		result.TilesetChanged = true
		result.Deterministic = false
		return result, nil
	}

	model := newModel(ts, run.Width, run.Height, run.Periodic, run.Ground, run.Heuristic)
	for _, a := range attempts {
		success := model.Run(a.Seed, run.StepLimit)
		gridHash := ""
		if success {
			gridHash, err = ir.GridHash(run.Width, run.Height, model.Observed())
			if err != nil {
				return result, err
			}
			result.Successes++
		}

		if success != a.Success || gridHash != a.GridHash {
			result.Deterministic = false
			result.Mismatches = append(result.Mismatches, AttemptMismatch{
				Attempt:  a.Attempt,
				Seed:     a.Seed,
				Expected: fmt.Sprintf("success=%v hash=%s", a.Success, a.GridHash),
				Actual:   fmt.Sprintf("success=%v hash=%s", success, gridHash),
			})
		}
	}
	return result, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	status := "ok"
	if !result.AllDeterministic {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if !result.AllDeterministic {
		response.Error = &CLIError{
			Code:    ErrCodeDiverged,
			Message: "replay diverged from the attempt log",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputReplayText outputs the replay result as human-readable text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replayed %d run(s)\n\n", result.TotalRuns)

	for _, r := range result.Runs {
		status := "✓"
		if !r.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s (%s): %d attempt(s), %d success(es)\n",
			status, r.RunID, r.Theme, r.Attempts, r.Successes)
		if r.TilesetChanged {
			fmt.Fprintln(w, "  tileset changed since the run was logged")
		}
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "  attempt %d (seed %d): expected %s\n", m.Attempt, m.Seed, m.Expected)
			if verbose {
				fmt.Fprintf(w, "    actual %s\n", m.Actual)
			}
		}
	}

	fmt.Fprintln(w)
	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All attempts replayed identically")
	} else {
		fmt.Fprintln(w, "✗ Replay diverged from the attempt log")
	}
}
