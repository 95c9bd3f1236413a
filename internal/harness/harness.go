package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tilewave/internal/compiler"
	"github.com/roach88/tilewave/internal/engine"
	"github.com/roach88/tilewave/internal/ir"
	"github.com/roach88/tilewave/internal/render"
	"github.com/roach88/tilewave/internal/store"
	"github.com/roach88/tilewave/internal/testutil"
)

// Harness holds the state of one scenario execution.
type Harness struct {
	scenario *Scenario
	tileset  *ir.Tileset
	store    *store.Store
	runID    string
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario logs to a fresh in-memory database for isolation, with a
// fixed run id so repeated executions are identical.
//
// Execution flow:
//  1. Load, validate and compile the tileset
//  2. Solve every seed on one Model, logging each attempt
//  3. Check the expected outcome per seed
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	_, ts, err := compiler.LoadTileset(scenario.Tileset, scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load tileset: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		tileset:  ts,
		store:    st,
		runID:    testutil.NewFixedRunIDGenerator(scenario.Name).Generate(),
		logger:   slog.Default().With("scenario", scenario.Name),
	}

	ctx := context.Background()
	result := NewResult()
	result.names = ts.Names()
	result.width = scenario.Width

	if err := h.solve(ctx, result); err != nil {
		return nil, err
	}
	h.checkExpect(result)

	for _, assertion := range scenario.Assertions {
		if err := h.evaluate(ctx, assertion, result); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

// newModel builds a Model with the scenario's options.
func (h *Harness) newModel() *engine.Model {
	s := h.scenario
	return engine.New(h.tileset, s.Width, s.Height,
		engine.WithPeriodic(s.Periodic),
		engine.WithGround(s.Ground),
		engine.WithHeuristic(engine.ParseHeuristic(s.Heuristic)),
	)
}

func (h *Harness) limit() int {
	if h.scenario.Limit == nil {
		return -1
	}
	return *h.scenario.Limit
}

// solve runs every seed and records the attempts.
func (h *Harness) solve(ctx context.Context, result *Result) error {
	s := h.scenario
	tsHash, err := ir.TilesetHash(h.tileset)
	if err != nil {
		return err
	}

	err = h.store.WriteRun(ctx, ir.Run{
		ID:          h.runID,
		Genre:       "scenario",
		Theme:       s.Name,
		TilesetFile: s.Tileset,
		TilesetHash: tsHash,
		Width:       s.Width,
		Height:      s.Height,
		Periodic:    s.Periodic,
		Ground:      s.Ground,
		Heuristic:   engine.ParseHeuristic(s.Heuristic).String(),
		StepLimit:   h.limit(),
	})
	if err != nil {
		return err
	}

	model := h.newModel()
	for i, seed := range s.Seeds {
		outcome := solveSeed(model, seed, h.limit())
		if outcome.Success && result.Text == "" {
			result.Text = render.Text(model, result.names)
		}
		if !outcome.Success {
			h.logger.Debug("contradiction", "seed", seed, "steps", outcome.Steps)
		}
		result.Outcomes = append(result.Outcomes, outcome)

		err := h.store.WriteAttempt(ctx, ir.Attempt{
			RunID:    h.runID,
			Attempt:  i + 1,
			Seed:     seed,
			Success:  outcome.Success,
			Steps:    outcome.Steps,
			Grid:     outcome.Grid,
			GridHash: outcome.GridHash,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// solveSeed runs one seed and captures the grid on success.
func solveSeed(model *engine.Model, seed int64, limit int) SeedOutcome {
	outcome := SeedOutcome{Seed: seed, Grid: []int{}}
	outcome.Success = model.Run(seed, limit)
	outcome.Steps = model.Steps()
	if outcome.Success {
		outcome.Grid = model.Observed()
		outcome.GridHash = ir.MustGridHash(model.Width(), model.Height(), outcome.Grid)
	}
	return outcome
}

// checkExpect compares every seed's outcome with the scenario's expectation.
func (h *Harness) checkExpect(result *Result) {
	want := h.scenario.Expect
	if want == "" || want == ExpectAny {
		return
	}
	for _, o := range result.Outcomes {
		if o.Success && want == ExpectContradiction {
			result.AddError(fmt.Sprintf("seed %d: expected contradiction, got success", o.Seed))
		}
		if !o.Success && want == ExpectSuccess {
			result.AddError(fmt.Sprintf("seed %d: expected success, got contradiction after %d steps", o.Seed, o.Steps))
		}
	}
}

// evaluate dispatches one assertion.
func (h *Harness) evaluate(ctx context.Context, a Assertion, result *Result) error {
	switch a.Type {
	case AssertAllObserved:
		return assertAllObserved(result)
	case AssertTileOnlyInRow:
		return assertTileOnlyInRow(h.tileset, h.scenario.Height, a, result)
	case AssertTileCount:
		return assertTileCount(h.tileset, a, result)
	case AssertDeterministic:
		return h.assertDeterministic(ctx)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}
