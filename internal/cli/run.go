package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/tilewave/internal/engine"
	"github.com/roach88/tilewave/internal/ir"
	"github.com/roach88/tilewave/internal/render"
	"github.com/roach88/tilewave/internal/store"
	"github.com/roach88/tilewave/internal/tileset"
)

// DefaultAttempts is the number of seeds tried per screenshot.
const DefaultAttempts = 10

// specialChars matches characters not allowed in genre or theme names.
var specialChars = regexp.MustCompile(`[$&+,:;=?@#|'<>.^*()%!-]`)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Genres   string // genre/theme configuration (.cue file or directory)
	Tilesets string // tile catalogs (.cue file or directory)
	Bitmaps  string // root of the per-theme bitmap directories
	Out      string // output directory
	Database string // optional attempt log
	Seed     int64
	Attempts int
	Force    bool

	// IDGenerator overrides the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// RunOutput is one solved screenshot.
type RunOutput struct {
	Seed  int64  `json:"seed"`
	Image string `json:"image"`
	Text  string `json:"text,omitempty"`
}

// RunResult summarizes a run.
type RunResult struct {
	RunID          string      `json:"run_id"`
	Genre          string      `json:"genre"`
	Theme          string      `json:"theme"`
	Outputs        []RunOutput `json:"outputs"`
	Attempts       int         `json:"attempts"`
	Contradictions int         `json:"contradictions"`
	ElapsedMS      int64       `json:"elapsed_ms"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <genre> <theme>",
		Short: "Generate screenshots for a genre theme",
		Long: `Generate tile maps for a theme of a genre.

The theme's settings come from the genre configuration and its catalog is
the tileset of the same name. For every screenshot up to --attempts seeds
are tried; the first that solves without contradiction is written to the
output directory as <Theme><seed>.png (plus .txt when the theme enables
text output).

Tilesets with adjacency diagnostics are refused unless --force is given.

Examples:
  wfc run platformer summer --genres genres.cue --tilesets ./tilesets --out ./out
  wfc run puzzle knots --genres genres.cue --tilesets ./tilesets --out ./out --db runs.db --seed 42`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Genres, "genres", "", "genre/theme configuration (required)")
	_ = cmd.MarkFlagRequired("genres")
	cmd.Flags().StringVar(&opts.Tilesets, "tilesets", "", "tile catalogs (required)")
	_ = cmd.MarkFlagRequired("tilesets")
	cmd.Flags().StringVar(&opts.Bitmaps, "bitmaps", "", "bitmap root holding one directory per theme (default: next to the catalogs)")
	cmd.Flags().StringVar(&opts.Out, "out", "output", "output directory")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite attempt log")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the seed sequence (default: time based)")
	cmd.Flags().IntVar(&opts.Attempts, "attempts", DefaultAttempts, "seeds tried per screenshot")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "solve even when the tileset has diagnostics")

	return cmd
}

func runGenerate(opts *RunOptions, genreArg, themeArg string, cmd *cobra.Command) error {
	configureLogging(cmd.ErrOrStderr(), opts.Verbose)
	formatter := newFormatter(opts.RootOptions, cmd)
	start := time.Now()

	genre, theme, err := checkGenreTheme(opts.Genres, genreArg, themeArg)
	if err != nil {
		return err
	}
	title := cases.Title(language.English)
	name := title.String(theme.Name)
	slog.Info("theme selected", "genre", title.String(genre), "theme", name)

	loadResult, loadErrors := LoadTileset(opts.Tilesets, theme.Name, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}
	cat, ts := loadResult.Catalog, loadResult.Tileset

	if len(ts.Diagnostics) > 0 {
		if !opts.Force {
			formatter.Diagnostics(ts.Diagnostics)
			return NewExitError(ExitCommandError,
				fmt.Sprintf("tileset %s has %d diagnostic(s); fix the catalog or pass --force", cat.Name, len(ts.Diagnostics)))
		}
		for _, d := range ts.Diagnostics {
			slog.Warn("tileset diagnostic", "code", d.Code, "tile", d.Tile, "direction", d.Direction.String())
		}
	}

	px, err := tileset.Load(filepath.Join(bitmapRoot(opts), name), ts, cat.Unique)
	if err != nil {
		_ = formatter.Error(ErrCodeBitmaps, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load tile bitmaps", err)
	}

	if opts.Attempts <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--attempts must be positive, got %d", opts.Attempts))
	}
	if err := os.MkdirAll(opts.Out, 0755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var alog *attemptLog
	if opts.Database != "" {
		alog, err = openAttemptLog(ctx, opts, genre, theme, ts)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open attempt log", err)
		}
		defer alog.Close()
	}

	seedSource := time.Now().UnixNano()
	if cmd.Flags().Changed("seed") {
		seedSource = opts.Seed
	}
	seeds := rand.New(rand.NewSource(seedSource))

	model := newModel(ts, theme.Width, theme.Height, theme.Periodic, theme.Ground, theme.Heuristic)
	result := RunResult{Genre: genre, Theme: theme.Name, Outputs: []RunOutput{}}
	if alog != nil {
		result.RunID = alog.runID
	}

	for shot := 0; shot < theme.Screenshots; shot++ {
		for k := 0; k < opts.Attempts; k++ {
			if err := ctx.Err(); err != nil {
				return WrapExitError(ExitFailure, "interrupted", err)
			}

			seed := int64(seeds.Int31())
			success := model.Run(seed, theme.Limit)
			result.Attempts++

			if err := alog.record(ctx, model, result.Attempts, seed, success); err != nil {
				return WrapExitError(ExitCommandError, "failed to record attempt", err)
			}

			if !success {
				result.Contradictions++
				slog.Info("contradiction", "theme", name, "seed", seed, "steps", model.Steps())
				if formatter.Format != "json" {
					fmt.Fprintf(formatter.Writer, "✗ contradiction (seed %d)\n", seed)
				}
				continue
			}

			out, err := writeScreenshot(opts.Out, name, seed, model, px, ts, theme)
			if err != nil {
				_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to write output", err)
			}
			result.Outputs = append(result.Outputs, out)
			if formatter.Format != "json" {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", out.Image)
			}
			break
		}
	}

	result.ElapsedMS = time.Since(start).Milliseconds()
	slog.Info("run finished", "theme", name, "outputs", len(result.Outputs),
		"attempts", result.Attempts, "elapsed_ms", result.ElapsedMS)

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "\n%d/%d screenshot(s) in %d attempt(s), %d contradiction(s)\n",
			len(result.Outputs), theme.Screenshots, result.Attempts, result.Contradictions)
	}

	if len(result.Outputs) == 0 && theme.Screenshots > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("no screenshot solved in %d attempt(s)", result.Attempts))
	}
	return nil
}

// checkGenreTheme lower-cases the arguments and checks them against the
// genre configuration.
func checkGenreTheme(genresPath, genreArg, themeArg string) (string, ir.Theme, error) {
	genre := strings.ToLower(genreArg)
	themeName := strings.ToLower(themeArg)
	title := cases.Title(language.English)

	for _, arg := range []string{genre, themeName} {
		if specialChars.MatchString(arg) {
			return "", ir.Theme{}, NewExitError(ExitCommandError,
				fmt.Sprintf("Argument '%s' contains special characters.", title.String(arg)))
		}
	}

	cfg, err := LoadGenres(genresPath)
	if err != nil {
		return "", ir.Theme{}, WrapExitError(ExitCommandError, "failed to load genres", err)
	}

	if _, ok := cfg.Genres[genre]; !ok {
		return "", ir.Theme{}, NewExitError(ExitCommandError,
			fmt.Sprintf("String '%s' is not in the list of genres.", genre))
	}
	if !cfg.HasTheme(genre, themeName) {
		return "", ir.Theme{}, NewExitError(ExitCommandError,
			fmt.Sprintf("String '%s' is not the part of the mentioned genre.", themeName))
	}
	return genre, cfg.Themes[themeName], nil
}

// bitmapRoot defaults to the directory holding the catalogs.
func bitmapRoot(opts *RunOptions) string {
	if opts.Bitmaps != "" {
		return opts.Bitmaps
	}
	if info, err := os.Stat(opts.Tilesets); err == nil && info.IsDir() {
		return opts.Tilesets
	}
	return filepath.Dir(opts.Tilesets)
}

// newModel builds a Model with a theme's or a logged run's settings.
func newModel(ts *ir.Tileset, width, height int, periodic, ground bool, heuristic string) *engine.Model {
	return engine.New(ts, width, height,
		engine.WithPeriodic(periodic),
		engine.WithGround(ground),
		engine.WithHeuristic(engine.ParseHeuristic(heuristic)),
	)
}

// writeScreenshot saves <name><seed>.png and, when enabled, the text grid.
func writeScreenshot(dir, name string, seed int64, model *engine.Model, px *tileset.Pixels, ts *ir.Tileset, theme ir.Theme) (RunOutput, error) {
	base := filepath.Join(dir, fmt.Sprintf("%s%d", name, seed))
	out := RunOutput{Seed: seed, Image: base + ".png"}

	img := render.Raster(model, px, render.RasterOptions{BlackBackground: theme.BlackBackground})
	if err := render.SavePNG(out.Image, img); err != nil {
		return out, err
	}
	if theme.TextOutput {
		out.Text = base + ".txt"
		if err := os.WriteFile(out.Text, []byte(render.Text(model, ts.Names())), 0644); err != nil {
			return out, fmt.Errorf("failed to write %s: %w", out.Text, err)
		}
	}
	return out, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// attemptLog records a run and its attempts. A nil log records nothing.
type attemptLog struct {
	store  *store.Store
	runID  string
	width  int
	height int
}

func openAttemptLog(ctx context.Context, opts *RunOptions, genre string, theme ir.Theme, ts *ir.Tileset) (*attemptLog, error) {
	hash, err := ir.TilesetHash(ts)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, err
	}

	ids := opts.IDGenerator
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	run := ir.Run{
		ID:          ids.Generate(),
		Genre:       genre,
		Theme:       theme.Name,
		TilesetFile: opts.Tilesets,
		TilesetHash: hash,
		Width:       theme.Width,
		Height:      theme.Height,
		Periodic:    theme.Periodic,
		Ground:      theme.Ground,
		Heuristic:   engine.ParseHeuristic(theme.Heuristic).String(),
		StepLimit:   theme.Limit,
	}
	if err := st.WriteRun(ctx, run); err != nil {
		st.Close()
		return nil, err
	}
	slog.Debug("run recorded", "run_id", run.ID, "db", opts.Database)
	return &attemptLog{store: st, runID: run.ID, width: theme.Width, height: theme.Height}, nil
}

func (l *attemptLog) record(ctx context.Context, model *engine.Model, n int, seed int64, success bool) error {
	if l == nil {
		return nil
	}
	a := ir.Attempt{
		RunID:   l.runID,
		Attempt: n,
		Seed:    seed,
		Success: success,
		Steps:   model.Steps(),
		Grid:    []int{},
	}
	if success {
		a.Grid = model.Observed()
		hash, err := ir.GridHash(l.width, l.height, a.Grid)
		if err != nil {
			return err
		}
		a.GridHash = hash
	}
	return l.store.WriteAttempt(ctx, a)
}

func (l *attemptLog) Close() {
	if err := l.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
