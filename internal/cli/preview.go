package cli

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/tilewave/internal/engine"
	"github.com/roach88/tilewave/internal/render"
	"github.com/roach88/tilewave/internal/tileset"
)

// PreviewOptions holds flags for the preview command.
type PreviewOptions struct {
	*RootOptions
	Tileset   string
	Bitmaps   string
	Width     int
	Height    int
	Periodic  bool
	Ground    bool
	Heuristic string
	Limit     int
	Seed      int64
	Attempts  int

	// NewScreen overrides the terminal (for testing).
	// If nil, defaults to tcell.NewScreen.
	NewScreen func() (tcell.Screen, error)
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return newPreviewCommand(&PreviewOptions{RootOptions: rootOpts})
}

func newPreviewCommand(opts *PreviewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <tileset.cue>",
		Short: "Solve a tileset and draw it in the terminal",
		Long: `Solve a tileset and draw the grid in the terminal.

Each cell is one terminal cell coloured with the mean colour of its tile
bitmap. Seeds are tried until one solves, up to --attempts; if none does
the last contradicted state is drawn. Press any key to quit.

Examples:
  wfc preview ./tilesets/knots.cue --bitmaps ./tilesets/Knots
  wfc preview ./tilesets --tileset summer --bitmaps ./tilesets/Summer --ground`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tileset, "tileset", "", "catalog name when the file declares several")
	cmd.Flags().StringVar(&opts.Bitmaps, "bitmaps", "", "directory of tile bitmaps (required)")
	_ = cmd.MarkFlagRequired("bitmaps")
	cmd.Flags().IntVar(&opts.Width, "width", 24, "grid width in cells")
	cmd.Flags().IntVar(&opts.Height, "height", 24, "grid height in cells")
	cmd.Flags().BoolVar(&opts.Periodic, "periodic", false, "wrap the grid at its edges")
	cmd.Flags().BoolVar(&opts.Ground, "ground", false, "pin the last tile to the bottom row")
	cmd.Flags().StringVar(&opts.Heuristic, "heuristic", "Entropy", "cell selection (Entropy|MRV|Scanline)")
	cmd.Flags().IntVar(&opts.Limit, "limit", -1, "step limit, negative for none")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the seed sequence (default: time based)")
	cmd.Flags().IntVar(&opts.Attempts, "attempts", DefaultAttempts, "seeds tried before giving up")

	return cmd
}

func runPreview(opts *PreviewOptions, path string, cmd *cobra.Command) error {
	configureLogging(cmd.ErrOrStderr(), opts.Verbose)
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Width <= 0 || opts.Height <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("grid size must be positive, got %dx%d", opts.Width, opts.Height))
	}

	loadResult, loadErrors := LoadTileset(path, opts.Tileset, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}
	cat, ts := loadResult.Catalog, loadResult.Tileset

	px, err := tileset.Load(opts.Bitmaps, ts, cat.Unique)
	if err != nil {
		_ = formatter.Error(ErrCodeBitmaps, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load tile bitmaps", err)
	}

	seedSource := time.Now().UnixNano()
	if cmd.Flags().Changed("seed") {
		seedSource = opts.Seed
	}
	seeds := rand.New(rand.NewSource(seedSource))

	model := engine.New(ts, opts.Width, opts.Height,
		engine.WithPeriodic(opts.Periodic),
		engine.WithGround(opts.Ground),
		engine.WithHeuristic(engine.ParseHeuristic(opts.Heuristic)),
	)
	for k := 0; k < opts.Attempts; k++ {
		seed := int64(seeds.Int31())
		if model.Run(seed, opts.Limit) {
			slog.Debug("solved", "tileset", cat.Name, "seed", seed, "steps", model.Steps())
			break
		}
		slog.Info("contradiction", "tileset", cat.Name, "seed", seed, "steps", model.Steps())
	}

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open terminal", err)
	}
	if err := screen.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize terminal", err)
	}
	defer screen.Fini()

	render.Preview(screen, model, px)
	return nil
}
