package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tilewave/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Tileset string // catalog name, required when the file declares several
	Output  string // output file path
}

// CompilationResult is the compiled tileset with its content hash.
type CompilationResult struct {
	Hash    string      `json:"hash"`
	Tileset *ir.Tileset `json:"tileset"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	TileCount    int
	VariantCount int
	PairCount    [4]int // allowed (t1, t2) pairs per direction
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <tileset.cue>",
		Short: "Compile a tile catalog to its adjacency propagator",
		Long: `Compile a CUE tile catalog into the tileset the solver consumes.

Each tile is expanded into the variants of its symmetry group, neighbor
rules are closed under rotation and reflection, and the dense adjacency
relation is reduced to sparse per-direction lists. Variants with no
neighbor along some direction are reported as E201 diagnostics.

Examples:
  wfc compile ./tilesets/knots.cue
  wfc compile ./tilesets --tileset summer -o summer.json
  wfc compile ./tilesets/knots.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tileset, "tileset", "", "catalog name when the file declares several")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadTileset(path, opts.Tileset, LoadModeCollectAll)
	if loadResult != nil {
		formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	ts := loadResult.Tileset
	hash, err := ir.TilesetHash(ts)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing tileset: %v", err))
	}
	formatter.VerboseLog("Compiled tileset %s: %d variant(s), hash %s", ts.Catalog, ts.Count(), hash)

	result := &CompilationResult{Hash: hash, Tileset: ts}

	if opts.Output != "" {
		if err := writeTilesetToFile(ts, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, calculateStats(loadResult.Catalog, ts), opts.Output)
}

// calculateStats computes summary statistics for a compiled tileset.
func calculateStats(cat *ir.Catalog, ts *ir.Tileset) CompilationStats {
	stats := CompilationStats{
		TileCount:    len(cat.Tiles),
		VariantCount: ts.Count(),
	}
	for d := range ts.Propagator {
		for _, list := range ts.Propagator[d] {
			stats.PairCount[d] += len(list)
		}
	}
	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	ts := result.Tileset
	fmt.Fprintf(formatter.Writer, "✓ Compiled tileset %s: %d tile(s), %d variant(s)\n\n",
		ts.Catalog, stats.TileCount, stats.VariantCount)

	fmt.Fprintln(formatter.Writer, "Propagator:")
	for _, d := range ir.Directions {
		fmt.Fprintf(formatter.Writer, "  %-5s %d pair(s)\n", d, stats.PairCount[d])
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Hash: %s\n", result.Hash)

	formatter.Diagnostics(ts.Diagnostics)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote tileset to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputCompileErrors outputs every load, validation or compile error.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeTilesetToFile writes the compiled tileset as indented JSON.
// Canonical JSON is reserved for hashing.
func writeTilesetToFile(ts *ir.Tileset, filename string) error {
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tileset: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
