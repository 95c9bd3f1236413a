package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tilewave/internal/compiler"
	"github.com/roach88/tilewave/internal/ir"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Tileset string // validate one catalog instead of all
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Catalogs    []string                   `json:"catalogs"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
	Diagnostics []ir.Diagnostic            `json:"diagnostics,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <tileset.cue>",
		Short: "Validate tile catalogs without writing output",
		Long: `Validate every tile catalog in a CUE file or directory.

All errors are collected rather than stopping at the first. Catalogs that
validate are compiled as well, so adjacency diagnostics (E201) are listed.
Diagnostics are warnings and do not fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tileset, "tileset", "", "validate only the named catalog")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, err := LoadCatalogs(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	cats := loadResult.Catalogs
	if opts.Tileset != "" {
		cat, err := compiler.SelectCatalog(cats, opts.Tileset)
		if err != nil {
			return outputValidateError(formatter, ErrCodeNoCatalog, err.Error())
		}
		cats = []*ir.Catalog{cat}
	}

	result := validateAll(cats, formatter)
	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validateAll validates every catalog, compiling those that pass to collect
// their diagnostics.
func validateAll(cats []*ir.Catalog, formatter *OutputFormatter) ValidationResult {
	result := ValidationResult{Valid: true, Catalogs: make([]string, 0, len(cats))}

	for _, cat := range cats {
		formatter.VerboseLog("Validating tileset: %s", cat.Name)
		result.Catalogs = append(result.Catalogs, cat.Name)

		verrs := compiler.Validate(cat)
		for _, v := range verrs {
			v.Field = fmt.Sprintf("tileset.%s.%s", cat.Name, v.Field)
			result.Errors = append(result.Errors, v)
		}
		if len(verrs) > 0 {
			continue
		}

		ts, err := compiler.CompileTileset(cat)
		if err != nil {
			loadErr := convertCompileError(err, "tileset."+cat.Name)
			result.Errors = append(result.Errors, compiler.ValidationError{
				Field:   "tileset." + cat.Name,
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
			continue
		}
		result.Diagnostics = append(result.Diagnostics, ts.Diagnostics...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d tileset(s) valid\n", len(result.Catalogs))
	formatter.Diagnostics(result.Diagnostics)
	return nil
}

// outputValidateError outputs an error that stopped validation early.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	fmt.Fprintln(formatter.Writer)
	formatter.Diagnostics(result.Diagnostics)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
