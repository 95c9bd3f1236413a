package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/tilewave/internal/compiler"
	"github.com/roach88/tilewave/internal/ir"
)

// LoadMode controls how errors are handled while loading a tileset.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all validation errors before returning.
	LoadModeCollectAll
)

// LoadResult holds a loaded catalog file and, once selected and compiled,
// one of its tilesets.
type LoadResult struct {
	Path      string
	FileCount int           // number of .cue files read
	Catalogs  []*ir.Catalog // every catalog in the file, sorted by name
	Catalog   *ir.Catalog   // the selected catalog
	Tileset   *ir.Tileset   // nil until the selected catalog compiles
}

// LoadError represents an error that occurred while loading CUE input.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCatalogs reads every tileset block of a .cue file or directory.
func LoadCatalogs(path string) (*LoadResult, error) {
	files, err := FindCUEFiles(path)
	if err != nil {
		return nil, err
	}

	v, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	cats, err := compiler.CompileCatalogs(v)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	return &LoadResult{Path: path, FileCount: len(files), Catalogs: cats}, nil
}

// LoadTileset loads path, selects the catalog called name (the only one
// when name is empty), validates it and compiles it.
//
// In LoadModeFailFast at most one error is returned. In LoadModeCollectAll
// every validation error of the selected catalog is returned. The result is
// non-nil whenever the catalog file itself loaded.
func LoadTileset(path, name string, mode LoadMode) (*LoadResult, []error) {
	result, err := LoadCatalogs(path)
	if err != nil {
		return nil, []error{err}
	}

	cat, err := compiler.SelectCatalog(result.Catalogs, name)
	if err != nil {
		return result, []error{&LoadError{Code: ErrCodeNoCatalog, Message: err.Error()}}
	}
	result.Catalog = cat

	if verrs := compiler.Validate(cat); len(verrs) > 0 {
		if mode == LoadModeFailFast {
			verrs = verrs[:1]
		}
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = validationToLoadError(cat.Name, v)
		}
		return result, errs
	}

	ts, err := compiler.CompileTileset(cat)
	if err != nil {
		return result, []error{convertCompileError(err, "tileset."+cat.Name)}
	}
	result.Tileset = ts
	return result, nil
}

// LoadGenres reads the genre/theme configuration.
func LoadGenres(path string) (*ir.GenreConfig, error) {
	if _, err := FindCUEFiles(path); err != nil {
		return nil, err
	}
	v, err := compiler.LoadFile(path)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	cfg, err := compiler.CompileGenres(v)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	return cfg, nil
}

// FindCUEFiles returns path itself for a file, or the .cue files directly
// inside a directory. Missing paths and empty directories are LoadErrors.
func FindCUEFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}
	return files, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

func validationToLoadError(catalog string, v compiler.ValidationError) *LoadError {
	return &LoadError{
		Code:    v.Code,
		Message: fmt.Sprintf("tileset.%s.%s: %s", catalog, v.Field, v.Message),
	}
}

// Error code constants shared by all commands. Catalog validation codes
// (E101-E108) and diagnostics (E201) come from the compiler package.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNoFiles        = "E003" // No CUE files found
	ErrCodeLoadFailed     = "E004" // CUE load or build failed
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeBitmaps        = "E006" // Tile bitmap error
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeNoCatalog      = "E008" // Tileset missing or ambiguous
	ErrCodeGenre          = "E009" // Genre/theme configuration error
	ErrCodeDiverged       = "E010" // Replay disagrees with the attempt log
	ErrCodeScenarioFailed = "E011" // One or more scenarios failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeLoadFailed
	case field == "tileset":
		return ErrCodeNoCatalog
	case field == "tiles":
		return compiler.ErrCatalogEmpty
	case strings.HasPrefix(field, "tiles[") && strings.HasSuffix(field, ".name"):
		return compiler.ErrInvalidTileName
	case strings.HasPrefix(field, "tiles[") && strings.HasSuffix(field, ".weight"):
		return compiler.ErrInvalidWeight
	case strings.HasPrefix(field, "tiles[") && strings.HasSuffix(field, ".symmetry"):
		return compiler.ErrUnknownSymmetry
	case field == "neighbors":
		return compiler.ErrNoNeighborRules
	case strings.HasPrefix(field, "neighbors["):
		return compiler.ErrUnknownNeighbor
	case strings.HasPrefix(field, "genre"), strings.HasPrefix(field, "theme"):
		return ErrCodeGenre
	default:
		return ErrCodeGeneric
	}
}
