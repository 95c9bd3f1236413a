package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/tilewave/internal/ir"
)

// Theme defaults, used for every field a theme leaves out.
const (
	DefaultSize        = 24
	DefaultHeuristic   = "Entropy"
	DefaultLimit       = -1
	DefaultScreenshots = 2
)

// DefaultTheme returns the settings used for a theme without overrides.
func DefaultTheme(name string) ir.Theme {
	return ir.Theme{
		Name:        name,
		Width:       DefaultSize,
		Height:      DefaultSize,
		Heuristic:   DefaultHeuristic,
		Limit:       DefaultLimit,
		Screenshots: DefaultScreenshots,
	}
}

// CompileGenres parses the genre/theme configuration:
//
//	genre: platformer: themes: ["summer", "castle"]
//	theme: summer: {size: 24, periodic: true, text_output: true}
//
// Every theme listed by a genre gets an entry in Themes, with defaults
// applied for fields the theme block omits.
func CompileGenres(v cue.Value) (*ir.GenreConfig, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &ir.GenreConfig{
		Genres: make(map[string][]string),
		Themes: make(map[string]ir.Theme),
	}

	genresVal := v.LookupPath(cue.ParsePath("genre"))
	if !genresVal.Exists() {
		return nil, &CompileError{Field: "genre", Message: "at least one genre is required", Pos: v.Pos()}
	}
	iter, err := genresVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		genre := iter.Label()
		themesVal := iter.Value().LookupPath(cue.ParsePath("themes"))
		if !themesVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("genre.%s.themes", genre),
				Message: "themes are required",
				Pos:     iter.Value().Pos(),
			}
		}
		var themes []string
		if err := themesVal.Decode(&themes); err != nil {
			return nil, formatCUEError(err)
		}
		cfg.Genres[genre] = themes
		for _, name := range themes {
			if _, ok := cfg.Themes[name]; !ok {
				cfg.Themes[name] = DefaultTheme(name)
			}
		}
	}

	themesVal := v.LookupPath(cue.ParsePath("theme"))
	if themesVal.Exists() {
		titer, err := themesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for titer.Next() {
			theme, err := parseTheme(titer.Label(), titer.Value())
			if err != nil {
				return nil, err
			}
			cfg.Themes[theme.Name] = theme
		}
	}

	return cfg, nil
}

// themeFields mirrors the CUE theme block; pointers distinguish "unset".
type themeFields struct {
	Size            *int    `json:"size"`
	Width           *int    `json:"width"`
	Height          *int    `json:"height"`
	Periodic        *bool   `json:"periodic"`
	Ground          *bool   `json:"ground"`
	Heuristic       *string `json:"heuristic"`
	Limit           *int    `json:"limit"`
	Screenshots     *int    `json:"screenshots"`
	TextOutput      *bool   `json:"text_output"`
	BlackBackground *bool   `json:"black_background"`
}

func parseTheme(name string, v cue.Value) (ir.Theme, error) {
	var f themeFields
	if err := v.Decode(&f); err != nil {
		return ir.Theme{}, formatCUEError(err)
	}

	theme := DefaultTheme(name)
	if f.Size != nil {
		theme.Width, theme.Height = *f.Size, *f.Size
	}
	if f.Width != nil {
		theme.Width = *f.Width
	}
	if f.Height != nil {
		theme.Height = *f.Height
	}
	if f.Periodic != nil {
		theme.Periodic = *f.Periodic
	}
	if f.Ground != nil {
		theme.Ground = *f.Ground
	}
	if f.Heuristic != nil {
		theme.Heuristic = *f.Heuristic
	}
	if f.Limit != nil {
		theme.Limit = *f.Limit
	}
	if f.Screenshots != nil {
		theme.Screenshots = *f.Screenshots
	}
	if f.TextOutput != nil {
		theme.TextOutput = *f.TextOutput
	}
	if f.BlackBackground != nil {
		theme.BlackBackground = *f.BlackBackground
	}

	if theme.Width <= 0 || theme.Height <= 0 {
		return ir.Theme{}, &CompileError{
			Field:   fmt.Sprintf("theme.%s.size", name),
			Message: fmt.Sprintf("grid size must be positive, got %dx%d", theme.Width, theme.Height),
			Pos:     v.Pos(),
		}
	}
	return theme, nil
}
