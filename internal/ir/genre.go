package ir

// Theme holds the run settings of one tile catalog.
type Theme struct {
	Name            string `json:"name"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Periodic        bool   `json:"periodic"`
	Ground          bool   `json:"ground"`
	Heuristic       string `json:"heuristic"`
	Limit           int    `json:"limit"`
	Screenshots     int    `json:"screenshots"`
	TextOutput      bool   `json:"text_output"`
	BlackBackground bool   `json:"black_background"`
}

// GenreConfig maps each genre to the themes it offers and holds the
// per-theme settings.
type GenreConfig struct {
	Genres map[string][]string `json:"genres"`
	Themes map[string]Theme    `json:"themes"`
}

// HasTheme reports whether the genre lists the theme.
func (g *GenreConfig) HasTheme(genre, theme string) bool {
	for _, t := range g.Genres[genre] {
		if t == theme {
			return true
		}
	}
	return false
}
