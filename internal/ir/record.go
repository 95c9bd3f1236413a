package ir

// Run is one invocation of the solver for a genre/theme, as recorded in the
// attempt log. All attempts of a run share its configuration.
type Run struct {
	ID          string `json:"id"` // UUIDv7
	Genre       string `json:"genre"`
	Theme       string `json:"theme"`
	TilesetFile string `json:"tileset_file"` // path of the catalog source
	TilesetHash string `json:"tileset_hash"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Periodic    bool   `json:"periodic"`
	Ground      bool   `json:"ground"`
	Heuristic   string `json:"heuristic"`
	StepLimit   int    `json:"step_limit"`
}

// Attempt is a single seeded solve within a run.
//
// Grid holds the observed tile per cell (-1 unresolved); it is empty for
// contradictions. GridHash is GridHash(width, height, Grid) for successes.
type Attempt struct {
	RunID    string `json:"run_id"`
	Attempt  int    `json:"attempt"` // 1-based within the run
	Seed     int64  `json:"seed"`
	Success  bool   `json:"success"`
	Steps    int    `json:"steps"`
	Grid     []int  `json:"grid"`
	GridHash string `json:"grid_hash,omitempty"`
}
