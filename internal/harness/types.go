package harness

// SeedOutcome is the result of solving one seed.
type SeedOutcome struct {
	Seed     int64  `json:"seed"`
	Success  bool   `json:"success"`
	Steps    int    `json:"steps"`
	Grid     []int  `json:"grid"`
	GridHash string `json:"grid_hash,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every seed met the expected outcome and every
	// assertion held.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per seed, in scenario order.
	Outcomes []SeedOutcome `json:"outcomes"`

	// Text is the text rendering of the first successful grid, empty when
	// no seed succeeded.
	Text string `json:"text,omitempty"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	names []string
	width int
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []SeedOutcome{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FirstSuccess returns the first successful outcome, or nil.
func (r *Result) FirstSuccess() *SeedOutcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].Success {
			return &r.Outcomes[i]
		}
	}
	return nil
}
