package harness

// RoundActivity is the cumulative activity after one round.
type RoundActivity struct {
	Round    int     `json:"round"`
	Activity []int64 `json:"activity"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation matched.
	Pass bool `json:"pass"`

	// RunID is the engine run id.
	RunID string `json:"run_id,omitempty"`

	// Profile is the effective profile name.
	Profile string `json:"profile"`

	// Activity is the final activity counter of every worker.
	Activity []int64 `json:"activity"`

	// Business is the product of the two largest counters. Zero when the
	// run failed or there are fewer than two workers.
	Business int64 `json:"business"`

	// Queues is the final content of every worker queue.
	Queues [][]int64 `json:"queues"`

	// Rounds holds the activity after every round.
	Rounds []RoundActivity `json:"rounds"`

	// Err is the error the run failed with, if any.
	Err error `json:"-"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rounds: []RoundActivity{},
		Errors: []string{},
	}
}

// AddError adds a mismatch message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
