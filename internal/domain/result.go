package domain

// State is the terminal state of a record after processing.
type State int

const (
	StateVerified State = iota
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateVerified:
		return "verified"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records how a single manifest record was resolved.
type Outcome struct {
	Record   ManifestRecord
	Path     string
	State    State
	Fetched  bool
	Expected string
	Actual   string
	Err      error
}

// RunResult is the tally of one manifest run.
type RunResult struct {
	Success  int
	Fail     int
	Outcomes []Outcome
}

func (r RunResult) Total() int {
	return r.Success + r.Fail
}

// Rate returns the success percentage. ok is false when nothing was processed.
func (r RunResult) Rate() (percent float64, ok bool) {
	total := r.Total()
	if total == 0 {
		return 0, false
	}
	return 100.0 * float64(r.Success) / float64(total), true
}

// Record appends the outcome and bumps exactly one counter.
func (r *RunResult) Record(o Outcome) {
	if o.State == StateVerified {
		r.Success++
	} else {
		r.Fail++
	}
	r.Outcomes = append(r.Outcomes, o)
}
