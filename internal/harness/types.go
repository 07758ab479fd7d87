package harness

// TraceEvent is one stored record as it appears in a scenario trace.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Session string `json:"session"`
	Kind    string `json:"kind"`
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	Indoors *bool  `json:"indoors,omitempty"`
	AtMS    int64  `json:"at_ms"` // milliseconds since the first frame
}

// Ref renders the event as "kind:id", the form used by trace_order.
func (e TraceEvent) Ref() string {
	return refOf(e.Kind, e.ID)
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the engine never failed and all assertions match.
	Pass bool `json:"pass"`

	// Trace contains every stored record in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains engine and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the engine's session state after the last frame.
	State string `json:"state"`

	// Sessions lists the session ids in start order.
	Sessions []string `json:"sessions"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Sessions: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
