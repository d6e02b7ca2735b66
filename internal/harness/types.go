package harness

// Trace event types.
const (
	EventInvoke   = "invoke"
	EventWrite    = "write"
	EventRender   = "render"
	EventComplete = "complete"
)

// TraceEvent records one observable step of a scenario run.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	Type    string         `json:"type"`
	Action  string         `json:"action,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome,omitempty"`
	Error   string         `json:"error,omitempty"`
	Write   *WriteEvent    `json:"write,omitempty"`
	Render  *RenderEvent   `json:"render,omitempty"`
}

// WriteEvent describes a slot write.
type WriteEvent struct {
	Key    string   `json:"key"`
	IDs    []string `json:"ids"`
	Failed bool     `json:"failed,omitempty"`
}

// RenderEvent describes a rendered projection.
// Items are "[ ] title" or "[x] title" in display order.
type RenderEvent struct {
	Filter       string   `json:"filter"`
	Items        []string `json:"items"`
	Remaining    int      `json:"remaining"`
	AnyCompleted bool     `json:"anyCompleted"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists invocations, writes, renders and completions in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`

	// Writes counts successful slot writes.
	Writes int `json:"writes"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many times action was invoked.
func (r *Result) Count(action string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Type == EventInvoke && e.Action == action {
			n++
		}
	}
	return n
}
