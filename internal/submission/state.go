// internal/submission/state.go
package submission

// Phase is the tag of a State.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing texts.
const (
	FallbackResponse = "No response received."
	FailureMessage   = "An error occurred while fetching the response."
)

// State is the tagged variant Idle | Pending | Succeeded(text) | Failed(message).
// The zero value is Idle.
type State struct {
	phase Phase
	text  string
}

func idleState() State { return State{phase: Idle} }
func pendingState() State { return State{phase: Pending} }
func succeededState(text string) State { return State{phase: Succeeded, text: text} }
func failedState(msg string) State { return State{phase: Failed, text: msg} }

// Phase returns the variant tag.
func (s State) Phase() Phase { return s.phase }

// Response returns the response text; ok is false unless the state is Succeeded.
func (s State) Response() (text string, ok bool) {
	if s.phase != Succeeded {
		return "", false
	}
	return s.text, true
}

// Error returns the user-facing failure message; ok is false unless the state is Failed.
func (s State) Error() (msg string, ok bool) {
	if s.phase != Failed {
		return "", false
	}
	return s.text, true
}

// Terminal reports whether the state ends an attempt.
func (s State) Terminal() bool {
	return s.phase == Succeeded || s.phase == Failed
}

func (s State) String() string {
	switch s.phase {
	case Succeeded, Failed:
		return s.phase.String() + "(" + s.text + ")"
	default:
		return s.phase.String()
	}
}
