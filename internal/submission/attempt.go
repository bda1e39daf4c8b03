// internal/submission/attempt.go
package submission

import (
	"sync"
	"time"

	"modelselector/internal/models"
)

// Attempt is one submission in flight. Its inputs are fixed when Submit
// starts it; its terminal state arrives exactly once.
type Attempt struct {
	ID        string // diagnostics only, never sent to the backend
	Seq       uint64
	Model     models.ModelID
	Prompt    string
	Endpoint  string
	StartedAt time.Time

	done       chan struct{}
	once       sync.Once
	result     State
	superseded bool
}

func (a *Attempt) finish(s State, superseded bool) {
	a.once.Do(func() {
		a.result = s
		a.superseded = superseded
		close(a.done)
	})
}

// Done is closed once the terminal state has been applied.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt finishes and returns its terminal state.
func (a *Attempt) Wait() State {
	<-a.done
	return a.result
}

// Superseded reports whether the session's model or prompt changed while the
// attempt was in flight. Only meaningful after Done.
func (a *Attempt) Superseded() bool {
	<-a.done
	return a.superseded
}
