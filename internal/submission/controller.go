// internal/submission/controller.go
package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"modelselector/internal/models"
)

// Skip reasons returned by Submit. Neither is shown to the user.
var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrSubmitPending = errors.New("a submission is already pending")
)

// Session is a point-in-time copy of the controller's state.
type Session struct {
	Model  models.ModelID
	Prompt string
	State  State
}

// Outcome describes a finished attempt for diagnostics. It never carries
// prompt or response text.
type Outcome struct {
	AttemptID  string
	Model      models.ModelID
	Endpoint   string
	Phase      Phase
	StatusCode int
	Detail     string // underlying error, empty on success
	Fallback   bool   // succeeded without a generated_response
	Timeout    bool
	StartedAt  time.Time
	Duration   time.Duration
}

// Recorder receives an Outcome after every terminal transition.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRecorder sets where outcomes are journaled.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithDefaultModel sets the model selected when the session starts.
func WithDefaultModel(id models.ModelID) Option {
	return func(c *Controller) { c.session.Model = id }
}

// Controller owns one session and runs at most one attempt at a time.
type Controller struct {
	resolver  models.EndpointResolver
	generator models.Generator
	logger    *slog.Logger
	recorder  Recorder

	mu      sync.Mutex
	session Session
	seq     uint64
	current *Attempt
}

// NewController starts an Idle session with Gemini selected.
func NewController(resolver models.EndpointResolver, generator models.Generator, opts ...Option) *Controller {
	c := &Controller{
		resolver:  resolver,
		generator: generator,
		logger:    slog.Default(),
		session: Session{
			Model: models.Gemini,
			State: idleState(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectModel changes the selection. A displayed response stays until the next Submit.
func (c *Controller) SelectModel(id models.ModelID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Model = id
}

// EditPrompt replaces the prompt text.
func (c *Controller) EditPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Prompt = text
}

// Snapshot returns a copy of the session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// Current returns the attempt in flight, or nil.
func (c *Controller) Current() *Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Submit starts an attempt for the current model and prompt. It returns
// ErrEmptyPrompt or ErrSubmitPending without touching state or network.
// An unresolvable model is a programming error and panics.
func (c *Controller) Submit(ctx context.Context) (*Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if c.session.State.Phase() == Pending {
		return nil, ErrSubmitPending
	}

	endpoint, err := c.resolver.Resolve(c.session.Model)
	if err != nil {
		panic(err)
	}

	c.seq++
	a := &Attempt{
		ID:        uuid.NewString(),
		Seq:       c.seq,
		Model:     c.session.Model,
		Prompt:    c.session.Prompt,
		Endpoint:  endpoint,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	c.session.State = pendingState()
	c.current = a

	go c.run(ctx, a)

	return a, nil
}

// run performs the request outside the lock and applies its outcome.
func (c *Controller) run(ctx context.Context, a *Attempt) {
	reply, err := c.generator.Generate(ctx, a.Endpoint, a.Prompt)
	outcome := Outcome{
		AttemptID:  a.ID,
		Model:      a.Model,
		Endpoint:   a.Endpoint,
		StatusCode: reply.StatusCode,
		StartedAt:  a.StartedAt,
		Duration:   time.Since(a.StartedAt),
	}

	var next State
	switch {
	case err != nil:
		next = failedState(FailureMessage)
		outcome.Detail = err.Error()
		var tErr *models.TransportError
		if errors.As(err, &tErr) {
			outcome.StatusCode = tErr.StatusCode
			outcome.Timeout = tErr.Timeout()
		}
		c.logger.Error("submission failed",
			"attempt", a.ID,
			"model", a.Model.String(),
			"endpoint", a.Endpoint,
			"status", outcome.StatusCode,
			"timeout", outcome.Timeout,
			"error", err,
		)
	case reply.Text == "":
		next = succeededState(FallbackResponse)
		outcome.Fallback = true
		c.logger.Warn("reply without generated_response",
			"attempt", a.ID,
			"model", a.Model.String(),
			"status", reply.StatusCode,
		)
	default:
		next = succeededState(reply.Text)
	}
	outcome.Phase = next.Phase()

	c.mu.Lock()
	c.session.State = next
	superseded := c.session.Model != a.Model || c.session.Prompt != a.Prompt
	if c.current == a {
		c.current = nil
	}
	c.mu.Unlock()

	if superseded {
		c.logger.Debug("outcome applied after inputs changed", "attempt", a.ID, "seq", a.Seq)
	}
	a.finish(next, superseded)

	if c.recorder != nil {
		if err := c.recorder.Record(context.WithoutCancel(ctx), outcome); err != nil {
			c.logger.Warn("record outcome", "attempt", a.ID, "error", err)
		}
	}
}
