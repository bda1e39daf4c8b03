// internal/ui/app_test.go
package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"modelselector/internal/db"
	"modelselector/internal/models"
	"modelselector/internal/observability"
	"modelselector/internal/submission"
)

type generatorFunc func(ctx context.Context, endpoint, prompt string) (models.Reply, error)

func (f generatorFunc) Generate(ctx context.Context, endpoint, prompt string) (models.Reply, error) {
	return f(ctx, endpoint, prompt)
}

func replyWith(text string) generatorFunc {
	return func(ctx context.Context, endpoint, prompt string) (models.Reply, error) {
		return models.Reply{StatusCode: 200, Text: text}, nil
	}
}

func newTestModel(t *testing.T, gen models.Generator, deps Deps) (Model, *submission.Controller) {
	t.Helper()
	resolver, err := models.NewResolver(models.DefaultEndpoints())
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	ctrl := submission.NewController(resolver, gen, submission.WithLogger(observability.Discard()))
	deps.Controller = ctrl
	deps.Logger = observability.Discard()
	m := New(context.Background(), deps)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), ctrl
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// waitDone runs the command returned by submit until the attempt's result
// arrives and feeds it back into the model.
func waitDone(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	done := make(chan attemptDoneMsg, 1)
	go func() {
		if msg, ok := findAttemptDone(cmd); ok {
			done <- msg
		}
	}()
	select {
	case msg := <-done:
		m, _ = update(t, m, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("attempt did not finish")
	}
	return m
}

func findAttemptDone(cmd tea.Cmd) (attemptDoneMsg, bool) {
	if cmd == nil {
		return attemptDoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case attemptDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if found, ok := findAttemptDone(c); ok {
				return found, true
			}
		}
	}
	return attemptDoneMsg{}, false
}

func TestTypingUpdatesPrompt(t *testing.T) {
	m, ctrl := newTestModel(t, replyWith("unused"), Deps{})

	m, _ = update(t, m, runes("Hello"))

	if got := ctrl.Snapshot().Prompt; got != "Hello" {
		t.Errorf("Expected prompt %q, got %q", "Hello", got)
	}
	if ctrl.State().Phase() != submission.Idle {
		t.Errorf("Typing should not change state, got %s", ctrl.State().Phase())
	}
}

func TestInitialViewHasNoResponsePanel(t *testing.T) {
	m, _ := newTestModel(t, replyWith("unused"), Deps{})

	view := m.View()
	if !strings.Contains(view, "AI Model Selector") {
		t.Error("Expected title in view")
	}
	if !strings.Contains(view, "Generate") {
		t.Error("Expected Generate control in view")
	}
	if strings.Contains(view, "Response:") {
		t.Error("Response panel should be hidden while idle")
	}
}

func TestEmptySubmitIsSilent(t *testing.T) {
	m, ctrl := newTestModel(t, replyWith("unused"), Deps{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if cmd != nil {
		t.Error("Expected no command for an empty prompt")
	}
	if ctrl.State().Phase() != submission.Idle {
		t.Errorf("Expected idle, got %s", ctrl.State().Phase())
	}
	if strings.Contains(m.View(), submission.FailureMessage) {
		t.Error("Empty submit must not show an error")
	}
}

func TestSubmitShowsPendingThenResponse(t *testing.T) {
	release := make(chan struct{})
	gen := generatorFunc(func(ctx context.Context, endpoint, prompt string) (models.Reply, error) {
		<-release
		return models.Reply{StatusCode: 200, Text: "line one\n  indented"}, nil
	})
	m, ctrl := newTestModel(t, gen, Deps{})
	m, _ = update(t, m, runes("Hi"))

	m, submitCmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if submitCmd == nil {
		t.Fatal("Expected a command after submit")
	}
	if ctrl.State().Phase() != submission.Pending {
		t.Fatalf("Expected pending, got %s", ctrl.State().Phase())
	}
	if !strings.Contains(m.View(), "Generating") {
		t.Error("Expected disabled Generate control while pending")
	}

	// A second press while pending is ignored
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("Expected no command while pending")
	}

	close(release)
	m = waitDone(t, m, submitCmd)

	view := m.View()
	if !strings.Contains(view, "Response:") {
		t.Error("Expected response panel after success")
	}
	if !strings.Contains(view, "line one") || !strings.Contains(view, "  indented") {
		t.Errorf("Expected response text with whitespace preserved, got:\n%s", view)
	}
	if strings.Contains(view, "Generating") {
		t.Error("Generate control should be enabled again")
	}
}

func TestEmptyReplyShowsFallback(t *testing.T) {
	m, _ := newTestModel(t, replyWith(""), Deps{})
	m, _ = update(t, m, runes("Hi"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = waitDone(t, m, cmd)

	if !strings.Contains(m.View(), submission.FallbackResponse) {
		t.Error("Expected fallback text in response panel")
	}
}

func TestFailureShowsErrorWithoutPanel(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, endpoint, prompt string) (models.Reply, error) {
		return models.Reply{}, errors.New("connection refused")
	})
	m, _ := newTestModel(t, gen, Deps{})
	m, _ = update(t, m, runes("Hi"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = waitDone(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, submission.FailureMessage) {
		t.Error("Expected generic failure message")
	}
	if strings.Contains(view, "connection refused") {
		t.Error("Underlying error must not be shown")
	}
	if strings.Contains(view, "Response:") {
		t.Error("Response panel should be hidden after failure")
	}
}

func TestSelectorKeys(t *testing.T) {
	m, ctrl := newTestModel(t, replyWith("unused"), Deps{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSelector {
		t.Fatal("Expected selector focus after tab")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := ctrl.Snapshot().Model; got != models.Mistral {
		t.Errorf("Expected mistral, got %s", got)
	}

	m, _ = update(t, m, runes("3"))
	if got := ctrl.Snapshot().Model; got != models.Llama {
		t.Errorf("Expected llama, got %s", got)
	}

	// Wraps around
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := ctrl.Snapshot().Model; got != models.Gemini {
		t.Errorf("Expected gemini, got %s", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := ctrl.Snapshot().Model; got != models.Llama {
		t.Errorf("Expected llama, got %s", got)
	}

	// Selector keys do not leak into the prompt
	if got := ctrl.Snapshot().Prompt; got != "" {
		t.Errorf("Expected empty prompt, got %q", got)
	}
}

func TestSelectModelKeepsResponse(t *testing.T) {
	m, _ := newTestModel(t, replyWith("kept answer"), Deps{})
	m, _ = update(t, m, runes("Hi"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = waitDone(t, m, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	if !strings.Contains(m.View(), "kept answer") {
		t.Error("Changing the model should keep the displayed response")
	}
}

func TestCopyResponse(t *testing.T) {
	var copied string
	deps := Deps{Clipboard: func(s string) error {
		copied = s
		return nil
	}}
	m, _ := newTestModel(t, replyWith("copy me"), deps)

	// Nothing to copy yet
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd != nil {
		t.Error("Expected no copy command without a response")
	}

	m, _ = update(t, m, runes("Hi"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = waitDone(t, m, cmd)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("Expected a copy command")
	}
	m, _ = update(t, m, cmd())
	if copied != "copy me" {
		t.Errorf("Expected %q copied, got %q", "copy me", copied)
	}
	if !strings.Contains(m.View(), "Response copied") {
		t.Error("Expected copy notice")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, replyWith("unused"), Deps{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if m.mode != ViewHelp {
		t.Fatal("Expected help mode")
	}
	if !strings.Contains(m.View(), "KEYBINDINGS") {
		t.Error("Expected keybindings section")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ViewNormal {
		t.Error("Expected esc to close help")
	}
}

type fakeSource struct {
	entries []db.Entry
	stats   []db.Stats
}

func (f fakeSource) Recent(ctx context.Context, limit int) ([]db.Entry, error) {
	return f.entries, nil
}

func (f fakeSource) StatsByModel(ctx context.Context) ([]db.Stats, error) {
	return f.stats, nil
}

func TestDiagnosticsOverlay(t *testing.T) {
	src := fakeSource{
		entries: []db.Entry{
			{AttemptID: "b", Model: "llama", Endpoint: "http://localhost:8000/llama/", Phase: "failed", Detail: "dial tcp: connection refused", CreatedAt: time.Now()},
			{AttemptID: "a", Model: "gemini", Phase: "succeeded", StatusCode: 200, DurationMS: 1200, CreatedAt: time.Now()},
		},
		stats: []db.Stats{{Model: "gemini", Succeeded: 1}, {Model: "llama", Failed: 1}},
	}
	m, _ := newTestModel(t, replyWith("unused"), Deps{Diagnostics: src})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.mode != ViewDiagnostics || cmd == nil {
		t.Fatal("Expected diagnostics mode with a load command")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("Expected loading placeholder")
	}

	m, _ = update(t, m, cmd())
	view := m.View()
	if !strings.Contains(view, "connection refused") {
		t.Error("Expected detail of the selected failure")
	}
	if !strings.Contains(view, "ok") {
		t.Error("Expected success row")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if sel := m.diagnostics.Selected(); sel == nil || sel.AttemptID != "a" {
		t.Errorf("Expected cursor on second entry, got %+v", sel)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ViewNormal {
		t.Error("Expected esc to close diagnostics")
	}
}

func TestDiagnosticsDisabled(t *testing.T) {
	msg := loadDiagnostics(context.Background(), nil)()
	d := NewDiagnosticsState()
	d.Apply(msg.(diagnosticsLoadedMsg))

	if !strings.Contains(d.Render(100, 40), "disabled") {
		t.Error("Expected disabled notice")
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		entry db.Entry
		want  string
	}{
		{db.Entry{Phase: "succeeded"}, "ok"},
		{db.Entry{Phase: "succeeded", Fallback: true}, "empty"},
		{db.Entry{Phase: "failed"}, "failed"},
		{db.Entry{Phase: "failed", Timeout: true}, "timeout"},
	}
	for _, tt := range tests {
		if got, _ := outcomeLabel(tt.entry); got != tt.want {
			t.Errorf("outcomeLabel(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestWrapPreserving(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "hello", 10, "hello"},
		{"blank lines", "a\n\nb", 10, "a\n\nb"},
		{"leading spaces", "  code", 10, "  code"},
		{"tabs", "\tx", 10, "    x"},
		{"wraps", "abcdef", 4, "abcd\nef"},
		{"wide runes", "日本語", 4, "日本\n語"},
		{"zero width", "abcdef", 0, "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapPreserving(tt.text, tt.width); got != tt.want {
				t.Errorf("wrapPreserving(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
