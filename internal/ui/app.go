// internal/ui/app.go
package ui

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"modelselector/internal/models"
	"modelselector/internal/submission"
)

// ViewMode represents the current view state
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewHelp
	ViewDiagnostics
)

type focusArea int

const (
	focusSelector focusArea = iota
	focusPrompt
)

// Deps are the collaborators the form is wired to.
type Deps struct {
	Controller  *submission.Controller
	Diagnostics DiagnosticsSource // nil when the journal is disabled
	Clipboard   func(string) error
	Logger      *slog.Logger
}

// attemptDoneMsg carries the terminal state of an attempt.
type attemptDoneMsg struct {
	attempt *submission.Attempt
	state   submission.State
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	err error
}

type Model struct {
	ctx  context.Context
	deps Deps

	keys     keyMap
	help     help.Model
	prompt   textarea.Model
	spinner  spinner.Model
	response viewport.Model

	focus       focusArea
	mode        ViewMode
	diagnostics *DiagnosticsState
	notice      string

	width, height int
	ready         bool
}

func New(ctx context.Context, deps Deps) Model {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ta := textarea.New()
	ta.Placeholder = "Enter your prompt"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(Secondary)),
	)

	vp := viewport.New(60, 10)
	vp.MouseWheelEnabled = true

	m := Model{
		ctx:         ctx,
		deps:        deps,
		keys:        defaultKeyMap(),
		help:        help.New(),
		prompt:      ta,
		spinner:     sp,
		response:    vp,
		focus:       focusPrompt,
		diagnostics: NewDiagnosticsState(),
	}
	m.prompt.SetValue(deps.Controller.Snapshot().Prompt)
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case ViewHelp:
			if key.Matches(msg, m.keys.Close) {
				m.mode = ViewNormal
			}
			return m, nil
		case ViewDiagnostics:
			return m.updateDiagnostics(msg)
		}
		return m.updateForm(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.response, cmd = m.response.Update(msg)
		return m, cmd

	case attemptDoneMsg:
		if msg.attempt.Superseded() {
			m.deps.Logger.Debug("displaying outcome for earlier inputs", "attempt", msg.attempt.ID)
		}
		m.syncResponse()
		return m, nil

	case spinner.TickMsg:
		if m.deps.Controller.State().Phase() != submission.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("copy response", "error", msg.err)
			m.notice = "Clipboard unavailable"
		} else {
			m.notice = "Response copied"
		}
		return m, nil

	case diagnosticsLoadedMsg:
		m.diagnostics.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.NextFocus), key.Matches(msg, m.keys.PrevFocus):
		return m.toggleFocus()

	case key.Matches(msg, m.keys.Help):
		m.mode = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.mode = ViewDiagnostics
		m.diagnostics.Begin()
		m.diagnostics.SetMaxHeight(m.height)
		return m, loadDiagnostics(m.ctx, m.deps.Diagnostics)

	case key.Matches(msg, m.keys.Copy):
		return m.copyResponse()
	}

	if m.focus == focusSelector {
		return m.updateSelector(msg)
	}

	var cmd tea.Cmd
	before := m.prompt.Value()
	m.prompt, cmd = m.prompt.Update(msg)
	if after := m.prompt.Value(); after != before {
		m.deps.Controller.EditPrompt(after)
	}
	return m, cmd
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.deps.Controller.Snapshot().Model
	all := models.All()

	switch {
	case key.Matches(msg, m.keys.PrevModel):
		m.deps.Controller.SelectModel(all[(indexOf(all, current)+len(all)-1)%len(all)])
	case key.Matches(msg, m.keys.NextModel):
		m.deps.Controller.SelectModel(all[(indexOf(all, current)+1)%len(all)])
	case msg.String() == "enter":
		return m.submit()
	case msg.String() == "?":
		m.mode = ViewHelp
	default:
		if n := msg.String(); len(n) == 1 && n[0] >= '1' && int(n[0]-'1') < len(all) {
			m.deps.Controller.SelectModel(all[n[0]-'1'])
		}
	}
	return m, nil
}

func (m Model) updateDiagnostics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Diagnostics):
		m.mode = ViewNormal
	case key.Matches(msg, m.keys.Up):
		m.diagnostics.Up()
	case key.Matches(msg, m.keys.Down):
		m.diagnostics.Down()
	}
	return m, nil
}

// submit forwards to the controller. Skips (empty prompt, already pending)
// are silent.
func (m Model) submit() (tea.Model, tea.Cmd) {
	attempt, err := m.deps.Controller.Submit(m.ctx)
	if err != nil {
		return m, nil
	}
	m.syncResponse()
	return m, tea.Batch(m.spinner.Tick, waitForAttempt(attempt))
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusPrompt {
		m.focus = focusSelector
		m.prompt.Blur()
		return m, nil
	}
	m.focus = focusPrompt
	return m, m.prompt.Focus()
}

func (m Model) copyResponse() (tea.Model, tea.Cmd) {
	text, ok := m.deps.Controller.State().Response()
	if !ok {
		return m, nil
	}
	write := m.deps.Clipboard
	return m, func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// syncResponse refreshes the response panel from the controller state.
func (m *Model) syncResponse() {
	text, _ := m.deps.Controller.State().Response()
	m.response.SetContent(wrapPreserving(text, m.response.Width))
	m.response.GotoTop()
}

func (m *Model) layout() {
	contentWidth := m.contentWidth()
	m.prompt.SetWidth(contentWidth - 2)
	m.help.Width = contentWidth

	// title, selector, prompt box, button, panel chrome, help
	used := 1 + 2 + (m.prompt.Height() + 2) + 2 + 4 + 2
	height := m.height - used
	if height < 3 {
		height = 3
	}
	m.response.Width = contentWidth - 4
	m.response.Height = height
	m.diagnostics.SetMaxHeight(m.height)
	m.syncResponse()
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

func waitForAttempt(a *submission.Attempt) tea.Cmd {
	return func() tea.Msg {
		return attemptDoneMsg{attempt: a, state: a.Wait()}
	}
}

func indexOf(ids []models.ModelID, id models.ModelID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	switch m.mode {
	case ViewHelp:
		return m.renderHelp()
	case ViewDiagnostics:
		return m.diagnostics.Render(m.width, m.height)
	}
	return m.renderForm()
}
