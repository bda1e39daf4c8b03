// internal/ui/diagnostics.go
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"modelselector/internal/db"
)

// recentLimit bounds how many outcomes the overlay loads.
const recentLimit = 200

// DiagnosticsSource is the read side of the outcome journal.
type DiagnosticsSource interface {
	Recent(ctx context.Context, limit int) ([]db.Entry, error)
	StatsByModel(ctx context.Context) ([]db.Stats, error)
}

type diagnosticsLoadedMsg struct {
	entries []db.Entry
	stats   []db.Stats
	err     error
}

func loadDiagnostics(ctx context.Context, src DiagnosticsSource) tea.Cmd {
	return func() tea.Msg {
		if src == nil {
			return diagnosticsLoadedMsg{err: fmt.Errorf("diagnostics journal disabled")}
		}
		entries, err := src.Recent(ctx, recentLimit)
		if err != nil {
			return diagnosticsLoadedMsg{err: err}
		}
		stats, err := src.StatsByModel(ctx)
		if err != nil {
			return diagnosticsLoadedMsg{err: err}
		}
		return diagnosticsLoadedMsg{entries: entries, stats: stats}
	}
}

// DiagnosticsState holds the state for the diagnostics browser
type DiagnosticsState struct {
	entries   []db.Entry
	stats     []db.Stats
	err       error
	loading   bool
	cursor    int
	scrollTop int
	maxHeight int
}

// NewDiagnosticsState creates a new diagnostics state
func NewDiagnosticsState() *DiagnosticsState {
	return &DiagnosticsState{
		loading:   true,
		maxHeight: 20, // default, will be updated based on terminal size
	}
}

// Begin marks a reload in progress
func (d *DiagnosticsState) Begin() {
	d.loading = true
	d.err = nil
}

// Apply stores a load result and resets the cursor
func (d *DiagnosticsState) Apply(msg diagnosticsLoadedMsg) {
	d.entries = msg.entries
	d.stats = msg.stats
	d.err = msg.err
	d.loading = false
	d.cursor = 0
	d.scrollTop = 0
}

// Up moves the cursor up
func (d *DiagnosticsState) Up() {
	if d.cursor > 0 {
		d.cursor--
		if d.cursor < d.scrollTop {
			d.scrollTop = d.cursor
		}
	}
}

// Down moves the cursor down
func (d *DiagnosticsState) Down() {
	if d.cursor < len(d.entries)-1 {
		d.cursor++
		if d.cursor >= d.scrollTop+d.maxHeight {
			d.scrollTop = d.cursor - d.maxHeight + 1
		}
	}
}

// Selected returns the entry under the cursor, or nil if none
func (d *DiagnosticsState) Selected() *db.Entry {
	if d.cursor >= 0 && d.cursor < len(d.entries) {
		return &d.entries[d.cursor]
	}
	return nil
}

// SetMaxHeight updates the max visible height
func (d *DiagnosticsState) SetMaxHeight(height int) {
	d.maxHeight = height - 14 // Leave room for header, stats, detail and footer
	if d.maxHeight < 5 {
		d.maxHeight = 5
	}
}

// Render renders the diagnostics overlay
func (d *DiagnosticsState) Render(width, height int) string {
	var content strings.Builder

	content.WriteString(TitleStyle.Render("SUBMISSION DIAGNOSTICS"))
	content.WriteString("\n")
	content.WriteString(DimStyle.Render("Outcomes only; prompts and responses are never stored"))
	content.WriteString("\n\n")

	switch {
	case d.err != nil:
		content.WriteString(ErrorStyle.Render(d.err.Error()))
	case d.loading:
		content.WriteString(DimStyle.Render("Loading..."))
	case len(d.entries) == 0:
		content.WriteString(DimStyle.Render("No submissions recorded yet."))
	default:
		d.renderStats(&content)
		d.renderTable(&content)
		d.renderDetail(&content)
	}

	content.WriteString("\n\n")
	content.WriteString(DimStyle.Render("Up/Down: Navigate | Esc: Close"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2).
		MaxWidth(width - 10).
		MaxHeight(height - 4)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlayStyle.Render(content.String()),
	)
}

func (d *DiagnosticsState) renderStats(sb *strings.Builder) {
	var parts []string
	for _, st := range d.stats {
		parts = append(parts, fmt.Sprintf("%s %s/%s",
			st.Model,
			StatusOK.Render(fmt.Sprint(st.Succeeded)),
			StatusCrit.Render(fmt.Sprint(st.Failed))))
	}
	if len(parts) > 0 {
		sb.WriteString(strings.Join(parts, "   "))
		sb.WriteString("\n\n")
	}
}

func (d *DiagnosticsState) renderTable(sb *strings.Builder) {
	visibleEnd := d.scrollTop + d.maxHeight
	if visibleEnd > len(d.entries) {
		visibleEnd = len(d.entries)
	}

	header := fmt.Sprintf("  %-16s  %-8s  %-10s  %-6s  %s", "Time", "Model", "Outcome", "HTTP", "Duration")
	sb.WriteString(DimStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(DimStyle.Render(strings.Repeat("-", 60)))
	sb.WriteString("\n")

	for i := d.scrollTop; i < visibleEnd; i++ {
		e := d.entries[i]

		timeStr := e.CreatedAt.Local().Format("2006-01-02 15:04")
		if time.Since(e.CreatedAt) < 24*time.Hour {
			timeStr = e.CreatedAt.Local().Format("Today 15:04")
		}

		outcome, style := outcomeLabel(e)
		status := "-"
		if e.StatusCode != 0 {
			status = fmt.Sprint(e.StatusCode)
		}
		duration := (time.Duration(e.DurationMS) * time.Millisecond).Round(10 * time.Millisecond)

		cursor := "  "
		lineStyle := DimStyle
		if i == d.cursor {
			cursor = "> "
			lineStyle = lipgloss.NewStyle().Foreground(Primary)
		}

		line := fmt.Sprintf("%-16s  %-8s  %s  %-6s  %s",
			timeStr, e.Model, style.Width(10).Render(outcome), status, duration)
		sb.WriteString(cursor)
		sb.WriteString(lineStyle.Render(line))
		sb.WriteString("\n")
	}

	if len(d.entries) > d.maxHeight {
		sb.WriteString("\n")
		sb.WriteString(DimStyle.Render(fmt.Sprintf("Showing %d-%d of %d",
			d.scrollTop+1, visibleEnd, len(d.entries))))
		sb.WriteString("\n")
	}
}

func (d *DiagnosticsState) renderDetail(sb *strings.Builder) {
	e := d.Selected()
	if e == nil || e.Detail == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(e.Endpoint))
	sb.WriteString("\n")
	sb.WriteString(ErrorStyle.Render(runewidth.Truncate(e.Detail, 72, "...")))
}

func outcomeLabel(e db.Entry) (string, lipgloss.Style) {
	switch {
	case e.Phase == "failed" && e.Timeout:
		return "timeout", StatusCrit
	case e.Phase == "failed":
		return "failed", StatusCrit
	case e.Fallback:
		return "empty", StatusWarn
	default:
		return "ok", StatusOK
	}
}
