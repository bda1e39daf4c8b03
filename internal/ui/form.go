// internal/ui/form.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"modelselector/internal/models"
	"modelselector/internal/submission"
)

func (m Model) renderForm() string {
	session := m.deps.Controller.Snapshot()
	width := m.contentWidth()

	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("AI Model Selector"))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderSelector(session.Model))
	sb.WriteString("\n")

	box := InactiveBox
	if m.focus == focusPrompt {
		box = ActiveBox
	}
	sb.WriteString(box.Width(width - 2).Render(m.prompt.View()))
	sb.WriteString("\n")

	sb.WriteString(m.renderButton(session.State))
	sb.WriteString("\n")

	switch session.State.Phase() {
	case submission.Succeeded:
		sb.WriteString(m.renderResponse(width))
		sb.WriteString("\n")
	case submission.Failed:
		msg, _ := session.State.Error()
		sb.WriteString(ErrorStyle.Render(msg))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString(NoticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

// renderSelector shows every model with the selection highlighted.
func (m Model) renderSelector(selected models.ModelID) string {
	var options []string
	for i, id := range models.All() {
		info := models.Info(id)
		label := string(rune('1'+i)) + " " + info.Name
		if id == selected {
			style := SelectedOptionStyle.Foreground(ModelColor(id))
			if m.focus == focusSelector {
				style = style.Background(Paper).Underline(true)
			}
			options = append(options, style.Render("● "+label))
		} else {
			options = append(options, OptionStyle.Render("○ "+label))
		}
	}

	label := LabelStyle.Render("Model: ")
	if m.focus == focusSelector {
		label = TitleStyle.Render("Model: ")
	}
	return label + lipgloss.JoinHorizontal(lipgloss.Top, options...)
}

// renderButton draws the Generate control, disabled while a request is in flight.
func (m Model) renderButton(state submission.State) string {
	if state.Phase() == submission.Pending {
		return ButtonDisabledStyle.Render(m.spinner.View() + " Generating")
	}
	return ButtonStyle.Render("Generate")
}

func (m Model) renderResponse(width int) string {
	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render("Response:"))
	sb.WriteString("\n")
	sb.WriteString(m.response.View())
	return PanelStyle.Width(width - 2).Render(sb.String())
}

// wrapPreserving breaks lines wider than width by display cells while keeping
// every space, tab and blank line of text.
func wrapPreserving(text string, width int) string {
	if width <= 0 {
		return text
	}

	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		line = strings.ReplaceAll(line, "\t", "    ")
		col := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if col+w > width && col > 0 {
				sb.WriteString("\n")
				col = 0
			}
			sb.WriteRune(r)
			col += w
		}
	}
	return sb.String()
}
