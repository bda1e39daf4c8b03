// internal/ui/help.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"modelselector/internal/models"
	"modelselector/internal/submission"
)

var (
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Secondary).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(Text)
)

// HelpContent returns the formatted help overlay content
func HelpContent(width, height int) string {
	var content strings.Builder

	content.WriteString(TitleStyle.Render("AI MODEL SELECTOR HELP"))
	content.WriteString("\n\n")

	content.WriteString(helpSectionStyle.Render("KEYBINDINGS"))
	content.WriteString("\n\n")

	keybindings := []struct {
		key  string
		desc string
	}{
		{"Ctrl+S", "Generate a response for the current prompt"},
		{"Tab", "Switch between the model selector and the prompt"},
		{"Left / Right", "Change model (selector focused)"},
		{"1-3", "Pick a model directly (selector focused)"},
		{"Enter", "Generate (selector focused)"},
		{"Ctrl+Y", "Copy the response to the clipboard"},
		{"Ctrl+D", "Browse submission diagnostics"},
		{"F1", "Toggle this help overlay"},
		{"Ctrl+C", "Quit"},
	}
	for _, kb := range keybindings {
		k := helpKeyStyle.Width(14).Render(kb.key)
		content.WriteString("  " + k + "  " + helpDescStyle.Render(kb.desc) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("MODELS"))
	content.WriteString("\n\n")
	for i, id := range models.All() {
		info := models.Info(id)
		content.WriteString("  " + helpKeyStyle.Width(14).Render(string(rune('1'+i))) + "  ")
		content.WriteString(ModelStyle(id).Render(info.Name) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(helpSectionStyle.Render("STATUS"))
	content.WriteString("\n\n")

	indicators := []struct {
		symbol string
		style  lipgloss.Style
		desc   string
	}{
		{"●", DimStyle, "Idle - nothing submitted yet"},
		{"●", StatusWarn, "Generating - the Generate control is disabled until it finishes"},
		{"●", StatusOK, "Response shown below the form (\"" + submission.FallbackResponse + "\" when empty)"},
		{"✗", StatusCrit, "Failed - the endpoint could not be reached or replied garbage"},
	}
	for _, ind := range indicators {
		symbol := ind.style.Width(3).Render(ind.symbol)
		content.WriteString("  " + symbol + "  " + helpDescStyle.Render(ind.desc) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(DimStyle.Render("  Changing the model or prompt keeps the last response until the next Generate."))
	content.WriteString("\n\n")

	footer := DimStyle.Render("Press F1 or Esc to close this help")
	content.WriteString(lipgloss.PlaceHorizontal(width-8, lipgloss.Center, footer))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 3).
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

// renderHelp renders the help overlay (called from app.go)
func (m Model) renderHelp() string {
	return HelpContent(m.width, m.height)
}
