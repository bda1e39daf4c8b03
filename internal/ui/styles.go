// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"modelselector/internal/models"
)

var (
	// Colors
	Primary       = lipgloss.Color("#00F5D4")
	Secondary     = lipgloss.Color("#9B5DE5")
	Background    = lipgloss.Color("#0D0D0D")
	Paper         = lipgloss.Color("#1E1E1E")
	Text          = lipgloss.Color("#FFFFFF")
	TextSecondary = lipgloss.Color("#C1C1C1")
	Red           = lipgloss.Color("#FF6B6B")
	Orange        = lipgloss.Color("#FFA500")
	Green         = lipgloss.Color("#00FF00")
	Dim           = lipgloss.Color("#555555")

	// Box styles
	ActiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	InactiveBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Dim)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondary)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(Dim)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(Green)

	// Generate control
	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Background).
			Background(Primary).
			Padding(0, 3)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(TextSecondary).
				Background(Paper).
				Padding(0, 3)

	// Status indicators
	StatusOK   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	StatusWarn = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	StatusCrit = lipgloss.NewStyle().Foreground(Red).Bold(true)

	// Selector option styles
	SelectedOptionStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1)

	OptionStyle = lipgloss.NewStyle().
			Foreground(Dim).
			Padding(0, 1)
)

// ModelStyle returns the style for a given model
func ModelStyle(id models.ModelID) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ModelColor(id)).Bold(true)
}

// ModelColor returns the color for a given model
func ModelColor(id models.ModelID) lipgloss.Color {
	return lipgloss.Color(models.Info(id).Color)
}
