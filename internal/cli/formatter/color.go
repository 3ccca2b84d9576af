package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwoodfin/copydesk/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Dim renders s in the dim style.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// StatusStyle returns the style for a worklist status.
func StatusStyle(status domain.ItemStatus) lipgloss.Style {
	switch status {
	case domain.StatusPublished:
		return StyleGreen
	case domain.StatusReadyToPublish, domain.StatusPublishing:
		return StyleBlue
	case domain.StatusParsingReview, domain.StatusProofreadingReview:
		return StyleYellow
	case domain.StatusFailed:
		return StyleRed
	case domain.StatusPending:
		return StyleDim
	default:
		return StyleFg
	}
}

// StatusBadge renders a status as a colored label, underscores spaced out.
func StatusBadge(status domain.ItemStatus) string {
	label := strings.ReplaceAll(string(status), "_", " ")
	return StatusStyle(status).Render(label)
}

// SeverityBadge renders a severity as a colored indicator.
func SeverityBadge(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return StyleRed.Render("● critical")
	case domain.SeverityWarning:
		return StyleYellow.Render("● warning")
	case domain.SeverityInfo:
		return StyleBlue.Render("● info")
	default:
		return StyleDim.Render("● " + string(s))
	}
}

// DecisionBadge renders a decision status with its color.
func DecisionBadge(d domain.DecisionStatus) string {
	switch d {
	case domain.DecisionAccepted:
		return StyleGreen.Render(string(d))
	case domain.DecisionRejected:
		return StyleRed.Render(string(d))
	case domain.DecisionModified:
		return StylePurple.Render(string(d))
	default:
		return StyleDim.Render(string(d))
	}
}
