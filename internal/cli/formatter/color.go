package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/charmbracelet/lipgloss"
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

// statusColors gives every lifecycle status its own hue so a list can be
// scanned by color alone.
var statusColors = map[domain.Status]lipgloss.Color{
	domain.StatusNotStarted: lipgloss.Color("#E74C3C"),
	domain.StatusCompleted:  lipgloss.Color("#2ECC71"),
	domain.StatusInProgress: lipgloss.Color("#F39C12"),
	domain.StatusAborted:    lipgloss.Color("#95A5A6"),
	domain.StatusPaused:     lipgloss.Color("#9B59B6"),
}

// StatusStyle returns the style for s, falling back to the dim style for
// anything outside the enumerated set.
func StatusStyle(s domain.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(c)
}

// StatusPill returns a colored status indicator such as "● In Progress".
func StatusPill(s domain.Status) string {
	marker := "●"
	switch s {
	case domain.StatusCompleted:
		marker = "✔"
	case domain.StatusAborted:
		marker = "✖"
	case domain.StatusPaused:
		marker = "○"
	}
	return StatusStyle(s).Render(fmt.Sprintf("%s %s", marker, s))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
