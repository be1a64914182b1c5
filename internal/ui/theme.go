package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Console theme for the one-shot ranking output.
// Kept intentionally small: reusable styles and a couple of helpers.

var (
	cPrimary = lipgloss.Color("63")  // blue
	cGood    = lipgloss.Color("42")  // green
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
)

// Heading renders a section heading with an optional leading icon.
func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

// LabelValue renders a "Key: value" line.
func LabelValue(label string, value interface{}) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Profit renders a gold amount, red when negative.
func Profit(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v < 0 {
		return Bad.Render(s)
	}
	return Gold.Render(s)
}
