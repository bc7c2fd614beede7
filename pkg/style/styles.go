// Package style centralizes the CLI's terminal styling: lipgloss styles for
// structured output (describe listings, headings) and a pterm printer for
// error messages.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// Template source text and token values
	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Background(SurfaceColor).
			Padding(0, 1)

	FieldStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
