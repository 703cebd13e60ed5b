package ui

import "github.com/charmbracelet/lipgloss"

var (
	markerColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
	okColor     = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
)

var (
	MarkerStyle = lipgloss.NewStyle().
			Foreground(markerColor).
			Bold(true)

	// UnknownMarkerStyle shows a tag whose glyph is not registered
	UnknownMarkerStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(okColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)
