package main

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	// SubtitleStyle is for secondary headers and de-emphasized text.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// SuccessStyle marks positive outcomes.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(colorError)
)
