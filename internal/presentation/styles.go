package presentation

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#85DCB0")
	warningColor = lipgloss.Color("#F6AE2D")
	errorColor   = lipgloss.Color("#E85D75")
	mutedColor   = lipgloss.Color("#6B7280")
)
