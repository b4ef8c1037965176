package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Purple - brand color
	ColorSuccess = lipgloss.Color("#22C55E") // Green
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorInfo    = lipgloss.Color("#3B82F6") // Blue
	ColorSubtle  = lipgloss.Color("#6B7280") // Gray
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Symbols for consistent visual language
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolInfo    = "→"
)

var (
	BrandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(12)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)
