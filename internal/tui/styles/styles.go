package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray)

	// MutedText is used for de-emphasized text and unknown values.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is used for error and warning messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red)
)

// --- Status badges ---

// StatusStyle returns the style for a sync status value.
func StatusStyle(status domain.SyncStatus) lipgloss.Style {
	switch status {
	case domain.StatusSynchronized:
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case domain.StatusOutOfSync:
		return lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	case domain.StatusAheadOfUpstream:
		return lipgloss.NewStyle().Foreground(Yellow)
	case domain.StatusHashMismatch:
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case domain.StatusUnreachable:
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a small dot + status text with appropriate color.
func StatusIndicator(status domain.SyncStatus) string {
	style := StatusStyle(status)
	return style.Render("●") + " " + style.Render(status.String())
}

// --- Key binding hint styles ---

var (
	// KeyStyle is used for key labels in the footer (e.g. "q").
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// KeyDescStyle is used for key descriptions in the footer (e.g. "quit").
	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// KeySepStyle is used for separators between key bindings.
	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}
