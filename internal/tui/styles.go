package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	// Base colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	// Markers
	Pending     lipgloss.Color
	Open        lipgloss.Color
	Closed      lipgloss.Color
	Rejected    lipgloss.Color
	Selected    lipgloss.Color
	Highlighted lipgloss.Color
	Area        lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	Pending:     lipgloss.Color("#74B9FF"), // Light blue
	Open:        lipgloss.Color("#FDCB6E"), // Yellow
	Closed:      lipgloss.Color("#00B894"), // Green
	Rejected:    lipgloss.Color("#D63031"), // Red
	Selected:    lipgloss.Color("#FFEAA7"), // Pale yellow
	Highlighted: lipgloss.Color("#FFFFFF"),
	Area:        lipgloss.Color("#3B4446"),
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	// Map
	MapEmpty    lipgloss.Style
	MapArea     lipgloss.Style // Downloaded or data source area
	Crosshair   lipgloss.Style
	Link        lipgloss.Style
	Pending     lipgloss.Style
	Open        lipgloss.Style
	Closed      lipgloss.Style
	Rejected    lipgloss.Style
	Selected    lipgloss.Style
	Highlighted lipgloss.Style

	// Detail panel
	Detail      lipgloss.Style
	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style

	// Dialog
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	DialogPrompt lipgloss.Style
	InputPrompt  lipgloss.Style

	// Notices
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Help
	Help lipgloss.Style

	// Footer
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		HeaderText: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		MapEmpty: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		MapArea: lipgloss.NewStyle().
			Foreground(Colors.Area),

		Crosshair: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Link: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Pending: lipgloss.NewStyle().
			Foreground(Colors.Pending).
			Bold(true),

		Open: lipgloss.NewStyle().
			Foreground(Colors.Open),

		Closed: lipgloss.NewStyle().
			Foreground(Colors.Closed),

		Rejected: lipgloss.NewStyle().
			Foreground(Colors.Rejected),

		Selected: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.Selected).
			Bold(true),

		Highlighted: lipgloss.NewStyle().
			Foreground(Colors.Highlighted).
			Underline(true).
			Bold(true),

		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted).
			Padding(0, 1),

		DetailTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Selected),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		DetailValue: lipgloss.NewStyle(),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),

		DialogTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		DialogPrompt: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		InputPrompt: lipgloss.NewStyle().
			Foreground(Colors.Secondary),

		Info: lipgloss.NewStyle().
			Foreground(Colors.Success),

		Warning: lipgloss.NewStyle().
			Foreground(Colors.Warning),

		Error: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Help: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Muted),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Padding(0, 1),

		FooterKey: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),
	}
}

// MarkerStyle returns the style of a report marker by kind and status.
func (s Styles) MarkerStyle(r *domain.Report) lipgloss.Style {
	c := r.Confirmed()
	if c == nil {
		return s.Pending
	}
	switch c.StatusCode {
	case domain.StatusCompleted:
		return s.Closed
	case domain.StatusRejected:
		return s.Rejected
	default:
		return s.Open
	}
}

// NoticeStyle returns the style for a notification level.
func (s Styles) NoticeStyle(level domain.NotificationLevel) lipgloss.Style {
	switch level {
	case domain.NotifyError:
		return s.Error
	case domain.NotifyWarning:
		return s.Warning
	default:
		return s.Info
	}
}
