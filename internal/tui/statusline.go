package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// StatusLineInfo is what the status line shows: key hints on the left,
// activity on the right.
type StatusLineInfo struct {
	Activity []string // e.g. upload progress, running downloads, active mode
	Hints    []key.Binding
}

// StatusLine renders the bottom line of the screen.
type StatusLine struct {
	styles *Styles
	width  int
}

// NewStatusLine creates a StatusLine.
func NewStatusLine(width int, styles *Styles) *StatusLine {
	return &StatusLine{
		width:  width,
		styles: styles,
	}
}

// SetWidth updates the status line width.
func (s *StatusLine) SetWidth(width int) {
	s.width = width
}

// Render lays out info. Hints are cut when the activity needs the room.
func (s *StatusLine) Render(info StatusLineInfo) string {
	hints := make([]string, 0, len(info.Hints))
	for _, b := range info.Hints {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, s.styles.FooterKey.Render(h.Key)+" "+h.Desc)
	}
	left := strings.Join(hints, "  ")
	right := strings.Join(info.Activity, "  ")

	inner := s.width - 2 // Footer padding
	room := inner - lipgloss.Width(right) - 1
	if lipgloss.Width(left) > room {
		left = truncate.StringWithTail(left, uint(max(room, 0)), "…")
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.Footer.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

// GetStatusInfo collects the status line content for the current state.
func (m *Model) GetStatusInfo() StatusLineInfo {
	var info StatusLineInfo
	if p := m.container.Progress; p.Uploading() {
		info.Activity = append(info.Activity, m.spinner.View()+p.String())
	}
	if n := m.container.Coordinator.Running(); n > 0 {
		info.Activity = append(info.Activity, fmt.Sprintf("downloading (%d)", n))
	}
	if cur := m.modes.Current(); cur != nil {
		info.Activity = append(info.Activity, cur.String())
	}

	switch m.mode {
	case ModeNormal:
		info.Hints = m.keys.ShortHelp()
	case ModeInputNew, ModeInputEdit, ModeInputFile:
		info.Hints = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			m.keys.Escape,
		}
	case ModeConfirm:
		info.Hints = []key.Binding{
			m.keys.Confirm,
			key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
		}
	case ModeHelp:
		info.Hints = []key.Binding{
			key.NewBinding(key.WithKeys("?", "esc"), key.WithHelp("?/esc", "close")),
		}
	}
	return info
}
