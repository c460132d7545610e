package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/filter"
	"github.com/osmnl/pdok-report/internal/mode"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.statusLine.SetWidth(msg.Width)
		m.input.Width = max(msg.Width-30, 10)
		m.view.Resize(m.mapSize())
		m.container.Coordinator.ViewportMoved()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case MsgRepaint:
		return m, m.waitForEvent()

	case MsgNotify:
		return m, tea.Batch(m.setNotice(msg.Notification.Level, msg.Notification.Message), m.waitForEvent())

	case MsgSubmitted:
		m.submitting = false
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrAPIKeyNotSet) {
			return m, m.setNotice(domain.NotifyError, msg.Err.Error())
		}
		return m, nil

	case MsgError:
		return m, m.setNotice(domain.NotifyError, msg.Err.Error())

	case MsgInfo:
		return m, m.setNotice(domain.NotifyInfo, msg.Text)

	case MsgClearNotice:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setNotice shows a message in the notice line until it expires.
func (m *Model) setNotice(level domain.NotificationLevel, text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeLevel = level
	seq := m.noticeSeq
	return tea.Tick(noticeTimeout, func(_ time.Time) tea.Msg {
		return MsgClearNotice{Seq: seq}
	})
}

// handleKey handles keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeInputNew, ModeInputEdit, ModeInputFile:
		return m.handleInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeNormal:
	}
	return m.handleNormalKey(msg)
}

// handleNormalKey handles keys while navigating the map.
func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols, rows := m.mapSize()
	store := m.container.Store

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, m.keys.Escape):
		store.SetSelected(nil, false)
		m.modes.Current().Reset()

	case key.Matches(msg, m.keys.Up):
		m.pan(0, -max(rows/4, 1))
	case key.Matches(msg, m.keys.Down):
		m.pan(0, max(rows/4, 1))
	case key.Matches(msg, m.keys.Left):
		m.pan(-max(cols/4, 1), 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(max(cols/4, 1), 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(0.5)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(2)

	case key.Matches(msg, m.keys.Zoom):
		if _, err := m.container.ZoomToSelectedUseCase(m.view).Execute(context.Background(), usecase.ZoomToSelectedInput{}); err != nil {
			return m, m.setNotice(domain.NotifyWarning, err.Error())
		}
		m.container.Coordinator.ViewportMoved()

	case key.Matches(msg, m.keys.New):
		return m, m.startInput(ModeInputNew, "Description of the new report", "")

	case key.Matches(msg, m.keys.Edit):
		r := store.Selected()
		if r == nil || !r.Kind().Editable() {
			return m, m.setNotice(domain.NotifyWarning, "Select a new report to edit")
		}
		return m, m.startInput(ModeInputEdit, "Description", r.Description())

	case key.Matches(msg, m.keys.Delete):
		if len(store.Selection()) == 0 {
			return m, m.setNotice(domain.NotifyWarning, "No report selected")
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDelete

	case key.Matches(msg, m.keys.Undo):
		if !m.container.Record.CanUndo() {
			return m, m.setNotice(domain.NotifyInfo, "Nothing to undo")
		}
		m.container.Record.Undo()
		store.Invalidate()

	case key.Matches(msg, m.keys.Redo):
		if !m.container.Record.CanRedo() {
			return m, m.setNotice(domain.NotifyInfo, "Nothing to redo")
		}
		m.container.Record.Redo()
		store.Invalidate()

	case key.Matches(msg, m.keys.Import):
		m.fileAction = FileImport
		return m, m.startInput(ModeInputFile, "Report file", "")

	case key.Matches(msg, m.keys.Export):
		m.fileAction = FileExport
		return m, m.startInput(ModeInputFile, "Report file", "")

	case key.Matches(msg, m.keys.Submit):
		if m.submitting {
			return m, m.setNotice(domain.NotifyInfo, m.container.Progress.String())
		}
		if len(store.PendingReports()) == 0 {
			return m, m.setNotice(domain.NotifyInfo, domain.ErrNoPendingReports.Error())
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmSubmit

	case key.Matches(msg, m.keys.Download):
		if err := m.container.Coordinator.DownloadVisibleArea(); err != nil {
			return m, m.setNotice(domain.NotifyError, err.Error())
		}

	case key.Matches(msg, m.keys.Stop):
		coord := m.container.Coordinator
		return m, func() tea.Msg {
			if err := coord.StopAll(); err != nil {
				return MsgError{Err: err}
			}
			return MsgInfo{Text: "Stopped all downloads"}
		}

	case key.Matches(msg, m.keys.Cycle):
		next := nextDownloadMode(m.config.Download.Mode)
		m.config.Download.Mode = next
		m.container.Coordinator.SetConfig(*m.config)
		if next == domain.DownloadOSMArea {
			m.container.Coordinator.DownloadOSMArea()
		}
		return m, m.setNotice(domain.NotifyInfo, "Download "+next.Label())

	case key.Matches(msg, m.keys.Area):
		if err := m.container.Sources.Add(m.view.Bounds()); err != nil {
			return m, m.setNotice(domain.NotifyError, err.Error())
		}
		return m, m.setNotice(domain.NotifyInfo, "Added the visible area as data area")

	case key.Matches(msg, m.keys.JoinMode):
		next := mode.KindJoin
		if m.modes.Current().Kind() == mode.KindJoin {
			next = mode.KindSelect
		}
		m.modes.Switch(next)

	case key.Matches(msg, m.keys.TogglePending):
		m.updateFilter(func(s *filter.Settings) { s.ShowPending = !s.ShowPending })
	case key.Matches(msg, m.keys.ToggleConfirmed):
		m.updateFilter(func(s *filter.Settings) { s.ShowConfirmed = !s.ShowConfirmed })
	case key.Matches(msg, m.keys.ToggleClosed):
		m.updateFilter(func(s *filter.Settings) { s.HideClosed = !s.HideClosed })
	case key.Matches(msg, m.keys.ToggleLayer):
		m.updateFilter(func(s *filter.Settings) { s.LayerInvisible = !s.LayerInvisible })
	case key.Matches(msg, m.keys.ResetFilter):
		m.container.Filter.Reset()
	}

	return m, nil
}

// nextDownloadMode cycles visible area -> OSM area -> manual only.
func nextDownloadMode(current domain.DownloadMode) domain.DownloadMode {
	switch current {
	case domain.DownloadVisibleArea:
		return domain.DownloadOSMArea
	case domain.DownloadOSMArea:
		return domain.DownloadManualOnly
	case domain.DownloadManualOnly:
		return domain.DownloadVisibleArea
	}
	return domain.DefaultDownloadMode
}

func (m *Model) pan(dCols, dRows int) {
	m.view.Pan(dCols, dRows)
	m.container.Coordinator.ViewportMoved()
}

func (m *Model) zoom(factor float64) {
	m.view.Zoom(factor)
	m.container.Coordinator.ViewportMoved()
}

func (m *Model) updateFilter(change func(s *filter.Settings)) {
	s := m.container.Filter.Settings()
	change(&s)
	m.container.Filter.Update(s)
}

// startInput switches to a text input mode.
func (m *Model) startInput(md Mode, placeholder, value string) tea.Cmd {
	m.mode = md
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// handleInputKey handles keys while a text input is active.
func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.finishInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		md := m.mode
		m.finishInput()
		return m, m.applyInput(md, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) finishInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.Reset()
}

// applyInput runs the use case for a confirmed text input.
func (m *Model) applyInput(md Mode, value string) tea.Cmd {
	ctx := context.Background()
	c := m.container

	switch md {
	case ModeInputNew:
		out, err := c.CreateReportUseCase().Execute(ctx, usecase.CreateReportInput{
			Description: value,
			Position:    m.view.Center(),
		})
		if err != nil {
			return m.setNotice(domain.NotifyError, err.Error())
		}
		return m.setNotice(domain.NotifyInfo, "Created report at "+out.Report.Position().String())

	case ModeInputEdit:
		if _, err := c.EditReportUseCase().Execute(ctx, usecase.EditReportInput{Description: value}); err != nil {
			return m.setNotice(domain.NotifyError, err.Error())
		}

	case ModeInputFile:
		if value == "" {
			return nil
		}
		if m.fileAction == FileExport {
			out, err := c.ExportReportsUseCase().Execute(ctx, usecase.ExportReportsInput{Path: value})
			if err != nil {
				return m.setNotice(domain.NotifyError, err.Error())
			}
			return m.setNotice(domain.NotifyInfo, fmt.Sprintf("Exported %d report(s) to %s", out.Count, out.Path))
		}
		out, err := c.ImportReportsUseCase().Execute(ctx, usecase.ImportReportsInput{Path: value})
		if err != nil {
			return m.setNotice(domain.NotifyError, err.Error())
		}
		if len(out.Reports) > 0 {
			m.view.ZoomTo(out.Reports[0].Position())
			c.Coordinator.ViewportMoved()
		}
		return m.setNotice(domain.NotifyInfo, fmt.Sprintf("Imported %d report(s)", len(out.Reports)))

	case ModeNormal, ModeConfirm, ModeHelp:
	}
	return nil
}

// handleConfirmKey handles keys in the confirmation dialog.
func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.confirmAction
	if !key.Matches(msg, m.keys.Confirm) {
		if key.Matches(msg, m.keys.Escape) || msg.String() == "n" {
			m.mode, m.confirmAction = ModeNormal, ConfirmNone
		}
		return m, nil
	}
	m.mode, m.confirmAction = ModeNormal, ConfirmNone

	switch action {
	case ConfirmDelete:
		out, err := m.container.DeleteReportsUseCase().Execute(context.Background(), usecase.DeleteReportsInput{})
		if err != nil {
			return m, m.setNotice(domain.NotifyWarning, err.Error())
		}
		return m, m.setNotice(domain.NotifyInfo, fmt.Sprintf("Deleted %d report(s)", len(out.Reports)))
	case ConfirmSubmit:
		m.submitting = true
		return m, tea.Batch(m.submit(), m.spinner.Tick)
	case ConfirmNone:
	}
	return m, nil
}

// submit uploads the pending reports in the background.
func (m *Model) submit() tea.Cmd {
	uc := m.container.SubmitReportsUseCase()
	return func() tea.Msg {
		out, err := uc.Execute(context.Background(), usecase.SubmitReportsInput{})
		return MsgSubmitted{Output: out, Err: err}
	}
}

// handleMouse translates terminal mouse events into pointer events for the
// active interaction mode.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != ModeNormal {
		return nil
	}
	col, row := msg.X, msg.Y-headerRows
	cols, rows := m.mapSize()
	inMap := col >= 0 && col < cols && row >= 0 && row < rows

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inMap {
			m.zoom(0.5)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if inMap {
			m.zoom(2)
		}
		return nil
	}

	x, y := CellCenter(col, row)
	e := domain.PointerEvent{X: x, Y: y, Additive: msg.Ctrl || msg.Alt, Shift: msg.Shift}

	switch msg.Action {
	case tea.MouseActionPress:
		if !inMap {
			return nil
		}
		e.Button = pointerButton(msg.Button)
		e.ClickCount = m.countClick(col, row)
		m.dragButton = e.Button
		m.view.Dispatch(PointerPress, e)

	case tea.MouseActionRelease:
		if m.dragButton == domain.ButtonNone {
			return nil
		}
		e.Button = m.dragButton
		m.dragButton = domain.ButtonNone
		m.view.Dispatch(PointerRelease, e)

	case tea.MouseActionMotion:
		if m.dragButton != domain.ButtonNone {
			e.Button = m.dragButton
			m.view.Dispatch(PointerDrag, e)
		} else if inMap {
			m.view.Dispatch(PointerMove, e)
		}
	}
	return nil
}

// countClick returns the click count of a press, counting repeated presses
// on the same cell within the double-click time.
func (m *Model) countClick(col, row int) int {
	now := m.now()
	if col == m.lastPressCol && row == m.lastPressRow && now.Sub(m.lastPressAt) <= doubleClickTime {
		m.clickCount++
	} else {
		m.clickCount = 1
	}
	m.lastPressCol, m.lastPressRow, m.lastPressAt = col, row, now
	return m.clickCount
}

func pointerButton(b tea.MouseButton) domain.PointerButton {
	switch b {
	case tea.MouseButtonLeft:
		return domain.ButtonLeft
	case tea.MouseButtonMiddle:
		return domain.ButtonMiddle
	case tea.MouseButtonRight:
		return domain.ButtonRight
	default:
		return domain.ButtonNone
	}
}
