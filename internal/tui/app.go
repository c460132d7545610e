package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/mode"
)

// Layout constants.
const (
	headerRows      = 1
	footerRows      = 2 // Notice line and status line
	panelWidth      = 38
	panelMinWidth   = 100 // Narrower terminals hide the detail panel
	eventBuffer     = 64
	noticeTimeout   = 6 * time.Second
	doubleClickTime = 400 * time.Millisecond
)

// DefaultCenter is the initial map center when no report is pending.
var DefaultCenter = domain.LatLon{Lat: 52.1326, Lon: 5.2913}

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	config    *domain.Config
	view      *MapView
	modes     *mode.Controller
	events    chan tea.Msg
	now       func() time.Time

	// Components (structs with pointers)
	keys       KeyMap
	styles     Styles
	help       help.Model
	statusLine *StatusLine
	spinner    spinner.Model
	input      textinput.Model

	// Notice state
	notice      string
	lastPressAt time.Time

	// Numeric state (smaller types last)
	mode          Mode
	confirmAction ConfirmAction
	fileAction    FileAction
	noticeLevel   domain.NotificationLevel
	noticeSeq     int
	width         int
	height        int
	dragButton    domain.PointerButton
	lastPressCol  int
	lastPressRow  int
	clickCount    int
	submitting    bool
	quitting      bool
}

// New creates a TUI Model and connects it to the container as map view,
// renderer and notification target.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := DefaultStyles()
	m := &Model{
		container:  c,
		config:     c.Config,
		events:     make(chan tea.Msg, eventBuffer),
		now:        time.Now,
		keys:       DefaultKeyMap(),
		styles:     styles,
		help:       help.New(),
		statusLine: NewStatusLine(0, &styles),
		spinner:    sp,
		input:      ti,
		mode:       ModeNormal,
	}

	m.view = NewMapView(initialCenter(c), 1, 1)
	c.AttachMap(m.view, layerRenderer{events: m.events})
	c.Notifier.SetTarget(eventNotifier{events: m.events, log: c.Log})
	m.modes = c.NewModeController(m.view, m.view, nil)
	return m
}

// initialCenter centers on the first pending report, if any.
func initialCenter(c *app.Container) domain.LatLon {
	if pending := c.Store.PendingReports(); len(pending) > 0 {
		return pending[0].Position()
	}
	return DefaultCenter
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that delivers the next event from the core.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// MapView returns the map that acts as viewport and pointer source.
func (m *Model) MapView() *MapView {
	return m.view
}

// Close detaches the model from the container.
func (m *Model) Close() {
	m.modes.Close()
	m.container.DetachMap()
}

// mapSize returns the map area in cells.
func (m *Model) mapSize() (cols, rows int) {
	cols = m.width
	if m.width >= panelMinWidth {
		cols -= panelWidth
	}
	rows = m.height - headerRows - footerRows
	return max(cols, 1), max(rows, 1)
}

// layerRenderer turns repaint requests from any goroutine into messages.
type layerRenderer struct {
	events chan<- tea.Msg
}

// Invalidate implements domain.Renderer. Requests are dropped while the queue is full.
func (r layerRenderer) Invalidate() {
	select {
	case r.events <- MsgRepaint{}:
	default:
	}
}

// eventNotifier shows notifications in the TUI and logs them.
type eventNotifier struct {
	events chan<- tea.Msg
	log    domain.Logger
}

// Notify implements domain.Notifier.
func (n eventNotifier) Notify(note domain.Notification) {
	switch note.Level {
	case domain.NotifyError:
		n.log.Error("notify", note.Message)
	case domain.NotifyWarning:
		n.log.Warn("notify", note.Message)
	default:
		n.log.Info("notify", note.Message)
	}
	select {
	case n.events <- MsgNotify{Notification: note}:
	default:
	}
}
