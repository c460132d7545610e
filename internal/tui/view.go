package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Map glyphs.
const (
	glyphEmpty     = ' '
	glyphArea      = '·'
	glyphCrosshair = '┼'
	glyphLink      = '•'
)

// cell is one rendered map position.
type cell struct {
	style *lipgloss.Style
	glyph rune
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.mode == ModeHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	mapLines := m.renderMap()
	if m.width >= panelMinWidth {
		_, rows := m.mapSize()
		panel := m.viewPanel(rows)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(mapLines, "\n"), panel))
	} else {
		b.WriteString(strings.Join(mapLines, "\n"))
	}
	b.WriteString("\n")

	b.WriteString(m.viewNoticeLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine.Render(m.GetStatusInfo()))
	return b.String()
}

// viewHeader renders the title, API mode, counts and map position.
func (m *Model) viewHeader() string {
	visible, total := m.container.Filter.Count()
	pending := len(m.container.Store.PendingReports())
	center := m.view.Center()

	title := m.styles.Header.Render("PDOK reports")
	info := fmt.Sprintf("  %s  %d/%d shown  %d new  %s  1px=%.1fm",
		m.config.API.Use, visible, total, pending, center, metersPerPixel(m.view.Scale(), center.Lat))
	line := title + m.styles.HeaderText.Render(info)
	return truncate.StringWithTail(line, uint(max(m.width, 0)), "…")
}

// metersPerPixel converts the map scale at latitude lat.
func metersPerPixel(scale, lat float64) float64 {
	const metersPerDegree = 111_320.0
	return scale * metersPerDegree * math.Cos(lat*math.Pi/180)
}

// renderMap draws data areas, reports, the join link and the crosshair.
func (m *Model) renderMap() []string {
	cols, rows := m.mapSize()
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{glyph: glyphEmpty, style: &m.styles.MapEmpty}
		}
	}
	put := func(col, row int, glyph rune, style *lipgloss.Style) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = cell{glyph: glyph, style: style}
		}
	}

	m.drawAreas(grid, cols, rows)
	put(cols/2, rows/2, glyphCrosshair, &m.styles.Crosshair)

	if link, ok := m.modes.Link(); ok {
		fromCol, fromRow := m.view.Cell(link.From.LivePosition())
		toCol, toRow := int(link.X/CellWidth), int(link.Y/CellHeight)
		for _, p := range linePoints(fromCol, fromRow, toCol, toRow) {
			put(p[0], p[1], glyphLink, &m.styles.Link)
		}
	}

	store := m.container.Store
	selected := make(map[*domain.Report]bool)
	for _, r := range store.Selection() {
		selected[r] = true
	}
	highlighted := store.Highlighted()
	for _, r := range store.Reports() {
		if !r.Visible() {
			continue
		}
		col, row := m.view.Cell(r.LivePosition())
		style := m.styles.MarkerStyle(r)
		switch {
		case selected[r]:
			style = m.styles.Selected
		case r == highlighted:
			style = m.styles.Highlighted
		}
		put(col, row, r.Kind().Marker(), &style)
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = renderRow(row)
	}
	return lines
}

// drawAreas shades the downloaded areas and the data areas.
func (m *Model) drawAreas(grid [][]cell, cols, rows int) {
	areas := append(m.container.Store.Bounds(), m.container.Sources.DataSourceBounds()...)
	for _, b := range areas {
		c1, r1 := m.view.Cell(domain.LatLon{Lat: b.Max.Lat, Lon: b.Min.Lon})
		c2, r2 := m.view.Cell(domain.LatLon{Lat: b.Min.Lat, Lon: b.Max.Lon})
		for row := max(r1, 0); row <= min(r2, rows-1); row++ {
			for col := max(c1, 0); col <= min(c2, cols-1); col++ {
				grid[row][col] = cell{glyph: glyphArea, style: &m.styles.MapArea}
			}
		}
	}
}

// renderRow renders runs of equally styled cells together.
func renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var style *lipgloss.Style
	flush := func() {
		if len(run) > 0 {
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
	}
	for _, c := range row {
		if c.style != style {
			flush()
			style = c.style
		}
		run = append(run, c.glyph)
	}
	flush()
	return b.String()
}

// linePoints returns the cells on the line between two cells, end points
// excluded.
func linePoints(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	var points [][2]int
	x, y := x0, y0
	for x != x1 || y != y1 {
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
		if x != x1 || y != y1 {
			points = append(points, [2]int{x, y})
		}
	}
	return points
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// viewPanel renders the details of the selected report and the filter state.
func (m *Model) viewPanel(height int) string {
	inner := panelWidth - 4 // Border and padding
	var b strings.Builder

	if r := m.container.Store.Selected(); r != nil {
		m.writeReportDetails(&b, r, inner)
	} else {
		b.WriteString(m.styles.DetailTitle.Render("No report selected"))
		b.WriteString("\n")
		if n := len(m.container.Store.Selection()); n > 1 {
			fmt.Fprintf(&b, "%d reports selected\n", n)
		}
	}

	b.WriteString("\n")
	m.writeFilter(&b)

	content := b.String()
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}
	return m.styles.Detail.
		Width(panelWidth - 2).
		Height(max(height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) writeReportDetails(b *strings.Builder, r *domain.Report, width int) {
	label := func(name, value string) {
		if value == "" {
			return
		}
		line := m.styles.DetailLabel.Render(name+": ") + m.styles.DetailValue.Render(value)
		b.WriteString(truncate.StringWithTail(line, uint(width), "…"))
		b.WriteString("\n")
	}

	title := "New report"
	if c := r.Confirmed(); c != nil {
		title = c.RegistrationNumber
	}
	b.WriteString(m.styles.DetailTitle.Render(truncate.StringWithTail(title, uint(width), "…")))
	b.WriteString("\n")

	label("Position", r.LivePosition().String())
	label("Registry", r.Registry())
	if c := r.Confirmed(); c != nil {
		label("Status", c.StatusCode.Display())
		if !c.ReportedAt.IsZero() {
			label("Reported", c.ReportedAt.Format(m.config.Display.DateFormat))
		}
		label("Maintainer", c.MaintainerName)
		label("Object", strings.TrimSpace(c.ObjectType+" "+c.ObjectID))
	}

	if desc := r.Description(); desc != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(desc, width))
		b.WriteString("\n")
	}
	if c := r.Confirmed(); c != nil && c.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.DetailLabel.Render("Explanation:"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(c.Explanation, width))
		b.WriteString("\n")
	}
}

func (m *Model) writeFilter(b *strings.Builder) {
	s := m.container.Filter.Settings()
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	b.WriteString(m.styles.DetailLabel.Render("Filter"))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s 1 new reports\n", check(s.ShowPending))
	fmt.Fprintf(b, "%s 2 downloaded reports\n", check(s.ShowConfirmed))
	fmt.Fprintf(b, "%s 3 hide closed > %g %s\n", check(s.HideClosed), s.HideNumber, s.HidePeriod)
	fmt.Fprintf(b, "%s 0 layer visible\n", check(!s.LayerInvisible))
}

// viewNoticeLine renders the input prompt, the confirmation question or the
// latest notice.
func (m *Model) viewNoticeLine() string {
	switch m.mode {
	case ModeInputNew:
		return m.styles.InputPrompt.Render("New report: ") + m.input.View()
	case ModeInputEdit:
		return m.styles.InputPrompt.Render("Edit report: ") + m.input.View()
	case ModeInputFile:
		return m.styles.InputPrompt.Render(m.fileAction.String()+": ") + m.input.View()
	case ModeConfirm:
		return m.styles.DialogPrompt.Render(m.confirmQuestion())
	case ModeNormal, ModeHelp:
	}
	if m.notice == "" {
		return ""
	}
	return m.styles.NoticeStyle(m.noticeLevel).Render(truncate.StringWithTail(m.notice, uint(max(m.width, 0)), "…"))
}

func (m *Model) confirmQuestion() string {
	switch m.confirmAction {
	case ConfirmDelete:
		return fmt.Sprintf("Delete %d selected report(s)? [y/n]", len(m.container.Store.Selection()))
	case ConfirmSubmit:
		return fmt.Sprintf("Submit %d report(s) to %s? [y/n]", len(m.container.Store.PendingReports()), m.config.API.Use)
	case ConfirmNone:
	}
	return ""
}

// viewHelp renders the help overlay.
func (m *Model) viewHelp() string {
	m.help.ShowAll = true
	content := m.styles.DialogTitle.Render("Keys") + "\n\n" + m.help.View(m.keys) +
		"\n\n" + m.styles.DetailLabel.Render("Mouse: click to select, ctrl+click to add, drag to move new reports, wheel to zoom.") +
		"\n" + m.styles.DetailLabel.Render("Join mode: click a report to start a link, click another to finish.")
	return m.styles.Help.Render(content)
}
