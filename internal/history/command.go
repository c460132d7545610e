// Package history implements the undo/redo record of report edits.
package history

import (
	"fmt"

	"github.com/osmnl/pdok-report/internal/domain"
)

// CommandKind identifies the command variant. Consecutive commands are only
// merged when their kinds match.
type CommandKind int

const (
	KindMove CommandKind = iota
	KindDelete
	KindImport
)

// String returns the string representation of the kind.
func (k CommandKind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindDelete:
		return "delete"
	case KindImport:
		return "import"
	default:
		return "unknown"
	}
}

// Command is one undoable change to a set of reports.
type Command interface {
	// Kind returns the command variant.
	Kind() CommandKind

	// Reports returns the affected reports.
	Reports() []*domain.Report

	// Undo reverts the command.
	Undo()

	// Redo applies the command again after an Undo.
	Redo()

	// Sum merges a following command of the same kind and report set into this one.
	Sum(other Command)

	// String describes the command for display.
	String() string
}

// Executable is a command that performs its change when it is recorded.
type Executable interface {
	Command

	// Execute performs the change for the first time.
	Execute()
}

// ReportStore is the part of the report store the commands operate on.
type ReportStore interface {
	AddAll(reports []*domain.Report)
	RemoveAll(reports []*domain.Report)
	RemoveSilently(reports []*domain.Report)
	Invalidate()
}

// reportSet is the affected report set shared by all commands.
type reportSet struct {
	reports []*domain.Report
	keys    map[string]struct{}
}

func newReportSet(reports []*domain.Report) reportSet {
	s := reportSet{keys: make(map[string]struct{}, len(reports))}
	for _, r := range reports {
		if r == nil {
			continue
		}
		if _, ok := s.keys[r.Key()]; ok {
			continue
		}
		s.keys[r.Key()] = struct{}{}
		s.reports = append(s.reports, r)
	}
	return s
}

// Reports returns a copy of the affected reports.
func (s reportSet) Reports() []*domain.Report {
	return append([]*domain.Report(nil), s.reports...)
}

func (s reportSet) contains(r *domain.Report) bool {
	_, ok := s.keys[r.Key()]
	return ok
}

// sameReports reports whether a and b affect exactly the same reports.
func sameReports(a, b Command) bool {
	ar, br := a.Reports(), b.Reports()
	as, bs := newReportSet(ar), newReportSet(br)
	for _, r := range ar {
		if !bs.contains(r) {
			return false
		}
	}
	for _, r := range br {
		if !as.contains(r) {
			return false
		}
	}
	return true
}

func plural(n int, verb string) string {
	if n == 1 {
		return fmt.Sprintf("%s 1 report", verb)
	}
	return fmt.Sprintf("%s %d reports", verb, n)
}

// Move shifts reports by a cumulative offset. It is recorded after the
// interaction already moved the reports, so it is not Executable.
type Move struct {
	reportSet
	store  ReportStore
	offset domain.Delta
}

// NewMove creates a move command. store may be nil; it is only used to repaint.
func NewMove(store ReportStore, reports []*domain.Report, offset domain.Delta) *Move {
	return &Move{reportSet: newReportSet(reports), store: store, offset: offset}
}

// Kind implements Command.
func (c *Move) Kind() CommandKind { return KindMove }

// Offset returns the cumulative offset.
func (c *Move) Offset() domain.Delta { return c.offset }

// Undo moves every report back by the offset and commits it.
func (c *Move) Undo() {
	c.apply(c.offset.Neg())
}

// Redo moves every report by the offset and commits it.
func (c *Move) Redo() {
	c.apply(c.offset)
}

func (c *Move) apply(d domain.Delta) {
	for _, r := range c.reports {
		r.Translate(d)
	}
	if c.store != nil {
		c.store.Invalidate()
	}
}

// Sum adds the offset of another move.
func (c *Move) Sum(other Command) {
	if m, ok := other.(*Move); ok {
		c.offset = c.offset.Plus(m.offset)
	}
}

func (c *Move) String() string {
	return plural(len(c.reports), "Moved")
}

// Delete removes reports from the store.
type Delete struct {
	reportSet
	store ReportStore
}

// NewDelete creates a delete command.
func NewDelete(store ReportStore, reports []*domain.Report) *Delete {
	return &Delete{reportSet: newReportSet(reports), store: store}
}

// Kind implements Command.
func (c *Delete) Kind() CommandKind { return KindDelete }

// Execute removes the reports with the store's usual side effects.
func (c *Delete) Execute() {
	c.store.RemoveAll(c.reports)
}

// Undo puts the reports back.
func (c *Delete) Undo() {
	c.store.AddAll(c.reports)
}

// Redo removes the reports again.
func (c *Delete) Redo() {
	c.Execute()
}

// Sum is a no-op; repeated deletes of the same set change nothing.
func (c *Delete) Sum(Command) {}

func (c *Delete) String() string {
	return plural(len(c.reports), "Deleted")
}

// Import adds a batch of reports to the store.
type Import struct {
	reportSet
	store ReportStore
}

// NewImport creates an import command.
func NewImport(store ReportStore, reports []*domain.Report) *Import {
	return &Import{reportSet: newReportSet(reports), store: store}
}

// Kind implements Command.
func (c *Import) Kind() CommandKind { return KindImport }

// Execute adds the reports.
func (c *Import) Execute() {
	c.store.AddAll(c.reports)
}

// Undo drops the reports from the member set only. Selection and listeners
// are left alone; the store is repainted.
func (c *Import) Undo() {
	c.store.RemoveSilently(c.reports)
	c.store.Invalidate()
}

// Redo adds the reports again.
func (c *Import) Redo() {
	c.Execute()
}

// Sum is a no-op.
func (c *Import) Sum(Command) {}

func (c *Import) String() string {
	return plural(len(c.reports), "Imported")
}

var (
	_ Command    = (*Move)(nil)
	_ Executable = (*Delete)(nil)
	_ Executable = (*Import)(nil)
)
