package usecase

import (
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
)

// ReportStore is the part of the report store the use cases work on.
// *reportdata.Store satisfies it.
type ReportStore interface {
	history.ReportStore

	Reports() []*domain.Report
	PendingReports() []*domain.Report
	Get(key string) *domain.Report
	Selected() *domain.Report
	Selection() []*domain.Report
	SetSelected(r *domain.Report, zoom bool)
	Remove(r *domain.Report)
	CreateReport(ll domain.LatLon, description string) *domain.Report
	AddBounds(b domain.Bounds)
}

// History records undoable commands.
// *history.Record satisfies it.
type History interface {
	AddCommand(cmd history.Command)
}
