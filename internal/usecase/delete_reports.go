package usecase

import (
	"context"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
)

// DeleteReportsInput contains the parameters for deleting reports.
type DeleteReportsInput struct{}

// DeleteReportsOutput contains the deleted reports.
type DeleteReportsOutput struct {
	Reports []*domain.Report
}

// DeleteReports removes the selected pending reports as one undoable step.
// Confirmed reports in the selection are left alone.
type DeleteReports struct {
	store   ReportStore
	history History
}

// NewDeleteReports creates a new DeleteReports use case.
func NewDeleteReports(store ReportStore, hist History) *DeleteReports {
	return &DeleteReports{
		store:   store,
		history: hist,
	}
}

// Execute records a delete command for the editable part of the selection.
func (uc *DeleteReports) Execute(_ context.Context, _ DeleteReportsInput) (*DeleteReportsOutput, error) {
	var targets []*domain.Report
	for _, r := range uc.store.Selection() {
		if r.Kind().Editable() {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return nil, domain.ErrReportNotFound
	}

	uc.history.AddCommand(history.NewDelete(uc.store, targets))
	return &DeleteReportsOutput{Reports: targets}, nil
}
