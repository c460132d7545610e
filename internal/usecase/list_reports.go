package usecase

import (
	"context"
	"slices"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ListReportsInput contains the filter for listing reports.
type ListReportsInput struct {
	Statuses    []domain.StatusCode // Confirmed reports with one of these codes; empty = all
	PendingOnly bool
	VisibleOnly bool
}

// ListReportsOutput contains the matching reports in store order.
type ListReportsOutput struct {
	Reports []*domain.Report
}

// ListReports lists the reports in the store.
type ListReports struct {
	store ReportStore
}

// NewListReports creates a new ListReports use case.
func NewListReports(store ReportStore) *ListReports {
	return &ListReports{store: store}
}

// Execute returns the reports matching in.
func (uc *ListReports) Execute(_ context.Context, in ListReportsInput) (*ListReportsOutput, error) {
	var out []*domain.Report
	for _, r := range uc.store.Reports() {
		if in.VisibleOnly && !r.Visible() {
			continue
		}
		if in.PendingOnly && r.Kind() != domain.KindPending {
			continue
		}
		if len(in.Statuses) > 0 {
			c := r.Confirmed()
			if c == nil || !slices.Contains(in.Statuses, c.StatusCode) {
				continue
			}
		}
		out = append(out, r)
	}
	return &ListReportsOutput{Reports: out}, nil
}
