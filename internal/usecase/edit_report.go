package usecase

import (
	"context"
	"strings"

	"github.com/osmnl/pdok-report/internal/domain"
)

// EditReportInput contains the parameters for editing a report.
type EditReportInput struct {
	Key         string // Report key; empty means the selected report
	Description string
}

// EditReportOutput contains the edited report.
type EditReportOutput struct {
	Report *domain.Report
}

// EditReport changes the description of a pending report.
type EditReport struct {
	store ReportStore
}

// NewEditReport creates a new EditReport use case.
func NewEditReport(store ReportStore) *EditReport {
	return &EditReport{store: store}
}

// Execute applies the new description.
func (uc *EditReport) Execute(_ context.Context, in EditReportInput) (*EditReportOutput, error) {
	r := uc.store.Selected()
	if in.Key != "" {
		r = uc.store.Get(in.Key)
	}
	if r == nil {
		return nil, domain.ErrReportNotFound
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrEmptyDescription
	}
	if err := r.SetDescription(description); err != nil {
		return nil, err
	}
	uc.store.Invalidate()
	return &EditReportOutput{Report: r}, nil
}
