package usecase

import (
	"context"
	"strings"

	"github.com/osmnl/pdok-report/internal/domain"
)

// CreateReportInput contains the parameters for creating a report.
type CreateReportInput struct {
	Description string
	Position    domain.LatLon
}

// CreateReportOutput contains the created report.
type CreateReportOutput struct {
	Report *domain.Report
}

// CreateReport adds a new pending report.
type CreateReport struct {
	store  ReportStore
	logger domain.Logger
}

// NewCreateReport creates a new CreateReport use case.
func NewCreateReport(store ReportStore, logger domain.Logger) *CreateReport {
	return &CreateReport{
		store:  store,
		logger: logger,
	}
}

// Execute creates the report and selects it. The description must not be blank.
func (uc *CreateReport) Execute(_ context.Context, in CreateReportInput) (*CreateReportOutput, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrEmptyDescription
	}
	if in.Position.Lat < -90 || in.Position.Lat > 90 || in.Position.Lon < -180 || in.Position.Lon > 180 {
		return nil, domain.ErrInvalidBounds
	}

	r := uc.store.CreateReport(in.Position, description)
	uc.store.SetSelected(r, false)
	uc.logger.Debug("report", "created report at "+in.Position.String())
	return &CreateReportOutput{Report: r}, nil
}
