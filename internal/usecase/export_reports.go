package usecase

import (
	"context"
	"fmt"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ExportReportsInput contains the parameters for exporting reports.
type ExportReportsInput struct {
	Path string // Report file to write
}

// ExportReportsOutput contains the result of an export.
type ExportReportsOutput struct {
	Path  string
	Count int
}

// ExportReports writes the pending reports to a report file.
type ExportReports struct {
	archive domain.ReportArchive
	store   ReportStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewExportReports creates a new ExportReports use case.
func NewExportReports(
	archive domain.ReportArchive,
	store ReportStore,
	clock domain.Clock,
	logger domain.Logger,
) *ExportReports {
	return &ExportReports{
		archive: archive,
		store:   store,
		clock:   clock,
		logger:  logger,
	}
}

// Execute writes the file. Having nothing to export is an error.
func (uc *ExportReports) Execute(_ context.Context, in ExportReportsInput) (*ExportReportsOutput, error) {
	pending := uc.store.PendingReports()
	if len(pending) == 0 {
		return nil, domain.ErrNoPendingReports
	}

	n, err := uc.archive.Write(in.Path, pending, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	uc.logger.Info("export", fmt.Sprintf("exported %d reports to %s", n, in.Path))
	return &ExportReportsOutput{Path: in.Path, Count: n}, nil
}
