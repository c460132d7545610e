package usecase

import (
	"context"
	"fmt"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
)

// ImportReportsInput contains the parameters for importing reports.
type ImportReportsInput struct {
	Path string // Report file to read
}

// ImportReportsOutput contains the result of an import.
type ImportReportsOutput struct {
	Reports []*domain.Report
}

// ImportReports adds the reports of a report file as one undoable step.
type ImportReports struct {
	archive domain.ReportArchive
	store   ReportStore
	history History
	logger  domain.Logger
}

// NewImportReports creates a new ImportReports use case.
func NewImportReports(
	archive domain.ReportArchive,
	store ReportStore,
	hist History,
	logger domain.Logger,
) *ImportReports {
	return &ImportReports{
		archive: archive,
		store:   store,
		history: hist,
		logger:  logger,
	}
}

// Execute reads the file and records an import command.
func (uc *ImportReports) Execute(_ context.Context, in ImportReportsInput) (*ImportReportsOutput, error) {
	reports, err := uc.archive.Read(in.Path)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return &ImportReportsOutput{}, nil
	}

	uc.history.AddCommand(history.NewImport(uc.store, reports))
	uc.logger.Info("import", fmt.Sprintf("imported %d reports from %s", len(reports), in.Path))
	return &ImportReportsOutput{Reports: reports}, nil
}
