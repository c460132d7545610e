package usecase

import (
	"context"
	"fmt"

	"github.com/osmnl/pdok-report/internal/domain"
)

// DownloadAreaInput contains the parameters for a one-off download.
type DownloadAreaInput struct {
	Bounds domain.Bounds
}

// DownloadAreaOutput contains the downloaded reports.
type DownloadAreaOutput struct {
	Reports []*domain.Report
}

// DownloadArea fetches the reports of one area synchronously and adds them to the store.
// The map view downloads through the coordinator instead.
type DownloadArea struct {
	api    domain.ReportAPI
	store  ReportStore
	logger domain.Logger
}

// NewDownloadArea creates a new DownloadArea use case.
func NewDownloadArea(api domain.ReportAPI, store ReportStore, logger domain.Logger) *DownloadArea {
	return &DownloadArea{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Execute downloads and stores the reports inside in.Bounds.
func (uc *DownloadArea) Execute(ctx context.Context, in DownloadAreaInput) (*DownloadAreaOutput, error) {
	if !in.Bounds.Valid() {
		return nil, domain.ErrInvalidBounds
	}

	reports, err := uc.api.FetchReports(ctx, in.Bounds)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", in.Bounds, err)
	}

	uc.store.AddBounds(in.Bounds)
	uc.store.AddAll(reports)
	uc.logger.Info("download", fmt.Sprintf("downloaded %d reports for %s", len(reports), in.Bounds))
	return &DownloadAreaOutput{Reports: reports}, nil
}
