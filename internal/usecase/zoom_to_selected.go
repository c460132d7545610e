package usecase

import (
	"context"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ZoomToSelectedInput contains the parameters for zooming to the selection.
type ZoomToSelectedInput struct{}

// ZoomToSelectedOutput contains the position zoomed to.
type ZoomToSelectedOutput struct {
	Position domain.LatLon
}

// ZoomToSelected centers the viewport on the selected report.
type ZoomToSelected struct {
	store    ReportStore
	viewport func() domain.Viewport
}

// NewZoomToSelected creates a new ZoomToSelected use case.
// viewport is asked for the current viewport on every call.
func NewZoomToSelected(store ReportStore, viewport func() domain.Viewport) *ZoomToSelected {
	return &ZoomToSelected{
		store:    store,
		viewport: viewport,
	}
}

// Execute zooms to the live position of the selection.
func (uc *ZoomToSelected) Execute(_ context.Context, _ ZoomToSelectedInput) (*ZoomToSelectedOutput, error) {
	r := uc.store.Selected()
	if r == nil {
		return nil, domain.ErrReportNotFound
	}
	v := uc.viewport()
	if v == nil {
		return nil, domain.ErrNoViewport
	}
	ll := r.LivePosition()
	v.ZoomTo(ll)
	return &ZoomToSelectedOutput{Position: ll}, nil
}
