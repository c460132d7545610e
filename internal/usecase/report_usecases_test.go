package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
	"github.com/osmnl/pdok-report/internal/reportdata"
	"github.com/osmnl/pdok-report/internal/testutil"
)

var here = domain.LatLon{Lat: 52.1, Lon: 5.1}

func confirmedReport(number string, code domain.StatusCode) *domain.Report {
	return domain.NewConfirmedReport(domain.LatLon{Lat: 52, Lon: 5}, "", "downloaded",
		domain.Confirmed{RegistrationNumber: number, StatusCode: code})
}

func TestCreateReport_Execute(t *testing.T) {
	// Setup
	store := reportdata.New()
	uc := NewCreateReport(store, &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), CreateReportInput{Position: here, Description: "  missing house  "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "missing house", out.Report.Description())
	assert.Equal(t, domain.KindPending, out.Report.Kind())
	assert.True(t, store.Contains(out.Report))
	assert.Same(t, out.Report, store.Selected())
}

func TestCreateReport_Execute_Invalid(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		in      CreateReportInput
	}{
		{name: "blank description", in: CreateReportInput{Position: here, Description: "  "}, wantErr: domain.ErrEmptyDescription},
		{name: "off the map", in: CreateReportInput{Position: domain.LatLon{Lat: 95}, Description: "x"}, wantErr: domain.ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := reportdata.New()
			uc := NewCreateReport(store, &testutil.MockLogger{})

			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, store.Len())
		})
	}
}

func TestEditReport_Execute(t *testing.T) {
	store := reportdata.New()
	r := store.CreateReport(here, "old")
	store.SetSelected(r, false)
	uc := NewEditReport(store)

	out, err := uc.Execute(context.Background(), EditReportInput{Description: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", out.Report.Description())

	other := store.CreateReport(here, "other")
	_, err = uc.Execute(context.Background(), EditReportInput{Key: other.Key(), Description: "by key"})
	require.NoError(t, err)
	assert.Equal(t, "by key", other.Description())
}

func TestEditReport_Execute_Errors(t *testing.T) {
	store := reportdata.New()
	c := confirmedReport("BAG-1", domain.StatusNew)
	store.Add(c)
	uc := NewEditReport(store)

	_, err := uc.Execute(context.Background(), EditReportInput{Description: "x"})
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	_, err = uc.Execute(context.Background(), EditReportInput{Key: c.Key(), Description: "x"})
	assert.ErrorIs(t, err, domain.ErrReportNotEditable)

	store.SetSelected(store.CreateReport(here, "a"), false)
	_, err = uc.Execute(context.Background(), EditReportInput{Description: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestDeleteReports_Execute(t *testing.T) {
	// Setup
	store := reportdata.New()
	record := history.NewRecord()
	first := store.CreateReport(here, "a")
	second := store.CreateReport(here, "b")
	c := confirmedReport("BAG-1", domain.StatusNew)
	store.Add(c)
	store.SetSelected(first, false)
	store.AddMultiSelected(second, c)
	uc := NewDeleteReports(store, record)

	// Execute
	out, err := uc.Execute(context.Background(), DeleteReportsInput{})

	// Assert
	require.NoError(t, err)
	assert.Len(t, out.Reports, 2)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Contains(c))
	assert.Nil(t, store.Selected())

	record.Undo()
	assert.Equal(t, 3, store.Len())
}

func TestDeleteReports_Execute_NothingEditable(t *testing.T) {
	store := reportdata.New()
	c := confirmedReport("BAG-1", domain.StatusNew)
	store.Add(c)
	store.SetSelected(c, false)
	record := history.NewRecord()

	_, err := NewDeleteReports(store, record).Execute(context.Background(), DeleteReportsInput{})

	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.False(t, record.CanUndo())
}

func TestZoomToSelected_Execute(t *testing.T) {
	store := reportdata.New()
	viewport := &testutil.MockViewport{}
	uc := NewZoomToSelected(store, func() domain.Viewport { return viewport })

	_, err := uc.Execute(context.Background(), ZoomToSelectedInput{})
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	r := store.CreateReport(here, "a")
	store.SetSelected(r, false)
	r.Move(domain.Delta{DLon: 0.01})

	out, err := uc.Execute(context.Background(), ZoomToSelectedInput{})
	require.NoError(t, err)
	assert.Equal(t, r.LivePosition(), out.Position)
	assert.Equal(t, []domain.LatLon{r.LivePosition()}, viewport.Zoomed)
}

func TestZoomToSelected_Execute_NoViewport(t *testing.T) {
	store := reportdata.New()
	store.SetSelected(store.CreateReport(here, "a"), false)
	uc := NewZoomToSelected(store, func() domain.Viewport { return nil })

	_, err := uc.Execute(context.Background(), ZoomToSelectedInput{})

	assert.ErrorIs(t, err, domain.ErrNoViewport)
}

func TestListReports_Execute(t *testing.T) {
	store := reportdata.New()
	p := store.CreateReport(here, "a")
	open := confirmedReport("BAG-1", domain.StatusNew)
	done := confirmedReport("BAG-2", domain.StatusCompleted)
	done.SetVisible(false)
	store.AddAll([]*domain.Report{open, done})
	uc := NewListReports(store)

	tests := []struct {
		name string
		in   ListReportsInput
		want []*domain.Report
	}{
		{name: "pending only", in: ListReportsInput{PendingOnly: true}, want: []*domain.Report{p}},
		{name: "by status", in: ListReportsInput{Statuses: []domain.StatusCode{domain.StatusCompleted}}, want: []*domain.Report{done}},
		{name: "visible confirmed", in: ListReportsInput{VisibleOnly: true, Statuses: domain.AllStatusCodes()}, want: []*domain.Report{open}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Reports)
		})
	}

	out, err := uc.Execute(context.Background(), ListReportsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Reports, 3)
}

func TestDownloadArea_Execute(t *testing.T) {
	// Setup
	area := domain.NewBounds(domain.LatLon{Lat: 52, Lon: 5}, domain.LatLon{Lat: 52.1, Lon: 5.1})
	api := &testutil.MockReportAPI{
		FetchFunc: func(context.Context, domain.Bounds) ([]*domain.Report, error) {
			return []*domain.Report{confirmedReport("BAG-1", domain.StatusNew)}, nil
		},
	}
	store := reportdata.New()
	uc := NewDownloadArea(api, store, &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), DownloadAreaInput{Bounds: area})

	// Assert
	require.NoError(t, err)
	assert.Len(t, out.Reports, 1)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.HasBounds(area))
}

func TestDownloadArea_Execute_Errors(t *testing.T) {
	api := &testutil.MockReportAPI{
		FetchFunc: func(context.Context, domain.Bounds) ([]*domain.Report, error) {
			return nil, domain.ErrAPIKeyNotSet
		},
	}
	store := reportdata.New()
	uc := NewDownloadArea(api, store, &testutil.MockLogger{})

	_, err := uc.Execute(context.Background(), DownloadAreaInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidBounds)

	area := domain.NewBounds(domain.LatLon{Lat: 52, Lon: 5}, domain.LatLon{Lat: 52.1, Lon: 5.1})
	_, err = uc.Execute(context.Background(), DownloadAreaInput{Bounds: area})
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotSet)
	assert.False(t, store.HasBounds(area))
}

func TestImportReports_Execute(t *testing.T) {
	// Setup
	imported := []*domain.Report{
		domain.NewPendingReport(here, "a"),
		domain.NewPendingReport(here, "b"),
	}
	archive := &testutil.MockReportArchive{Files: map[string][]*domain.Report{"reports.yaml": imported}}
	store := reportdata.New()
	record := history.NewRecord()
	uc := NewImportReports(archive, store, record, &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), ImportReportsInput{Path: "reports.yaml"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, out.Reports, 2)
	assert.Equal(t, 2, store.Len())
	require.True(t, record.CanUndo())
	assert.Equal(t, history.KindImport, record.Last().Kind())

	record.Undo()
	assert.Zero(t, store.Len())
}

func TestImportReports_Execute_Errors(t *testing.T) {
	archive := &testutil.MockReportArchive{Files: map[string][]*domain.Report{"empty.yaml": nil}}
	record := history.NewRecord()
	uc := NewImportReports(archive, reportdata.New(), record, &testutil.MockLogger{})

	out, err := uc.Execute(context.Background(), ImportReportsInput{Path: "empty.yaml"})
	require.NoError(t, err)
	assert.Empty(t, out.Reports)
	assert.False(t, record.CanUndo())

	_, err = uc.Execute(context.Background(), ImportReportsInput{Path: "missing.yaml"})
	assert.Error(t, err)
}

func TestExportReports_Execute(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	archive := &testutil.MockReportArchive{}
	store := reportdata.New()
	uc := NewExportReports(archive, store, &testutil.MockClock{NowTime: now}, &testutil.MockLogger{})

	_, err := uc.Execute(context.Background(), ExportReportsInput{Path: "out.yaml"})
	assert.ErrorIs(t, err, domain.ErrNoPendingReports)

	store.CreateReport(here, "a")
	store.Add(confirmedReport("BAG-1", domain.StatusNew))

	out, err := uc.Execute(context.Background(), ExportReportsInput{Path: "out.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, now, archive.WrittenAt)

	archive.WriteErr = errors.New("disk full")
	_, err = uc.Execute(context.Background(), ExportReportsInput{Path: "out.yaml"})
	assert.Error(t, err)
}
