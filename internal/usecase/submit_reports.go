// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/osmnl/pdok-report/internal/domain"
)

// UploadProgress counts submissions across runs. A new batch restarts the
// counters once the previous batch has finished.
type UploadProgress struct {
	toUpload   atomic.Int64
	uploaded   atomic.Int64
	submitting atomic.Bool
}

// Add announces n more reports to upload.
func (p *UploadProgress) Add(n int) {
	if p.toUpload.Load() <= p.uploaded.Load() {
		p.toUpload.Store(0)
		p.uploaded.Store(0)
	}
	p.toUpload.Add(int64(n))
}

// Done counts one finished upload, successful or not.
func (p *UploadProgress) Done() {
	p.uploaded.Add(1)
}

// Skip withdraws n announced uploads that will not be attempted.
func (p *UploadProgress) Skip(n int) {
	p.toUpload.Add(-int64(n))
}

// Uploading reports whether announced uploads are still outstanding.
func (p *UploadProgress) Uploading() bool {
	return p.toUpload.Load() > p.uploaded.Load()
}

// Submitting reports whether a submit run is active.
func (p *UploadProgress) Submitting() bool {
	return p.submitting.Load()
}

// String returns the status line text, e.g. "Uploading: (1/3)".
func (p *UploadProgress) String() string {
	return fmt.Sprintf("Uploading: (%d/%d)", p.uploaded.Load(), p.toUpload.Load())
}

// SubmitReportsInput contains the parameters for submitting reports.
type SubmitReportsInput struct{}

// SubmittedReport is a report the registry accepted.
type SubmittedReport struct {
	Report    *domain.Report
	Reference string // Registration number or location of the new report
}

// FailedReport is a report that stays pending.
type FailedReport struct {
	Report *domain.Report
	Err    error
}

// SubmitReportsOutput contains the result of a submit run.
type SubmitReportsOutput struct {
	Submitted []SubmittedReport
	Failed    []FailedReport
}

// SubmitReports uploads every pending report. Accepted reports leave the store;
// refused and failed ones stay so they can be fixed and sent again.
type SubmitReports struct {
	api      domain.ReportAPI
	store    ReportStore
	notifier domain.Notifier
	logger   domain.Logger
	progress *UploadProgress
}

// NewSubmitReports creates a new SubmitReports use case.
func NewSubmitReports(
	api domain.ReportAPI,
	store ReportStore,
	notifier domain.Notifier,
	logger domain.Logger,
	progress *UploadProgress,
) *SubmitReports {
	if progress == nil {
		progress = &UploadProgress{}
	}
	return &SubmitReports{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger,
		progress: progress,
	}
}

// Progress returns the shared upload counters.
func (uc *SubmitReports) Progress() *UploadProgress {
	return uc.progress
}

// Execute submits the pending reports one by one.
// A missing API key aborts the run before anything is sent.
func (uc *SubmitReports) Execute(ctx context.Context, _ SubmitReportsInput) (*SubmitReportsOutput, error) {
	pending := uc.store.PendingReports()
	if len(pending) == 0 {
		return nil, domain.ErrNoPendingReports
	}

	uc.progress.submitting.Store(true)
	defer uc.progress.submitting.Store(false)
	uc.progress.Add(len(pending))

	out := &SubmitReportsOutput{}
	for i, r := range pending {
		if err := ctx.Err(); err != nil {
			uc.progress.Skip(len(pending) - i)
			return out, err
		}

		res, err := uc.api.Submit(ctx, r)
		uc.progress.Done()
		if errors.Is(err, domain.ErrAPIKeyNotSet) {
			uc.progress.Skip(len(pending) - i - 1)
			uc.notify(domain.NotifyWarning, "No API key set for the report API, please enter yours in the configuration")
			return out, err
		}
		if err != nil {
			out.Failed = append(out.Failed, FailedReport{Report: r, Err: err})
			uc.reportFailure(err)
			continue
		}

		uc.store.Remove(r)
		out.Submitted = append(out.Submitted, SubmittedReport{Report: r, Reference: res.Reference})
		uc.logger.Info("submit", fmt.Sprintf("Report submitted. Registration number: %s", res.Reference))
	}

	if n := len(out.Submitted); n > 0 {
		refs := make([]string, 0, n)
		for _, s := range out.Submitted {
			refs = append(refs, s.Reference)
		}
		uc.notify(domain.NotifyInfo, fmt.Sprintf("You have successfully submitted %d %s: %s",
			n, pluralReports(n), strings.Join(refs, ", ")))
	}
	return out, nil
}

func (uc *SubmitReports) reportFailure(err error) {
	var rejected *domain.SubmitRejectedError
	if errors.As(err, &rejected) {
		uc.logger.Error("submit", fmt.Sprintf("Failed reason: %v", rejected.Reasons))
		uc.notify(domain.NotifyError, rejected.Error()+"!")
		return
	}
	uc.logger.Error("submit", fmt.Sprintf("submit report: %v", err))
	uc.notify(domain.NotifyError, "An error occurred while submitting a report. If this happens repeatedly, check the log; otherwise try again.")
}

func (uc *SubmitReports) notify(level domain.NotificationLevel, msg string) {
	if uc.notifier != nil {
		uc.notifier.Notify(domain.Notification{Level: level, Message: msg})
	}
}

func pluralReports(n int) string {
	if n == 1 {
		return "report"
	}
	return "reports"
}
