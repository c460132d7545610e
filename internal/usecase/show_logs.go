package usecase

import (
	"context"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ShowLogsInput contains the parameters for showing log entries.
type ShowLogsInput struct {
	Lines int // Number of entries from the end (0 = all)
}

// ShowLogsOutput contains the log entries, oldest first.
type ShowLogsOutput struct {
	Lines []string
}

// ShowLogs returns the most recent log entries of this session.
type ShowLogs struct {
	logs domain.LogHistory
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(logs domain.LogHistory) *ShowLogs {
	return &ShowLogs{logs: logs}
}

// Execute returns the entries.
func (uc *ShowLogs) Execute(_ context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	n := in.Lines
	if n <= 0 {
		n = -1
	}
	return &ShowLogsOutput{Lines: uc.logs.Recent(n)}, nil
}
