package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrAPIKeyNotSet        = errors.New("API key is not set in the configuration")
	ErrReportNotEditable   = errors.New("report is not editable")
	ErrReportNotFound      = errors.New("report not found")
	ErrNoPendingReports    = errors.New("no pending reports to submit")
	ErrEmptyDescription    = errors.New("description cannot be empty")
	ErrInvalidBounds       = errors.New("invalid bounds")
	ErrUnexpectedStatus    = errors.New("unexpected response status")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrUnsupportedCRS      = errors.New("unsupported coordinate reference system")
	ErrNoViewport          = errors.New("no viewport available")
	ErrInvalidAPIMode      = errors.New("invalid API mode")
	ErrInvalidDownloadMode = errors.New("invalid download mode")
	ErrConfigExists        = errors.New("config file already exists")
	ErrPoolStopped         = errors.New("download pool stopped")
)

// SubmitRejectedError is returned when the registry refuses a submitted report
// with a structured list of reasons (HTTP 400/401).
type SubmitRejectedError struct {
	Message string
	Reasons []string
	Status  int
}

// Error implements error.
func (e *SubmitRejectedError) Error() string {
	msg := fmt.Sprintf("report upload failed with %d error '%s'", e.Status, e.Message)
	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}
	return msg
}
