package tui

import (
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgRepaint is sent when the report layer changed.
type MsgRepaint struct{}

func (MsgRepaint) sealed() {}

// MsgNotify carries a notification raised by a use case or a download.
type MsgNotify struct {
	Notification domain.Notification
}

func (MsgNotify) sealed() {}

// MsgSubmitted is sent when a submit run finishes.
type MsgSubmitted struct {
	Output *usecase.SubmitReportsOutput
	Err    error
}

func (MsgSubmitted) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgInfo is sent to show a status message.
type MsgInfo struct {
	Text string
}

func (MsgInfo) sealed() {}

// MsgClearNotice is sent when the notice with the given sequence number expires.
type MsgClearNotice struct {
	Seq int
}

func (MsgClearNotice) sealed() {}
