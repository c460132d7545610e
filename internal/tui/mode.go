// Package tui provides the terminal map view for pdok-report.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal    Mode = iota // Map navigation
	ModeInputNew              // Description input for a new report
	ModeInputEdit             // Description input for the selected report
	ModeInputFile             // File path input for import or export
	ModeConfirm               // Confirmation dialog
	ModeHelp                  // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInputNew:
		return "input_new"
	case ModeInputEdit:
		return "input_edit"
	case ModeInputFile:
		return "input_file"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeInputNew, ModeInputEdit, ModeInputFile:
		return true
	case ModeNormal, ModeConfirm, ModeHelp:
		return false
	}
	return false
}

// ConfirmAction represents the type of action requiring confirmation.
type ConfirmAction int

const (
	ConfirmNone   ConfirmAction = iota
	ConfirmDelete               // Delete the selected reports
	ConfirmSubmit               // Submit all pending reports
)

// String returns a human-readable description of the action.
func (a ConfirmAction) String() string {
	switch a {
	case ConfirmNone:
		return ""
	case ConfirmDelete:
		return "delete"
	case ConfirmSubmit:
		return "submit"
	}
	return ""
}

// FileAction is the operation a file path is requested for.
type FileAction int

const (
	FileImport FileAction = iota
	FileExport
)

// String returns a human-readable description of the action.
func (a FileAction) String() string {
	if a == FileExport {
		return "Export to"
	}
	return "Import from"
}
