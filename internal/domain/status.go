package domain

import "strings"

// StatusCode is the processing state of a confirmed report at the registry.
type StatusCode string

const (
	StatusNew                StatusCode = "NEW"                 // Registered, not yet picked up
	StatusApproved           StatusCode = "APPROVED"            // Accepted by the maintainer
	StatusCompleted          StatusCode = "COMPLETED"           // Correction processed
	StatusForwarded          StatusCode = "FORWARDED"           // Handed to another maintainer
	StatusUnderInvestigation StatusCode = "UNDER_INVESTIGATION" // Being investigated
	StatusParked             StatusCode = "PARKED"              // On hold
	StatusRejected           StatusCode = "REJECTED"            // Declined by the maintainer
	StatusUnknown            StatusCode = ""
)

// wireCodes maps status codes to the API's status code values.
var wireCodes = map[StatusCode]string{
	StatusNew:                "NIEUW",
	StatusApproved:           "GOEDGEKEURD",
	StatusCompleted:          "AFGEROND",
	StatusForwarded:          "DOORGESTUURD",
	StatusUnderInvestigation: "IN_ONDERZOEK",
	StatusParked:             "GEPARKEERD",
	StatusRejected:           "AFGEWEZEN",
}

// AllStatusCodes returns all valid status codes in API order.
func AllStatusCodes() []StatusCode {
	return []StatusCode{
		StatusNew,
		StatusApproved,
		StatusCompleted,
		StatusForwarded,
		StatusUnderInvestigation,
		StatusParked,
		StatusRejected,
	}
}

// WireStatusCodes returns the comma-joined API representation of all status codes.
func WireStatusCodes() string {
	codes := AllStatusCodes()
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, c.Wire())
	}
	return strings.Join(parts, ",")
}

// ParseWireStatus converts an API status code into a StatusCode.
// Both the API value and the status code name are accepted.
func ParseWireStatus(s string) StatusCode {
	s = strings.ToUpper(strings.TrimSpace(s))
	for code, wire := range wireCodes {
		if s == wire || s == string(code) {
			return code
		}
	}
	return StatusUnknown
}

// Wire returns the API representation of the status code.
func (s StatusCode) Wire() string {
	return wireCodes[s]
}

// IsClosed returns true for statuses that end processing.
func (s StatusCode) IsClosed() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Display returns a human-readable representation of the status code.
func (s StatusCode) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusApproved:
		return "Approved"
	case StatusCompleted:
		return "Completed"
	case StatusForwarded:
		return "Forwarded"
	case StatusUnderInvestigation:
		return "Under investigation"
	case StatusParked:
		return "Parked"
	case StatusRejected:
		return "Rejected"
	case StatusUnknown:
		return "Unknown"
	}
	return string(s)
}
