package domain

// PositionPhase is the phase of a report's position lifecycle.
type PositionPhase int

const (
	PhaseIdle     PositionPhase = iota // Resting at the committed position
	PhaseDragging                      // Being moved; live offset applies on top of the base
)

// String returns the string representation of the phase.
func (p PositionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Position is the position state machine of a report.
//
//	Idle(position) --BeginDrag--> Dragging(position, 0)
//	Dragging(base, off) --UpdateDrag(d)--> Dragging(base, d)
//	Dragging(base, off) --Commit--> Idle(base+off)
//	Dragging(base, off) --Cancel--> Idle(base)
//
// Commit and Cancel on an idle position are no-ops.
// Position is a value type; Report guards it with its own mutex.
type Position struct {
	base   LatLon
	offset Delta
	phase  PositionPhase
}

// NewPosition creates an idle position.
func NewPosition(ll LatLon) Position {
	return Position{base: ll, phase: PhaseIdle}
}

// Phase returns the current phase.
func (p Position) Phase() PositionPhase {
	return p.phase
}

// Committed returns the committed (resting) position.
func (p Position) Committed() LatLon {
	return p.base
}

// Offset returns the live offset; zero when idle.
func (p Position) Offset() Delta {
	return p.offset
}

// Live returns the position including any in-progress drag.
func (p Position) Live() LatLon {
	return p.base.Add(p.offset)
}

// BeginDrag enters the dragging phase. Already dragging positions are unchanged.
func (p Position) BeginDrag() Position {
	if p.phase == PhaseDragging {
		return p
	}
	return Position{base: p.base, phase: PhaseDragging}
}

// UpdateDrag replaces the live offset, entering the dragging phase if needed.
// The offset is relative to the committed baseline, not cumulative.
func (p Position) UpdateDrag(d Delta) Position {
	p = p.BeginDrag()
	p.offset = d
	return p
}

// Commit makes the live position the new committed position.
func (p Position) Commit() Position {
	if p.phase == PhaseIdle {
		return p
	}
	return NewPosition(p.Live())
}

// Cancel drops the live offset and returns to the committed position.
func (p Position) Cancel() Position {
	return NewPosition(p.base)
}
