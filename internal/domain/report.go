package domain

import (
	"cmp"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultRegistry is the base registration reports are filed against.
const DefaultRegistry = "BAG"

// Kind discriminates the report variants.
type Kind int

const (
	KindPending   Kind = iota // Created locally, not yet submitted
	KindConfirmed             // Downloaded from the registry
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Editable reports whether reports of this kind can be moved and re-described.
func (k Kind) Editable() bool {
	return k == KindPending
}

// Uploadable reports whether reports of this kind are submitted to the registry.
func (k Kind) Uploadable() bool {
	return k == KindPending
}

// Marker returns the map glyph used for reports of this kind.
func (k Kind) Marker() rune {
	if k == KindPending {
		return '+'
	}
	return '●'
}

// Confirmed holds the registry details of a downloaded report.
// Fields are ordered to minimize memory padding.
type Confirmed struct {
	ReportedAt           time.Time
	StatusModifiedAt     time.Time
	ModifiedAt           time.Time
	RegistrationNumber   string // Full registration number, the report identity
	Source               string
	MaintainerCode       string
	MaintainerName       string
	LocationLink         string
	Product              string
	Status               string // Human-readable status text from the registry
	Explanation          string
	ObjectID             string
	ObjectType           string
	StatusCode           StatusCode
	RegistrationSequence int64
}

// Report is a single correction to the registry, either pending or confirmed.
// Identity, kind and confirmed details are immutable; position, visibility and
// (for pending reports) description are safe for concurrent use.
type Report struct {
	confirmed   *Confirmed
	id          string
	registry    string
	description string
	pos         Position
	mu          sync.RWMutex
	kind        Kind
	hidden      atomic.Bool
}

// NewPendingReport creates a pending report at the given position with a fresh identifier.
func NewPendingReport(ll LatLon, description string) *Report {
	return &Report{
		kind:        KindPending,
		id:          uuid.NewString(),
		registry:    DefaultRegistry,
		description: description,
		pos:         NewPosition(ll),
	}
}

// RestorePendingReport recreates a pending report with a known identifier,
// e.g. one read back from an export file. A blank id gets a fresh one.
func RestorePendingReport(id string, ll LatLon, description string) *Report {
	r := NewPendingReport(ll, description)
	if id != "" {
		r.id = id
	}
	return r
}

// NewConfirmedReport creates a confirmed report from registry details.
func NewConfirmedReport(ll LatLon, registry, description string, details Confirmed) *Report {
	if registry == "" {
		registry = DefaultRegistry
	}
	d := details
	return &Report{
		kind:        KindConfirmed,
		id:          details.RegistrationNumber,
		registry:    registry,
		description: description,
		confirmed:   &d,
		pos:         NewPosition(ll),
	}
}

// Kind returns the report variant.
func (r *Report) Kind() Kind {
	return r.kind
}

// ID returns the identifier: the generated id for pending reports,
// the registration number for confirmed ones.
func (r *Report) ID() string {
	return r.id
}

// Key returns the identity key used for set membership.
func (r *Report) Key() string {
	return r.kind.String() + ":" + r.id
}

// Registry returns the base registration the report belongs to.
func (r *Report) Registry() string {
	return r.registry
}

// Confirmed returns the registry details, or nil for pending reports.
func (r *Report) Confirmed() *Confirmed {
	return r.confirmed
}

// Description returns the report description.
func (r *Report) Description() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.description
}

// SetDescription changes the description of a pending report.
func (r *Report) SetDescription(description string) error {
	if !r.kind.Editable() {
		return ErrReportNotEditable
	}
	r.mu.Lock()
	r.description = description
	r.mu.Unlock()
	return nil
}

// Visible reports whether the report passes the current filter.
func (r *Report) Visible() bool {
	return !r.hidden.Load()
}

// SetVisible sets the filter visibility.
func (r *Report) SetVisible(visible bool) {
	r.hidden.Store(!visible)
}

// PositionState returns a snapshot of the position state machine.
func (r *Report) PositionState() Position {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pos
}

// Position returns the committed position.
func (r *Report) Position() LatLon {
	return r.PositionState().Committed()
}

// LivePosition returns the position including any in-progress drag.
func (r *Report) LivePosition() LatLon {
	return r.PositionState().Live()
}

// IsModified reports whether the report is being dragged away from its committed position.
func (r *Report) IsModified() bool {
	p := r.PositionState()
	return p.Phase() == PhaseDragging && !p.Offset().IsZero()
}

// SetPosition sets the committed position explicitly, cancelling any drag.
func (r *Report) SetPosition(ll LatLon) {
	r.mu.Lock()
	r.pos = NewPosition(ll)
	r.mu.Unlock()
}

// Move sets the live offset relative to the committed position.
func (r *Report) Move(d Delta) {
	r.mu.Lock()
	r.pos = r.pos.UpdateDrag(d)
	r.mu.Unlock()
}

// StopMoving commits the live position. Calling it again without a Move is a no-op.
func (r *Report) StopMoving() {
	r.mu.Lock()
	r.pos = r.pos.Commit()
	r.mu.Unlock()
}

// CancelMoving drops the live offset.
func (r *Report) CancelMoving() {
	r.mu.Lock()
	r.pos = r.pos.Cancel()
	r.mu.Unlock()
}

// Translate moves the report by d and commits the result.
func (r *Report) Translate(d Delta) {
	r.mu.Lock()
	r.pos = r.pos.Cancel().UpdateDrag(d).Commit()
	r.mu.Unlock()
}

// String returns a short description for logs and lists.
func (r *Report) String() string {
	ll := r.Position()
	if r.kind == KindConfirmed {
		return fmt.Sprintf("Report[%s lat=%f lon=%f]", r.id, ll.Lat, ll.Lon)
	}
	return r.Description()
}

// Equal reports whether two reports have the same identity.
func (r *Report) Equal(o *Report) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Key() == o.Key()
}

// Compare orders reports. Reports of the same kind compare by identifier; reports of
// different kinds compare by a hash of their key, which is stable but carries no meaning.
func Compare(a, b *Report) int {
	if a.kind == b.kind {
		return cmp.Compare(a.id, b.id)
	}
	return cmp.Compare(keyHash(a.Key()), keyHash(b.Key()))
}

func keyHash(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}
