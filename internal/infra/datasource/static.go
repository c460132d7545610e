// Package datasource provides the editor data areas used by the OSM-area download mode.
package datasource

import (
	"sync"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Ensure Static implements domain.DataSourceProvider.
var _ domain.DataSourceProvider = (*Static)(nil)

// Static is a fixed, growable list of data areas. Registered callbacks run
// after every change, outside the lock.
type Static struct {
	areas    []domain.Bounds
	onChange []func()
	mu       sync.RWMutex
}

// NewStatic creates a Static holding the valid areas among bounds.
func NewStatic(bounds ...domain.Bounds) *Static {
	s := &Static{}
	for _, b := range bounds {
		if b.Valid() {
			s.areas = append(s.areas, b)
		}
	}
	return s
}

// OnChange registers fn to run after the areas changed.
func (s *Static) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// DataSourceBounds returns a copy of the areas.
func (s *Static) DataSourceBounds() []domain.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Bounds(nil), s.areas...)
}

// Add appends b unless an equal area is already present.
func (s *Static) Add(b domain.Bounds) error {
	if !b.Valid() {
		return domain.ErrInvalidBounds
	}
	s.mu.Lock()
	for _, existing := range s.areas {
		if existing.Equal(b) {
			s.mu.Unlock()
			return nil
		}
	}
	s.areas = append(s.areas, b)
	callbacks := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// Clear removes all areas.
func (s *Static) Clear() {
	s.mu.Lock()
	s.areas = nil
	callbacks := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Len returns the number of areas.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.areas)
}
