package reportdata

import (
	"slices"
	"sync"

	"github.com/osmnl/pdok-report/internal/domain"
)

// reportSet is an internally synchronized set of reports keyed by identity.
// Iteration works on snapshots, so readers never block writers for long.
type reportSet struct {
	items map[string]*domain.Report
	mu    sync.RWMutex
}

func newReportSet() *reportSet {
	return &reportSet{items: make(map[string]*domain.Report)}
}

// add inserts r unless an equal report is present. Returns true if the set changed.
func (s *reportSet) add(r *domain.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Key()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = r
	return true
}

// addAll inserts every absent report and returns how many were inserted.
func (s *reportSet) addAll(rs []*domain.Report) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range rs {
		if r == nil {
			continue
		}
		key := r.Key()
		if _, ok := s.items[key]; ok {
			continue
		}
		s.items[key] = r
		n++
	}
	return n
}

// remove deletes r. Returns true if it was present.
func (s *reportSet) remove(r *domain.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Key()
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	return true
}

func (s *reportSet) contains(r *domain.Report) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[r.Key()]
	return ok
}

func (s *reportSet) get(key string) *domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[key]
}

func (s *reportSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *reportSet) clear() {
	s.mu.Lock()
	clear(s.items)
	s.mu.Unlock()
}

// replace clears the set and inserts rs as one atomic step.
func (s *reportSet) replace(rs []*domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
	for _, r := range rs {
		if r != nil {
			s.items[r.Key()] = r
		}
	}
}

// snapshot returns the members sorted with domain.Compare.
func (s *reportSet) snapshot() []*domain.Report {
	s.mu.RLock()
	out := make([]*domain.Report, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, domain.Compare)
	return out
}
