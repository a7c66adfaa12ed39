// Package selection tracks the set of asset ids driving bulk delete and
// export actions. State is in-memory only and lost on restart.
package selection

import (
	"sort"
	"sync"
)

// Set is a mutable selection of asset ids. Safe for concurrent use.
type Set struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// New creates an empty selection.
func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips membership of id.
func (s *Set) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectAll is a two-state toggle: when the current selection size
// equals len(allIDs) it clears the selection, otherwise it selects all
// of allIDs. Deliberately size-based, not a strict "select all".
func (s *Set) SelectAll(allIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == len(allIDs) {
		s.ids = make(map[string]struct{})
		return
	}
	s.ids = make(map[string]struct{}, len(allIDs))
	for _, id := range allIDs {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection. Called after any batch delete, including
// partially failed ones; not after export.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// Has reports whether id is selected.
func (s *Set) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in sorted order.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
