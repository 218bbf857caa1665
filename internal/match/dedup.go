package match

import "sync"

// URLSet accumulates resolved URLs preserving first-seen order without
// repeats. Two tracks that resolve to the same canonical upload fold
// into one entry at the position of first appearance.
//
// The mutex keeps Add safe under the bounded-concurrency bulk path.
type URLSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	urls []string
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add appends url unless it is already present. Reports whether the
// url was newly added.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
	return true
}

// URLs returns a copy of the accumulated URLs in insertion order.
func (s *URLSet) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}

// Len returns the number of unique URLs added so far.
func (s *URLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
