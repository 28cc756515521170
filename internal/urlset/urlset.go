// Package urlset provides an insertion-ordered, deduplicating set of URLs.
package urlset

// Set keeps URLs unique while preserving the order of first insertion,
// so batch numbering stays reproducible across runs.
type Set struct {
	order []string
	seen  map[string]struct{}
}

func New() *Set {
	return &Set{
		order: make([]string, 0),
		seen:  make(map[string]struct{}),
	}
}

// Add inserts url unless it is already present. It reports whether the
// url was newly inserted.
func (s *Set) Add(url string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

func (s *Set) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

func (s *Set) Len() int {
	return len(s.order)
}

// URLs returns the urls in first-insertion order. The returned slice is
// a copy; mutating it does not affect the set.
func (s *Set) URLs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
