package query

import "github.com/Veraticus/vendor-dash/internal/model"

// ListState is the mutable part of a list screen: the criteria the user
// picked and the page they are on. Changing criteria sends the user back to
// page 1; changing the page leaves the result set alone.
type ListState struct {
	Criteria Criteria
	Page     int
}

// NewListState returns a state on page 1 with the given criteria.
func NewListState(c Criteria) *ListState {
	return &ListState{Criteria: c.Normalized(), Page: 1}
}

// SetCriteria replaces the criteria. It reports whether they changed, and
// resets the page to 1 when they did.
func (s *ListState) SetCriteria(c Criteria) bool {
	c = c.Normalized()
	if s.Criteria.Equal(c) {
		s.Criteria = c
		return false
	}
	s.Criteria = c
	s.Page = 1
	return true
}

// Update applies fn to a copy of the criteria and stores the result via
// SetCriteria.
func (s *ListState) Update(fn func(*Criteria)) bool {
	c := s.Criteria
	fn(&c)
	return s.SetCriteria(c)
}

// SetPage moves to page n, clamped to at least 1.
func (s *ListState) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
}

// Next advances one page unless already on the last of totalPages.
func (s *ListState) Next(totalPages int) bool {
	if s.Page >= totalPages {
		return false
	}
	s.Page++
	return true
}

// Prev goes back one page unless already on page 1.
func (s *ListState) Prev() bool {
	if s.Page <= 1 {
		return false
	}
	s.Page--
	return true
}

// Run evaluates the state against txns.
func (s *ListState) Run(txns []model.Transaction) Result {
	return Run(txns, s.Criteria, s.Page)
}
