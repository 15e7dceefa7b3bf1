// Package query implements the transaction list pipeline shared by every
// list screen and export: filter, then sort, then paginate.
package query

import (
	"strings"
	"time"
)

// SortOption selects the ordering applied after filtering.
type SortOption string

// Sort options.
const (
	SortLatest    SortOption = "latest"
	SortOldest    SortOption = "oldest"
	SortItemsLow  SortOption = "itemsLow"
	SortItemsHigh SortOption = "itemsHigh"
)

// SortOptions lists every option in display order.
var SortOptions = []SortOption{SortLatest, SortOldest, SortItemsLow, SortItemsHigh}

// PageSizes are the page sizes a list screen offers.
var PageSizes = []int{6, 10, 20}

// DefaultPageSize is used when no valid page size is configured.
const DefaultPageSize = 6

// DateLayout is the calendar-day format accepted by date filters.
const DateLayout = "2006-01-02"

// ParseSortOption maps user input onto a SortOption. Unknown values fall
// back to SortLatest.
func ParseSortOption(s string) SortOption {
	for _, opt := range SortOptions {
		if strings.EqualFold(string(opt), strings.TrimSpace(s)) {
			return opt
		}
	}
	return SortLatest
}

// Label returns the human-readable form of the option.
func (o SortOption) Label() string {
	switch o {
	case SortOldest:
		return "Oldest → Latest"
	case SortItemsLow:
		return "Items Low → High"
	case SortItemsHigh:
		return "Items High → Low"
	default:
		return "Latest → Oldest"
	}
}

// Next cycles to the following sort option.
func (o SortOption) Next() SortOption {
	for i, opt := range SortOptions {
		if opt == o {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortLatest
}

// NormalizePageSize returns size when it is one of PageSizes, otherwise
// DefaultPageSize.
func NormalizePageSize(size int) int {
	for _, s := range PageSizes {
		if s == size {
			return size
		}
	}
	return DefaultPageSize
}

// NextPageSize cycles through PageSizes.
func NextPageSize(size int) int {
	for i, s := range PageSizes {
		if s == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}

// DateFilter restricts results by creation date. Day selects one exact
// calendar day and wins over From/To. From and To bound an inclusive range;
// either may be empty. Malformed values are ignored.
type DateFilter struct {
	Day  string
	From string
	To   string
}

// IsZero reports whether no date restriction was requested.
func (d DateFilter) IsZero() bool {
	return strings.TrimSpace(d.Day) == "" &&
		strings.TrimSpace(d.From) == "" &&
		strings.TrimSpace(d.To) == ""
}

// Criteria is the full set of list options a user can change.
type Criteria struct {
	Location      *time.Location
	SearchStore   string
	SearchManager string
	Sort          SortOption
	Date          DateFilter
	PageSize      int
}

// DefaultCriteria returns the criteria a list screen starts with.
func DefaultCriteria() Criteria {
	return Criteria{
		Sort:     SortLatest,
		PageSize: DefaultPageSize,
	}
}

// Normalized returns a copy with sort and page size coerced to valid values.
func (c Criteria) Normalized() Criteria {
	c.Sort = ParseSortOption(string(c.Sort))
	c.PageSize = NormalizePageSize(c.PageSize)
	return c
}

// Equal reports whether two criteria would produce the same result set.
func (c Criteria) Equal(other Criteria) bool {
	a, b := c.Normalized(), other.Normalized()
	return a.SearchStore == b.SearchStore &&
		a.SearchManager == b.SearchManager &&
		a.Sort == b.Sort &&
		a.Date == b.Date &&
		a.PageSize == b.PageSize &&
		a.location().String() == b.location().String()
}

func (c Criteria) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// ParseDateFilter reads "YYYY-MM-DD" as a single day and "from..to" as a
// range; either side of a range may be left empty.
func ParseDateFilter(s string) DateFilter {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, ".."); ok {
		return DateFilter{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
	}
	return DateFilter{Day: s}
}

// String renders the filter in the form ParseDateFilter accepts.
func (d DateFilter) String() string {
	if strings.TrimSpace(d.Day) != "" {
		return d.Day
	}
	if d.From == "" && d.To == "" {
		return ""
	}
	return d.From + ".." + d.To
}
