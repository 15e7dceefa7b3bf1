package query

import (
	"sort"
	"strings"

	"github.com/Veraticus/vendor-dash/internal/model"
)

// Page is one slice of a filtered, sorted result set.
type Page struct {
	Items       []model.Transaction
	CurrentPage int
	TotalPages  int
	TotalCount  int
	PageSize    int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Result is the output of Run. Filtered holds the whole result set, which is
// what exports consume; Page holds what a screen displays.
type Result struct {
	Filtered []model.Transaction
	Page     Page
}

// Run applies criteria to txns and cuts out the requested page.
// It never modifies txns.
func Run(txns []model.Transaction, c Criteria, page int) Result {
	filtered := Apply(txns, c)
	return Result{
		Filtered: filtered,
		Page:     Paginate(filtered, page, c.PageSize),
	}
}

// Apply filters then sorts a copy of txns.
func Apply(txns []model.Transaction, c Criteria) []model.Transaction {
	out := Filter(txns, c)
	Sort(out, c.Sort)
	return out
}

// Filter returns a new slice holding the transactions that match every
// predicate in c, in their original order.
func Filter(txns []model.Transaction, c Criteria) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	if needle := strings.ToLower(strings.TrimSpace(c.SearchStore)); needle != "" {
		out = keep(out, func(t *model.Transaction) bool {
			return strings.Contains(strings.ToLower(t.StoreName()), needle)
		})
	}

	if needle := strings.ToLower(strings.TrimSpace(c.SearchManager)); needle != "" {
		out = keep(out, func(t *model.Transaction) bool {
			return strings.Contains(strings.ToLower(t.ManagerName), needle)
		})
	}

	if w, ok := c.Date.resolve(c.location()); ok {
		out = keep(out, func(t *model.Transaction) bool {
			return w.contains(t.CreatedAt)
		})
	}

	return out
}

// Sort orders txns in place. Ties keep their existing relative order.
func Sort(txns []model.Transaction, opt SortOption) {
	var less func(a, b *model.Transaction) bool

	switch ParseSortOption(string(opt)) {
	case SortOldest:
		less = func(a, b *model.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortItemsLow:
		less = func(a, b *model.Transaction) bool { return a.ItemCount() < b.ItemCount() }
	case SortItemsHigh:
		less = func(a, b *model.Transaction) bool { return a.ItemCount() > b.ItemCount() }
	default:
		less = func(a, b *model.Transaction) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return less(&txns[i], &txns[j])
	})
}

// Paginate returns the 1-based page of txns. Pages past the end are empty;
// pages below 1 are treated as 1.
func Paginate(txns []model.Transaction, page, size int) Page {
	size = NormalizePageSize(size)
	if page < 1 {
		page = 1
	}

	total := len(txns)
	p := Page{
		CurrentPage: page,
		TotalPages:  TotalPages(total, size),
		TotalCount:  total,
		PageSize:    size,
	}

	start := (page - 1) * size
	if start >= total {
		p.Items = []model.Transaction{}
		return p
	}
	end := min(start+size, total)
	p.Items = txns[start:end]
	return p
}

// TotalPages returns ceil(count / size).
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

func keep(txns []model.Transaction, pred func(*model.Transaction) bool) []model.Transaction {
	out := txns[:0]
	for i := range txns {
		if pred(&txns[i]) {
			out = append(out, txns[i])
		}
	}
	return out
}
