package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTxn(id, store, manager string, created time.Time, items int) model.Transaction {
	txn := model.Transaction{
		TransactionID: id,
		ManagerName:   manager,
		Store:         &model.StoreRef{StoreID: "S-" + store, StoreName: store},
		CreatedAt:     created,
	}
	for i := 0; i < items; i++ {
		txn.Items = append(txn.Items, model.Item{ItemNo: i + 1, MaterialType: "Plastic", Weight: 1})
	}
	return txn
}

func ids(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.TransactionID)
	}
	return out
}

func utcCriteria() Criteria {
	c := DefaultCriteria()
	c.Location = time.UTC
	return c
}

func fixture() []model.Transaction {
	day := func(d, h int) time.Time { return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC) }
	return []model.Transaction{
		makeTxn("a", "Central Depot", "Asha Rao", day(1, 9), 3),
		makeTxn("b", "Harbor Yard", "Ravi Kumar", day(2, 9), 1),
		makeTxn("c", "Central Depot", "Ravi Kumar", day(3, 9), 5),
		makeTxn("d", "North Point", "Asha Rao", day(4, 9), 2),
		makeTxn("e", "Harbor Yard", "Meera Shah", day(5, 9), 4),
	}
}

func TestApply_DefaultSortIsLatestFirst(t *testing.T) {
	got := Apply(fixture(), utcCriteria())
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)

	c := utcCriteria()
	c.Sort = SortItemsHigh
	c.SearchStore = "harbor"
	_ = Apply(in, c)

	assert.Equal(t, before, ids(in))
	assert.Len(t, in, 5)
}

func TestApply_IsDeterministic(t *testing.T) {
	c := utcCriteria()
	c.Sort = SortItemsLow
	c.SearchManager = "a"

	first := Apply(fixture(), c)
	second := Apply(fixture(), c)
	assert.Equal(t, first, second)
}

func TestFilter_StoreAndManager(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		manager string
		want    []string
	}{
		{name: "no filters", want: []string{"a", "b", "c", "d", "e"}},
		{name: "store substring case insensitive", store: "CENTRAL", want: []string{"a", "c"}},
		{name: "manager substring", manager: "ravi", want: []string{"b", "c"}},
		{name: "both compose", store: "harbor", manager: "ravi", want: []string{"b"}},
		{name: "whitespace only is ignored", store: "   ", want: []string{"a", "b", "c", "d", "e"}},
		{name: "no match", store: "nowhere", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := utcCriteria()
			c.SearchStore = tt.store
			c.SearchManager = tt.manager
			assert.Equal(t, tt.want, ids(Filter(fixture(), c)))
		})
	}
}

func TestFilter_PredicatesCommute(t *testing.T) {
	storeOnly := utcCriteria()
	storeOnly.SearchStore = "central"
	managerOnly := utcCriteria()
	managerOnly.SearchManager = "ravi"

	storeThenManager := Filter(Filter(fixture(), storeOnly), managerOnly)
	managerThenStore := Filter(Filter(fixture(), managerOnly), storeOnly)

	assert.ElementsMatch(t, ids(storeThenManager), ids(managerThenStore))
	assert.Equal(t, []string{"c"}, ids(storeThenManager))
}

func TestFilter_StoreScopedShape(t *testing.T) {
	txns := []model.Transaction{
		{TransactionID: "x", StoreNameFlat: "Harbor Yard"},
		{TransactionID: "y", StoreNameFlat: "Central Depot"},
	}
	c := utcCriteria()
	c.SearchStore = "harbor"
	assert.Equal(t, []string{"x"}, ids(Filter(txns, c)))
}

func TestFilter_ExactDay(t *testing.T) {
	c := utcCriteria()
	c.Date = DateFilter{Day: "2024-01-03"}
	assert.Equal(t, []string{"c"}, ids(Filter(fixture(), c)))
}

func TestFilter_DayWinsOverRange(t *testing.T) {
	c := utcCriteria()
	c.Date = DateFilter{Day: "2024-01-03", From: "2024-01-01", To: "2024-01-05"}
	assert.Equal(t, []string{"c"}, ids(Filter(fixture(), c)))
}

func TestFilter_SingleDayRangeIsInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	txns := []model.Transaction{
		{TransactionID: "before", CreatedAt: start.Add(-time.Millisecond)},
		{TransactionID: "start", CreatedAt: start},
		{TransactionID: "noon", CreatedAt: start.Add(12 * time.Hour)},
		{TransactionID: "end", CreatedAt: end},
		{TransactionID: "after", CreatedAt: end.Add(time.Millisecond)},
	}

	c := utcCriteria()
	c.Date = DateFilter{From: "2024-01-01", To: "2024-01-01"}
	assert.Equal(t, []string{"start", "noon", "end"}, ids(Filter(txns, c)))
}

func TestFilter_OpenEndedRanges(t *testing.T) {
	c := utcCriteria()
	c.Date = DateFilter{From: "2024-01-04"}
	assert.Equal(t, []string{"d", "e"}, ids(Filter(fixture(), c)))

	c.Date = DateFilter{To: "2024-01-02"}
	assert.Equal(t, []string{"a", "b"}, ids(Filter(fixture(), c)))
}

func TestFilter_MalformedDatesAreIgnored(t *testing.T) {
	tests := []struct {
		name string
		date DateFilter
		want []string
	}{
		{name: "bad day", date: DateFilter{Day: "01/03/2024"}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "bad from keeps good to", date: DateFilter{From: "yesterday", To: "2024-01-02"}, want: []string{"a", "b"}},
		{name: "both bad", date: DateFilter{From: "x", To: "y"}, want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := utcCriteria()
			c.Date = tt.date
			assert.NotPanics(t, func() { _ = Filter(fixture(), c) })
			assert.Equal(t, tt.want, ids(Filter(fixture(), c)))
		})
	}
}

func TestFilter_UsesConfiguredLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on Jan 1 is 01:30 on Jan 2 in IST.
	txns := []model.Transaction{{TransactionID: "late", CreatedAt: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)}}

	c := utcCriteria()
	c.Date = DateFilter{Day: "2024-01-01"}
	assert.Equal(t, []string{"late"}, ids(Filter(txns, c)))

	c.Location = ist
	assert.Empty(t, Filter(txns, c))
	c.Date = DateFilter{Day: "2024-01-02"}
	assert.Equal(t, []string{"late"}, ids(Filter(txns, c)))
}

func TestSort_Options(t *testing.T) {
	tests := []struct {
		opt  SortOption
		want []string
	}{
		{opt: SortLatest, want: []string{"e", "d", "c", "b", "a"}},
		{opt: SortOldest, want: []string{"a", "b", "c", "d", "e"}},
		{opt: SortItemsLow, want: []string{"b", "d", "a", "e", "c"}},
		{opt: SortItemsHigh, want: []string{"c", "e", "a", "d", "b"}},
		{opt: SortOption("bogus"), want: []string{"e", "d", "c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.opt), func(t *testing.T) {
			txns := fixture()
			Sort(txns, tt.opt)
			assert.Equal(t, tt.want, ids(txns))
		})
	}
}

func TestSort_ItemsHighIsReverseOfItemsLow(t *testing.T) {
	high := fixture()
	Sort(high, SortItemsHigh)
	low := fixture()
	Sort(low, SortItemsLow)

	reversed := ids(low)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, reversed, ids(high))
}

func TestSort_TiesKeepFetchOrder(t *testing.T) {
	same := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		makeTxn("first", "A", "m", same, 2),
		makeTxn("second", "A", "m", same, 2),
		makeTxn("third", "A", "m", same, 2),
	}

	for _, opt := range SortOptions {
		t.Run(string(opt), func(t *testing.T) {
			work := append([]model.Transaction(nil), txns...)
			Sort(work, opt)
			assert.Equal(t, []string{"first", "second", "third"}, ids(work))
		})
	}
}

func TestPaginate_ThirteenRecords(t *testing.T) {
	txns := make([]model.Transaction, 13)
	for i := range txns {
		txns[i] = model.Transaction{TransactionID: fmt.Sprintf("t%02d", i)}
	}

	page := Paginate(txns, 3, 6)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 13, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "t12", page.Items[0].TransactionID)
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())

	first := Paginate(txns, 1, 6)
	assert.Len(t, first.Items, 6)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
}

func TestPaginate_EdgeCases(t *testing.T) {
	txns := fixture()

	outOfRange := Paginate(txns, 9, 6)
	assert.Empty(t, outOfRange.Items)
	assert.NotNil(t, outOfRange.Items)
	assert.Equal(t, 1, outOfRange.TotalPages)

	zero := Paginate(txns, 0, 6)
	assert.Equal(t, 1, zero.CurrentPage)
	assert.Len(t, zero.Items, 5)

	badSize := Paginate(txns, 1, 7)
	assert.Equal(t, DefaultPageSize, badSize.PageSize)

	empty := Paginate(nil, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(13, 6))
	assert.Equal(t, 2, TotalPages(20, 10))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 0, TotalPages(0, 6))
}

func TestRun_FilteredIsNotPaginated(t *testing.T) {
	txns := make([]model.Transaction, 0, 13)
	for i := 0; i < 13; i++ {
		txns = append(txns, makeTxn(fmt.Sprintf("t%02d", i), "Central", "Asha",
			time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC), 1))
	}

	c := utcCriteria()
	result := Run(txns, c, 2)
	assert.Len(t, result.Filtered, 13)
	assert.Len(t, result.Page.Items, 6)
	assert.Equal(t, "t06", result.Page.Items[0].TransactionID)
}
