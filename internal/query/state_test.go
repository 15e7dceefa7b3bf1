package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListState_CriteriaChangeResetsPage(t *testing.T) {
	s := NewListState(utcCriteria())
	s.SetPage(3)

	changed := s.Update(func(c *Criteria) { c.SearchManager = "ravi" })
	assert.True(t, changed)
	assert.Equal(t, 1, s.Page)
}

func TestListState_SameCriteriaKeepsPage(t *testing.T) {
	s := NewListState(utcCriteria())
	s.SetPage(2)

	changed := s.SetCriteria(s.Criteria)
	assert.False(t, changed)
	assert.Equal(t, 2, s.Page)
}

func TestListState_EquivalentInvalidValuesAreNotAChange(t *testing.T) {
	s := NewListState(utcCriteria())
	s.SetPage(2)

	c := s.Criteria
	c.PageSize = 7 // normalizes to the default
	c.Sort = "unknown"
	assert.False(t, s.SetCriteria(c))
	assert.Equal(t, 2, s.Page)
}

func TestListState_PageNavigationDoesNotChangeResultSet(t *testing.T) {
	s := NewListState(utcCriteria())
	before := s.Run(fixture()).Filtered

	s.SetPage(2)
	after := s.Run(fixture()).Filtered
	assert.Equal(t, ids(before), ids(after))
}

func TestListState_NextPrev(t *testing.T) {
	s := NewListState(utcCriteria())

	assert.False(t, s.Prev())
	assert.True(t, s.Next(3))
	assert.True(t, s.Next(3))
	assert.False(t, s.Next(3))
	assert.Equal(t, 3, s.Page)
	assert.True(t, s.Prev())
	assert.Equal(t, 2, s.Page)

	s.SetPage(-4)
	assert.Equal(t, 1, s.Page)
}

func TestSortOption_ParseAndCycle(t *testing.T) {
	assert.Equal(t, SortItemsHigh, ParseSortOption("itemshigh"))
	assert.Equal(t, SortLatest, ParseSortOption(""))
	assert.Equal(t, SortOldest, SortLatest.Next())
	assert.Equal(t, SortLatest, SortItemsHigh.Next())
	assert.Equal(t, "Items Low → High", SortItemsLow.Label())
}

func TestPageSizes(t *testing.T) {
	assert.Equal(t, 10, NormalizePageSize(10))
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, 10, NextPageSize(6))
	assert.Equal(t, 6, NextPageSize(20))
	assert.Equal(t, 6, NextPageSize(13))
}

func TestDateFilter_IsZero(t *testing.T) {
	assert.True(t, DateFilter{}.IsZero())
	assert.True(t, DateFilter{Day: "  "}.IsZero())
	assert.False(t, DateFilter{To: "2024-01-01"}.IsZero())
}

func TestParseDateFilter(t *testing.T) {
	tests := []struct {
		in   string
		want DateFilter
	}{
		{in: "2024-03-05", want: DateFilter{Day: "2024-03-05"}},
		{in: "2024-03-01..2024-03-31", want: DateFilter{From: "2024-03-01", To: "2024-03-31"}},
		{in: "2024-03-01..", want: DateFilter{From: "2024-03-01"}},
		{in: " ..2024-03-31 ", want: DateFilter{To: "2024-03-31"}},
		{in: "", want: DateFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDateFilter(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, ParseDateFilter(got.String()))
		})
	}
}
