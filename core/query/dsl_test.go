package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection(t *testing.T) {
	assert.True(t, SortDirectionAsc.IsValid())
	assert.False(t, SortDirection("up").IsValid())
	assert.Equal(t, SortDirectionDesc, SortDirectionAsc.Flip())
	assert.Equal(t, SortDirectionAsc, SortDirectionDesc.Flip())
}

func TestSortConfiguration_Toggle(t *testing.T) {
	var none *SortConfiguration
	first := none.Toggle("name")
	assert.Equal(t, &SortConfiguration{Field: "name", Direction: SortDirectionAsc}, first)

	second := first.Toggle("name")
	assert.Equal(t, SortDirectionDesc, second.Direction)

	third := second.Toggle("name")
	assert.Equal(t, *first, *third, "toggling twice restores the original direction")

	other := second.Toggle("age")
	assert.Equal(t, &SortConfiguration{Field: "age", Direction: SortDirectionAsc}, other)
}

func TestFilters(t *testing.T) {
	f := Filters{"a": "x", "b": ""}
	assert.Equal(t, Filters{"a": "x"}, f.Active())

	c := f.Clone()
	c["a"] = "y"
	assert.Equal(t, "x", f["a"])

	var nilFilters Filters
	assert.NotNil(t, nilFilters.Clone())
	assert.Empty(t, nilFilters.Active())
}

func TestViewQuery_Validate(t *testing.T) {
	assert.NoError(t, (&ViewQuery{}).Validate())
	assert.Error(t, (&ViewQuery{Sort: &SortConfiguration{Direction: SortDirectionAsc}}).Validate())
	assert.Error(t, (&ViewQuery{Sort: &SortConfiguration{Field: "a", Direction: "x"}}).Validate())
	assert.Error(t, (&ViewQuery{Page: &PageRequest{Page: 0, Size: 10}}).Validate())
	assert.Error(t, (&ViewQuery{Page: &PageRequest{Page: 1, Size: 0}}).Validate())
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, size, total    int
		pages, start, end    int
		hasPrevious, hasNext bool
	}{
		{"first page", 1, 10, 50, 5, 1, 10, false, true},
		{"middle page", 2, 10, 50, 5, 11, 20, true, true},
		{"partial last page", 3, 10, 25, 3, 21, 25, true, false},
		{"single partial page", 1, 10, 3, 1, 1, 3, false, false},
		{"no items", 1, 10, 0, 0, 1, 0, false, false},
		{"past the end", 9, 10, 25, 3, 81, 25, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.pages, info.TotalPages)
			assert.Equal(t, tt.start, info.StartIndex)
			assert.Equal(t, tt.end, info.EndIndex)
			assert.Equal(t, tt.hasPrevious, info.HasPrevious())
			assert.Equal(t, tt.hasNext, info.HasNext())
		})
	}
}

func TestPageInfo_TotalPagesIsCeiling(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for size := 1; size <= 12; size++ {
			info := NewPageInfo(1, size, total)
			assert.GreaterOrEqual(t, info.TotalPages, 1)
			assert.GreaterOrEqual(t, info.TotalPages*size, total)
			assert.Less(t, (info.TotalPages-1)*size, total)
		}
	}
}

func TestPageInfo_VisiblePages(t *testing.T) {
	tests := []struct {
		name        string
		page, total int
		want        []int
	}{
		{"fewer pages than window", 1, 3, []int{1, 2, 3}},
		{"start", 1, 10, []int{1, 2, 3, 4, 5}},
		{"centered", 5, 10, []int{3, 4, 5, 6, 7}},
		{"end", 10, 10, []int{6, 7, 8, 9, 10}},
		{"near end", 9, 10, []int{6, 7, 8, 9, 10}},
		{"no pages", 1, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, 10, tt.total*10)
			assert.Equal(t, tt.want, info.VisiblePages(5))
		})
	}
	assert.Nil(t, NewPageInfo(1, 10, 100).VisiblePages(0))
}

func TestPageInfo_Summary(t *testing.T) {
	assert.Equal(t, "No items", NewPageInfo(1, 10, 0).Summary())
	assert.Equal(t, "Showing 11 to 20 of 30 entries", NewPageInfo(2, 10, 30).Summary())
	assert.Equal(t, "Showing 21 to 25 of 25 entries", NewPageInfo(3, 10, 25).Summary())
}
