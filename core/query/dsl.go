// Package query defines the view query applied to a row set and the pipeline
// that evaluates it. A ViewQuery is a structured description of the search,
// sort, filter and pagination state of a table; the DataProcessor turns it
// into an ordered list of stages.
package query

import (
	"fmt"
	"maps"
)

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// IsValid reports whether d is a supported direction.
func (d SortDirection) IsValid() bool {
	return d == SortDirectionAsc || d == SortDirectionDesc
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortDirectionAsc {
		return SortDirectionDesc
	}
	return SortDirectionAsc
}

// SortConfiguration defines the sorting order for a single column.
type SortConfiguration struct {
	Field     string        `json:"key"`       // The column to sort by.
	Direction SortDirection `json:"direction"` // The direction of the sort.
}

// Toggle returns the configuration that follows a click on field: the same
// field flips its direction, any other field starts ascending.
func (s *SortConfiguration) Toggle(field string) *SortConfiguration {
	if s != nil && s.Field == field {
		return &SortConfiguration{Field: field, Direction: s.Direction.Flip()}
	}
	return &SortConfiguration{Field: field, Direction: SortDirectionAsc}
}

// Filters maps a column key to a substring filter. Empty values are inactive.
type Filters map[string]string

// Active returns the filters with a non-empty value.
func (f Filters) Active() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns a copy of the filters.
func (f Filters) Clone() Filters {
	if f == nil {
		return Filters{}
	}
	return maps.Clone(f)
}

// SearchQuery is a free-text query over a set of columns.
type SearchQuery struct {
	Text          string   // The query text. Empty matches every row.
	Columns       []string // The columns searched.
	CaseSensitive bool     // Compare without folding case.
}

// PageRequest selects a 1-based page window.
type PageRequest struct {
	Page int // 1-based page number.
	Size int // Rows per page.
}

// ViewQuery describes the view of a row set. Nil parts are skipped.
type ViewQuery struct {
	Search  *SearchQuery       `json:",omitempty"`
	Sort    *SortConfiguration `json:",omitempty"`
	Filters Filters            `json:",omitempty"`
	Page    *PageRequest       `json:",omitempty"`
}

// Validate checks the query for values no stage can evaluate.
func (q *ViewQuery) Validate() error {
	if q.Sort != nil {
		if q.Sort.Field == "" {
			return fmt.Errorf("sort: empty field")
		}
		if !q.Sort.Direction.IsValid() {
			return fmt.Errorf("sort: unsupported direction %q", q.Sort.Direction)
		}
	}
	if q.Page != nil {
		if q.Page.Page < 1 {
			return fmt.Errorf("page: page %d is not 1-based", q.Page.Page)
		}
		if q.Page.Size < 1 {
			return fmt.Errorf("page: size %d must be positive", q.Page.Size)
		}
	}
	return nil
}

// PageInfo summarizes the pagination state.
type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	StartIndex  int `json:"startIndex"` // 1-based index of the first row on the page.
	EndIndex    int `json:"endIndex"`   // 1-based index of the last row on the page.
}

// NewPageInfo computes the page summary for a page of a result set.
func NewPageInfo(currentPage, pageSize, totalItems int) PageInfo {
	info := PageInfo{CurrentPage: currentPage, PageSize: pageSize, TotalItems: totalItems}
	if pageSize > 0 {
		info.TotalPages = (totalItems + pageSize - 1) / pageSize
		info.StartIndex = (currentPage-1)*pageSize + 1
		info.EndIndex = min(currentPage*pageSize, totalItems)
	}
	return info
}

// Summary describes the visible window, such as "Showing 11 to 20 of 30
// entries".
func (p PageInfo) Summary() string {
	if p.TotalItems == 0 {
		return "No items"
	}
	return fmt.Sprintf("Showing %d to %d of %d entries", p.StartIndex, p.EndIndex, p.TotalItems)
}

// HasPrevious reports whether a previous page exists.
func (p PageInfo) HasPrevious() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool { return p.CurrentPage < p.TotalPages }

// VisiblePages returns a window of at most limit page numbers centered on the
// current page where possible.
func (p PageInfo) VisiblePages(limit int) []int {
	if limit < 1 || p.TotalPages < 1 {
		return nil
	}
	start := max(1, p.CurrentPage-limit/2)
	end := min(p.TotalPages, start+limit-1)
	if end-start+1 < limit {
		start = max(1, end-limit+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
