package table

import (
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"go.uber.org/zap"
)

// EmptyKind classifies why the current page has no rows.
type EmptyKind string

const (
	EmptyNone      EmptyKind = ""
	EmptyNoData    EmptyKind = "no-data"
	EmptyNoResults EmptyKind = "no-results"
	EmptyFiltered  EmptyKind = "filtered"
)

// DefaultMessage returns the message shown for the kind.
func (k EmptyKind) DefaultMessage() string {
	switch k {
	case EmptyNoResults:
		return "No results found"
	case EmptyFiltered:
		return "No matching items"
	case EmptyNoData:
		return "No data available"
	}
	return ""
}

// DefaultDescription returns the secondary text shown for the kind.
func (k EmptyKind) DefaultDescription() string {
	switch k {
	case EmptyNoResults:
		return "Try adjusting your search to find what you're looking for."
	case EmptyFiltered:
		return "No items match your current filters. Try adjusting or clearing your filters."
	case EmptyNoData:
		return "There are no items to display at the moment."
	}
	return ""
}

// View is the derived state of the table: the output of every pipeline stage
// and the pagination summary. A View is shared between callers and must be
// treated as read-only.
type View struct {
	// Rows are the rows of the current page.
	Rows    []schema.Document
	Columns []schema.Column

	Searched []schema.Document
	Sorted   []schema.Document
	Filtered []schema.Document

	// TotalFilteredItems is the number of rows that left the filter stage.
	TotalFilteredItems int
	PageInfo           query.PageInfo
	Query              query.ViewQuery
	Empty              EmptyKind
}

// signature captures every input of the view. The view is recomputed only
// when it changes.
type signature struct {
	rows, cols, search, sort, filters, page, size, total uint64
}

// View returns the derived state, recomputing it when an input changed.
func (t *Table) View() *View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Table) signatureLocked() signature {
	return signature{
		rows:    t.rowsVersion,
		cols:    t.colsVersion,
		search:  t.debounced.Version(),
		sort:    t.sort.Version(),
		filters: t.filters.Version(),
		page:    t.page.Version(),
		size:    t.pageSize.Version(),
		total:   t.totalVersion,
	}
}

func (t *Table) viewLocked() *View {
	sig := t.signatureLocked()
	if t.cache != nil && sig == t.cacheSig {
		return t.cache
	}

	q := t.viewQueryLocked()
	res, err := t.processor.ProcessRows(t.rows, &q)
	if err != nil {
		t.logger.Warn("View query rejected, showing unprocessed rows", zap.Error(err))
		res = &query.Result{Input: t.rows}
	}

	v := &View{
		Rows:     res.Rows(),
		Columns:  schema.VisibleColumns(t.columns),
		Searched: res.After(query.StageSearch),
		Sorted:   res.After(query.StageSort),
		Filtered: res.After(query.StageFilter),
		Query:    q,
	}
	v.TotalFilteredItems = len(v.Filtered)
	v.PageInfo = t.pageInfoLocked(v.TotalFilteredItems)
	if len(v.Rows) == 0 {
		v.Empty = t.emptyKindLocked()
	}

	t.cache = v
	t.cacheSig = sig
	t.logger.Debug("View recomputed",
		zap.Int("input", len(t.rows)),
		zap.Int("filtered", v.TotalFilteredItems),
		zap.Int("page", len(v.Rows)))
	return v
}

// viewQueryLocked maps the stage state to a query. Disabled and controlled
// stages contribute nothing.
func (t *Table) viewQueryLocked() query.ViewQuery {
	var q query.ViewQuery
	o := t.opts

	if o.Search.Enabled && o.Search.OnSearch == nil && t.debounced.Get() != "" {
		q.Search = &query.SearchQuery{
			Text:          t.debounced.Get(),
			Columns:       t.searchColumnsLocked(),
			CaseSensitive: o.Search.CaseSensitive,
		}
	}
	if o.Sorting.Enabled && !t.sort.Controlled() {
		q.Sort = cloneSort(t.sort.Get())
	}
	if o.Filtering.Enabled && !t.filters.Controlled() {
		if active := t.filters.Get().Active(); len(active) > 0 {
			q.Filters = active
		}
	}
	if o.Pagination.Enabled && !t.paginationControlled() {
		q.Page = &query.PageRequest{Page: t.page.Get(), Size: t.pageSize.Get()}
	}
	return q
}

func (t *Table) pageInfoLocked(filtered int) query.PageInfo {
	if !t.opts.Pagination.Enabled {
		return query.NewPageInfo(1, filtered, filtered)
	}
	total := filtered
	if t.totalItems > 0 {
		total = t.totalItems
	}
	return query.NewPageInfo(t.page.Get(), t.pageSize.Get(), total)
}

func (t *Table) emptyKindLocked() EmptyKind {
	switch {
	case t.debounced.Get() != "":
		return EmptyNoResults
	case len(t.filters.Get().Active()) > 0:
		return EmptyFiltered
	default:
		return EmptyNoData
	}
}

// EmptyKind classifies an empty page; EmptyNone when rows are shown.
func (t *Table) EmptyKind() EmptyKind {
	return t.View().Empty
}

// EmptyMessage returns the configured empty state message or the default for
// the current kind.
func (t *Table) EmptyMessage() string {
	if t.opts.EmptyState.Message != "" {
		return t.opts.EmptyState.Message
	}
	return t.EmptyKind().DefaultMessage()
}

// IsEmpty reports whether the current page has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.View().Rows) == 0
}

// Loading returns the loading state.
func (t *Table) Loading() LoadingOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// SetLoading toggles the loading state.
func (t *Table) SetLoading(loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading.IsLoading = loading
}

// HasActions reports whether rows carry an actions cell.
func (t *Table) HasActions() bool {
	return t.opts.Editing.Enabled || len(t.opts.RowActions) > 0
}

// Toolbar is the state shown above the table.
type Toolbar struct {
	Visible           bool
	SearchEnabled     bool
	SearchQuery       string
	SearchPlaceholder string
	FilteringEnabled  bool
	FilterColumns     []schema.Column
	Filters           query.Filters
	HasActiveFilters  bool
	SelectedCount     int
	TotalCount        int
}

// Toolbar returns the toolbar state.
func (t *Table) Toolbar() Toolbar {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.viewLocked()
	tb := Toolbar{
		SearchEnabled:     t.opts.Search.Enabled,
		SearchQuery:       t.searchQuery,
		SearchPlaceholder: t.opts.Search.Placeholder,
		FilteringEnabled:  t.opts.Filtering.Enabled,
		FilterColumns:     t.filterColumnsLocked(),
		Filters:           t.filters.Get().Clone(),
		HasActiveFilters:  len(t.filters.Get().Active()) > 0,
		SelectedCount:     len(t.selection.Get()),
		TotalCount:        v.TotalFilteredItems,
	}
	if tb.SearchPlaceholder == "" {
		tb.SearchPlaceholder = "Search..."
	}
	tb.Visible = tb.SearchEnabled || tb.FilteringEnabled || tb.SelectedCount > 0
	return tb
}
