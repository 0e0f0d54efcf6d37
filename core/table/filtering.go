package table

import (
	"slices"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// ChangeFilters replaces the column filters and notifies OnFilterChange. The
// filters are stored even when the host owns filtering, so inputs keep their
// values.
func (t *Table) ChangeFilters(filters query.Filters) {
	t.mu.Lock()
	effs := t.changeFiltersLocked(filters.Clone())
	t.mu.Unlock()

	effs.Run()
}

// SetFilter changes the filter of one column. An empty value clears it.
func (t *Table) SetFilter(key, value string) {
	t.mu.Lock()
	next := t.filters.Get().Clone()
	next[key] = value
	effs := t.changeFiltersLocked(next)
	t.mu.Unlock()

	effs.Run()
}

// ClearFilters empties every filter.
func (t *Table) ClearFilters() {
	t.mu.Lock()
	next := t.filters.Get().Clone()
	for k := range next {
		next[k] = ""
	}
	effs := t.changeFiltersLocked(next)
	t.mu.Unlock()

	effs.Run()
}

func (t *Table) changeFiltersLocked(next query.Filters) state.Effects {
	prev := t.filters.Get().Clone()

	var effs state.Effects
	effs.Add(t.filters.Dispatch(next))
	effs.Add(t.emit(events.FilterChange, prev, next.Clone()))
	t.logger.Debug("Filters changed", zap.Int("active", len(next.Active())), zap.Bool("controlled", t.filters.Controlled()))
	return effs
}

// Filters returns a copy of the column filters.
func (t *Table) Filters() query.Filters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filters.Get().Clone()
}

// HasActiveFilters reports whether any filter has a value.
func (t *Table) HasActiveFilters() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.filters.Get().Active()) > 0
}

// FilterColumns returns the visible columns offered a filter input, at most
// MaxColumnFilters of them.
func (t *Table) FilterColumns() []schema.Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filterColumnsLocked()
}

func (t *Table) filterColumnsLocked() []schema.Column {
	visible := schema.VisibleColumns(t.columns)
	return slices.Clone(visible[:min(len(visible), t.opts.Filtering.MaxColumnFilters)])
}

// FilterOptionsFor returns the fixed filter choices of a column. Select
// columns fall back to their own options.
func (t *Table) FilterOptionsFor(key string) []schema.SelectOption {
	t.mu.Lock()
	defer t.mu.Unlock()
	if opts, ok := t.opts.Filtering.FilterOptions[key]; ok {
		return opts
	}
	if col, ok := schema.FindColumn(t.columns, key); ok && col.Type == schema.ColumnTypeSelect {
		return col.Options
	}
	return nil
}
