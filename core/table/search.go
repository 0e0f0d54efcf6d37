package table

import (
	"slices"
	"time"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// SetSearchQuery records the typed query. The query applies once it has been
// stable for the debounce period; every call restarts the period.
func (t *Table) SetSearchQuery(q string) {
	t.mu.Lock()
	t.searchQuery = q
	t.searchSeq++
	seq := t.searchSeq
	if t.searchTimer != nil {
		t.searchTimer.Stop()
		t.searchTimer = nil
	}

	if t.closed || t.opts.Search.Debounce < 0 {
		effs := t.settleSearchLocked()
		t.mu.Unlock()
		effs.Run()
		return
	}
	t.searchTimer = time.AfterFunc(t.opts.Search.Debounce, func() { t.settleSearch(seq) })
	t.mu.Unlock()
}

// settleSearch is the timer callback. Stale timers are ignored.
func (t *Table) settleSearch(seq uint64) {
	t.mu.Lock()
	if seq != t.searchSeq {
		t.mu.Unlock()
		return
	}
	t.searchTimer = nil
	effs := t.settleSearchLocked()
	t.mu.Unlock()
	effs.Run()
}

// settleSearchLocked promotes the typed query to the debounced query. Nothing
// is dispatched when the value did not change.
func (t *Table) settleSearchLocked() state.Effects {
	var effs state.Effects
	if t.searchQuery == t.debounced.Get() {
		return effs
	}
	prev := t.debounced.Get()
	effs.Add(t.debounced.Dispatch(t.searchQuery))
	effs.Add(t.emit(events.SearchSettled, prev, t.searchQuery))
	t.logger.Debug("Search settled", zap.String("query", t.searchQuery))
	return effs
}

// FlushSearch applies a pending query immediately.
func (t *Table) FlushSearch() {
	t.mu.Lock()
	if t.searchTimer != nil {
		t.searchTimer.Stop()
		t.searchTimer = nil
	}
	t.searchSeq++
	effs := t.settleSearchLocked()
	t.mu.Unlock()
	effs.Run()
}

// SearchQuery returns the query as typed.
func (t *Table) SearchQuery() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.searchQuery
}

// DebouncedSearchQuery returns the query the pipeline currently applies.
func (t *Table) DebouncedSearchQuery() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.debounced.Get()
}

// SearchPending reports whether a typed query has not settled yet.
func (t *Table) SearchPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.searchQuery != t.debounced.Get()
}

// SearchColumns returns the keys of the searched columns.
func (t *Table) SearchColumns() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.searchColumnsLocked()
}

// searchColumnsLocked returns the configured searchable columns in column
// order, hidden ones included. Without a list every visible column is
// searched.
func (t *Table) searchColumnsLocked() []string {
	allow := t.opts.Search.SearchableColumns
	if len(allow) == 0 {
		return schema.ColumnKeys(schema.VisibleColumns(t.columns))
	}
	var keys []string
	for _, col := range t.columns {
		if slices.Contains(allow, col.Key) {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
