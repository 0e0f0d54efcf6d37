package table

import (
	"fmt"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// ToggleSort advances the sort of a column: the active column flips its
// direction and any other column starts ascending. When OnSort is set the next
// configuration is handed to it and the local sort is left alone.
func (t *Table) ToggleSort(key string) (query.SortConfiguration, error) {
	t.mu.Lock()
	if !t.opts.Sorting.Enabled {
		t.mu.Unlock()
		return query.SortConfiguration{}, ErrSortingDisabled
	}
	col, ok := schema.FindColumn(t.columns, key)
	if !ok {
		t.mu.Unlock()
		return query.SortConfiguration{}, fmt.Errorf("sort %q: %w", key, schema.ErrUnknownColumn)
	}
	if !col.Sortable {
		t.mu.Unlock()
		return query.SortConfiguration{}, fmt.Errorf("sort %q: %w", key, ErrColumnNotSortable)
	}

	prev := cloneSort(t.sort.Get())
	next := prev.Toggle(key)
	effs := t.dispatchSortLocked(prev, next)
	t.mu.Unlock()

	effs.Run()
	return *next, nil
}

func (t *Table) dispatchSortLocked(prev, next *query.SortConfiguration) state.Effects {
	var effs state.Effects
	effs.Add(t.sort.Dispatch(next))
	effs.Add(t.emit(events.SortChange, prev, *next))
	if t.sort.Controlled() {
		t.logger.Debug("Sort change handed to host", zap.String("field", next.Field), zap.String("direction", string(next.Direction)))
	} else {
		t.logger.Debug("Sort changed", zap.String("field", next.Field), zap.String("direction", string(next.Direction)))
	}
	return effs
}

// SortConfig returns the active sort, or nil when rows keep their order.
func (t *Table) SortConfig() *query.SortConfiguration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneSort(t.sort.Get())
}

// SetSort pushes the sort accepted by the host. Nil clears it.
func (t *Table) SetSort(config *query.SortConfiguration) error {
	if config != nil && (config.Field == "" || !config.Direction.IsValid()) {
		return fmt.Errorf("invalid sort %+v", *config)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sort.Set(cloneSort(config))
	return nil
}

// SortDirectionFor returns the direction of key when it is the active sort.
func (t *Table) SortDirectionFor(key string) (query.SortDirection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.sort.Get()
	if s == nil || s.Field != key {
		return "", false
	}
	return s.Direction, true
}
