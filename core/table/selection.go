package table

import (
	"reflect"
	"slices"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// SelectedRow is a selection entry. Membership is decided by Key alone.
type SelectedRow struct {
	Key string
	Row schema.Document
}

func rowsOf(sel []SelectedRow) []schema.Document {
	out := make([]schema.Document, len(sel))
	for i, s := range sel {
		out[i] = s.Row
	}
	return out
}

func indexOfKey(sel []SelectedRow, key string) int {
	return slices.IndexFunc(sel, func(s SelectedRow) bool { return s.Key == key })
}

// keyRowsLocked keys rows supplied by the host. A row found on the current
// page is keyed with its page index, any other row with index -1.
func (t *Table) keyRowsLocked(rows []schema.Document) []SelectedRow {
	page := t.viewLocked().Rows
	out := make([]SelectedRow, 0, len(rows))
	for _, row := range rows {
		index := slices.IndexFunc(page, func(r schema.Document) bool { return reflect.DeepEqual(r, row) })
		key := t.rowKey(row, index)
		if indexOfKey(out, key) >= 0 {
			continue
		}
		out = append(out, SelectedRow{Key: key, Row: row})
	}
	return out
}

func (t *Table) selectableLocked(row schema.Document, index int) bool {
	if fn := t.opts.Selection.IsRowSelectable; fn != nil {
		return fn(row, index)
	}
	return true
}

// selectableRowsLocked returns the selectable rows of the current page.
func (t *Table) selectableRowsLocked() []SelectedRow {
	var out []SelectedRow
	for i, row := range t.viewLocked().Rows {
		if t.selectableLocked(row, i) {
			out = append(out, SelectedRow{Key: t.rowKey(row, i), Row: row})
		}
	}
	return out
}

func (t *Table) dispatchSelectionLocked(next []SelectedRow) state.Effects {
	var effs state.Effects
	prev := rowsOf(t.selection.Get())
	effs.Add(t.selection.Dispatch(next))
	effs.Add(t.emit(events.SelectionChange, prev, rowsOf(next)))
	t.logger.Debug("Selection changed", zap.Int("selected", len(next)), zap.Bool("controlled", t.selection.Controlled()))
	return effs
}

// SelectRow toggles the row at index on the current page. In single mode
// selecting a row replaces the selection.
func (t *Table) SelectRow(index int) error {
	t.mu.Lock()
	if !t.opts.Selection.Enabled {
		t.mu.Unlock()
		return ErrSelectionDisabled
	}
	row, err := t.pageRowLocked(index)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if !t.selectableLocked(row, index) {
		t.mu.Unlock()
		return ErrRowNotSelectable
	}

	key := t.rowKey(row, index)
	current := t.selection.Get()
	var next []SelectedRow
	switch i := indexOfKey(current, key); {
	case i >= 0:
		next = slices.Delete(slices.Clone(current), i, i+1)
	case t.opts.Selection.Mode == SelectionSingle:
		next = []SelectedRow{{Key: key, Row: row}}
	default:
		next = append(slices.Clone(current), SelectedRow{Key: key, Row: row})
	}
	effs := t.dispatchSelectionLocked(next)
	t.mu.Unlock()

	effs.Run()
	return nil
}

// SelectAll selects every selectable row of the current page, or clears the
// selection when they are all selected already. Single mode selects the first
// selectable row only.
func (t *Table) SelectAll() error {
	t.mu.Lock()
	if !t.opts.Selection.Enabled {
		t.mu.Unlock()
		return ErrSelectionDisabled
	}

	next := t.selectableRowsLocked()
	switch {
	case len(next) == 0 || t.containsAllLocked(next):
		next = []SelectedRow{}
	case t.opts.Selection.Mode == SelectionSingle:
		next = next[:1]
	}
	effs := t.dispatchSelectionLocked(next)
	t.mu.Unlock()

	effs.Run()
	return nil
}

// ClearSelection empties the selection.
func (t *Table) ClearSelection() {
	t.mu.Lock()
	if !t.opts.Selection.Enabled {
		t.mu.Unlock()
		return
	}
	effs := t.dispatchSelectionLocked([]SelectedRow{})
	t.mu.Unlock()
	effs.Run()
}

// SetSelectedRows pushes the selection accepted by the host.
func (t *Table) SetSelectedRows(rows []schema.Document) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Set(t.keyRowsLocked(rows))
}

// SelectedRows returns the selected rows in selection order.
func (t *Table) SelectedRows() []schema.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	return rowsOf(t.selection.Get())
}

// SelectedKeys returns the keys of the selected rows.
func (t *Table) SelectedKeys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	sel := t.selection.Get()
	keys := make([]string, len(sel))
	for i, s := range sel {
		keys[i] = s.Key
	}
	return keys
}

// IsRowSelected reports whether the row at index on the current page is
// selected.
func (t *Table) IsRowSelected(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, err := t.pageRowLocked(index)
	if err != nil {
		return false
	}
	return indexOfKey(t.selection.Get(), t.rowKey(row, index)) >= 0
}

// IsRowSelectable reports whether the row at index on the current page may be
// selected.
func (t *Table) IsRowSelectable(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, err := t.pageRowLocked(index)
	if err != nil {
		return false
	}
	return t.opts.Selection.Enabled && t.selectableLocked(row, index)
}

// IsAllSelected reports whether every selectable row of the current page is
// selected. It is false when no row is selectable.
func (t *Table) IsAllSelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allSelectedLocked()
}

func (t *Table) allSelectedLocked() bool {
	selectable := t.selectableRowsLocked()
	return len(selectable) > 0 && t.containsAllLocked(selectable)
}

func (t *Table) containsAllLocked(rows []SelectedRow) bool {
	current := t.selection.Get()
	for _, s := range rows {
		if indexOfKey(current, s.Key) < 0 {
			return false
		}
	}
	return true
}

// IsIndeterminate reports whether some rows are selected but not all of them.
func (t *Table) IsIndeterminate() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.selection.Get()) > 0 && !t.allSelectedLocked()
}

// HasSelection reports whether any row is selected.
func (t *Table) HasSelection() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.selection.Get()) > 0
}
