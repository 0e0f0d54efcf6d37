package table

import (
	"fmt"

	"github.com/asaidimu/go-datatable/core/schema"
)

// ClickRow invokes OnRowClick for the row at index on the current page.
func (t *Table) ClickRow(index int) error {
	return t.invokeRow(index, t.opts.OnRowClick)
}

// DoubleClickRow invokes OnRowDoubleClick for the row at index on the current
// page.
func (t *Table) DoubleClickRow(index int) error {
	return t.invokeRow(index, t.opts.OnRowDoubleClick)
}

// RunRowAction invokes the row action with the given key. Disabled actions
// are skipped.
func (t *Table) RunRowAction(key string, index int) error {
	for _, action := range t.opts.RowActions {
		if action.Key != key {
			continue
		}
		return t.invokeRow(index, func(row schema.Document, i int) {
			if action.OnClick == nil || (action.Disabled != nil && action.Disabled(row, i)) {
				return
			}
			action.OnClick(row, i)
		})
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, key)
}

// RowActions returns the row actions with their disabled state resolved for
// the row at index.
func (t *Table) RowActions(index int) ([]ResolvedAction, error) {
	t.mu.Lock()
	row, err := t.pageRowLocked(index)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]ResolvedAction, len(t.opts.RowActions))
	for i, a := range t.opts.RowActions {
		out[i] = ResolvedAction{Key: a.Key, Label: a.Label, Variant: a.Variant}
		if a.Disabled != nil {
			out[i].Disabled = a.Disabled(row, index)
		}
	}
	return out, nil
}

// ResolvedAction is a row action as shown for one row.
type ResolvedAction struct {
	Key      string
	Label    string
	Variant  string
	Disabled bool
}

// RowClassName returns the extra class of the row at index.
func (t *Table) RowClassName(index int) string {
	fn := t.opts.GetRowClassName
	if fn == nil {
		return ""
	}
	t.mu.Lock()
	row, err := t.pageRowLocked(index)
	t.mu.Unlock()
	if err != nil {
		return ""
	}
	return fn(row, index)
}

// invokeRow calls fn for the page row at index after releasing the lock.
func (t *Table) invokeRow(index int, fn func(schema.Document, int)) error {
	t.mu.Lock()
	row, err := t.pageRowLocked(index)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	if fn != nil {
		fn(row, index)
	}
	return nil
}
