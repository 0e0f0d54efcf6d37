package table

import (
	"fmt"
	"maps"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// EditingState is either Idle or Editing.
type EditingState interface {
	isEditingState()
}

// Idle means no row is in edit mode.
type Idle struct{}

// Editing holds the row in edit mode. Index is the page index the edit started
// at; Key identifies the row across data changes.
type Editing struct {
	Index  int
	Key    string
	Draft  schema.Document
	Errors schema.FieldErrors
}

func (Idle) isEditingState()    {}
func (Editing) isEditingState() {}

func (e *Editing) clone() Editing {
	return Editing{Index: e.Index, Key: e.Key, Draft: e.Draft.Clone(), Errors: maps.Clone(e.Errors)}
}

// StartEdit puts the row at index on the current page in edit mode with a
// fresh copy of the row as draft and no validation errors. Any pending draft
// is discarded without saving, including one for the same row.
func (t *Table) StartEdit(index int) error {
	t.mu.Lock()
	if !t.opts.Editing.Enabled {
		t.mu.Unlock()
		return ErrEditingDisabled
	}
	row, err := t.pageRowLocked(index)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	key := t.rowKey(row, index)

	var effs state.Effects
	if old := t.edit; old != nil && old.Key != key {
		effs.Add(t.emit(events.EditDiscard, old.Index, old.Draft.Clone()))
		t.logger.Debug("Edit discarded", zap.Int("index", old.Index))
	}
	t.edit = &Editing{Index: index, Key: key, Draft: row.Clone(), Errors: schema.FieldErrors{}}
	if fn := t.opts.Editing.OnEditStart; fn != nil {
		effs.Add(func() { fn(row, index) })
	}
	effs.Add(t.emit(events.EditStart, index, row))
	t.logger.Debug("Edit started", zap.Int("index", index), zap.String("key", key))
	t.mu.Unlock()

	effs.Run()
	return nil
}

// CancelEdit discards the draft.
func (t *Table) CancelEdit() error {
	t.mu.Lock()
	if t.edit == nil {
		t.mu.Unlock()
		return ErrNotEditing
	}
	old := t.edit
	t.edit = nil

	var effs state.Effects
	if fn := t.opts.Editing.OnEditCancel; fn != nil {
		effs.Add(func() { fn(old.Draft, old.Index) })
	}
	effs.Add(t.emit(events.EditCancel, old.Index, old.Draft.Clone()))
	t.logger.Debug("Edit cancelled", zap.Int("index", old.Index))
	t.mu.Unlock()

	effs.Run()
	return nil
}

// SaveEdit validates the draft and commits it through OnRowUpdate. Validation
// errors keep the row in edit mode and are returned as schema.FieldErrors.
// Without OnRowUpdate nothing can be committed: the row stays in edit mode and
// ErrNoRowUpdate is returned.
func (t *Table) SaveEdit() (schema.Document, error) {
	t.mu.Lock()
	if t.edit == nil {
		t.mu.Unlock()
		return nil, ErrNotEditing
	}
	if t.opts.Editing.OnRowUpdate == nil {
		t.mu.Unlock()
		return nil, ErrNoRowUpdate
	}

	var effs state.Effects
	if validate := t.opts.Editing.Validate; validate != nil {
		if errs := validate(t.edit.Draft.Clone()); len(errs) > 0 {
			t.edit.Errors = maps.Clone(errs)
			effs.Add(t.emitError(events.EditInvalid, t.edit.Index, errs))
			t.logger.Debug("Edit rejected", zap.Strings("fields", errs.Fields()))
			t.mu.Unlock()

			effs.Run()
			return nil, maps.Clone(errs)
		}
	}

	old := t.edit
	t.edit = nil
	committed := old.Draft.Clone()
	fn := t.opts.Editing.OnRowUpdate
	if next := t.rowKey(committed, old.Index); next != old.Key {
		if t.rekeyed == nil {
			t.rekeyed = make(map[string]string)
		}
		t.rekeyed[old.Key] = next
	}
	effs.Add(func() { fn(committed, old.Index) })
	effs.Add(t.emit(events.EditSave, old.Index, committed))
	t.logger.Debug("Edit saved", zap.Int("index", old.Index), zap.String("key", old.Key))
	t.mu.Unlock()

	effs.Run()
	return committed.Clone(), nil
}

// ChangeField sets a draft field and clears its error.
func (t *Table) ChangeField(key string, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return ErrNotEditing
	}
	if _, ok := schema.FindColumn(t.columns, key); !ok {
		return fmt.Errorf("change %q: %w", key, schema.ErrUnknownColumn)
	}
	t.setFieldLocked(key, value)
	return nil
}

// ChangeFieldInput coerces raw widget input by the column type and sets the
// draft field. Input that cannot be coerced is recorded as the field's error.
func (t *Table) ChangeFieldInput(key, raw string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return ErrNotEditing
	}
	col, ok := schema.FindColumn(t.columns, key)
	if !ok {
		return fmt.Errorf("change %q: %w", key, schema.ErrUnknownColumn)
	}
	value, err := schema.CoerceInput(col, raw)
	if err != nil {
		t.edit.Errors[key] = err.Error()
		return err
	}
	t.setFieldLocked(key, value)
	return nil
}

func (t *Table) setFieldLocked(key string, value any) {
	t.edit.Draft = t.edit.Draft.Merge(schema.Document{key: value})
	delete(t.edit.Errors, key)
}

// EditingState returns a copy of the editing state.
func (t *Table) EditingState() EditingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return Idle{}
	}
	return t.edit.clone()
}

// IsEditing reports whether a row is in edit mode.
func (t *Table) IsEditing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.edit != nil
}

// IsRowEditing reports whether the row at index on the current page is in
// edit mode.
func (t *Table) IsRowEditing(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return false
	}
	row, err := t.pageRowLocked(index)
	if err != nil {
		return false
	}
	return t.rowKey(row, index) == t.edit.Key
}

// Draft returns a copy of the draft, or nil when idle.
func (t *Table) Draft() schema.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return nil
	}
	return t.edit.Draft.Clone()
}

// ValidationErrors returns the errors of the last rejected save.
func (t *Table) ValidationErrors() schema.FieldErrors {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return schema.FieldErrors{}
	}
	return maps.Clone(t.edit.Errors)
}

// FieldError returns the error of one draft field.
func (t *Table) FieldError(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit == nil {
		return ""
	}
	return t.edit.Errors[key]
}
