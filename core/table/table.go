package table

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// Table coordinates the row pipeline and the selection and editing managers of
// one data table. All methods are safe for concurrent use. Host callbacks run
// after the table's lock is released, so they may call back into the table.
// Row key, row selectable and validate functions run under the lock and must
// not.
type Table struct {
	mu        sync.Mutex
	opts      Options
	logger    *zap.Logger
	bus       *events.Bus
	processor query.RowProcessor
	rowKey    schema.RowKeyFunc

	rows        []schema.Document
	columns     []schema.Column
	rowsVersion uint64
	colsVersion uint64

	searchQuery string
	debounced   *state.Slot[string]
	searchSeq   uint64
	searchTimer *time.Timer

	sort         *state.Slot[*query.SortConfiguration]
	filters      *state.Slot[query.Filters]
	page         *state.Slot[int]
	pageSize     *state.Slot[int]
	totalItems   int
	totalVersion uint64

	selection *state.Slot[[]SelectedRow]
	edit      *Editing
	// rekeyed maps the key of a saved row to the key of its committed draft
	// until the host pushes rows containing the new key.
	rekeyed map[string]string

	loading LoadingOptions

	cache    *View
	cacheSig signature
	closed   bool
}

// New creates a table over rows and columns. Neither slice is mutated.
func New(columns []schema.Column, rows []schema.Document, opts ...Option) (*Table, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	if err := schema.ValidateColumns(columns); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	if ds := o.Sorting.DefaultSort; ds != nil && (ds.Field == "" || !ds.Direction.IsValid()) {
		return nil, fmt.Errorf("invalid default sort %+v", *ds)
	}

	bus, err := events.NewBus(o.Name, o.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create table %q: %w", o.Name, err)
	}

	processor := o.Processor
	if processor == nil {
		processor = query.NewDataProcessor(query.NewComparator(o.Sorting.Locale), o.Logger)
	}

	t := &Table{
		opts:       o,
		logger:     o.Logger.With(zap.String("table", o.Name)),
		bus:        bus,
		processor:  processor,
		rowKey:     o.rowKey(),
		rows:       rows,
		columns:    columns,
		totalItems: o.Pagination.TotalItems,
		loading:    o.Loading,
	}

	t.searchQuery = o.Search.Query
	t.debounced = state.NewSlot(o.Search.Query, o.Search.OnSearch, state.Mirrored())
	t.sort = state.NewSlot(cloneSort(o.Sorting.DefaultSort), sortHandler(o.Sorting.OnSort))
	t.filters = state.NewSlot(o.Filtering.Filters.Clone(), filterHandler(o.Filtering.OnFilterChange), state.Mirrored())
	t.page = state.NewSlot(o.Pagination.CurrentPage, o.Pagination.OnPageChange)
	t.pageSize = state.NewSlot(o.Pagination.PageSize, o.Pagination.OnPageSizeChange)
	t.selection = state.NewSlot[[]SelectedRow](nil, selectionHandler(o.Selection.OnSelectionChange))
	if len(o.Selection.SelectedRows) > 0 {
		t.selection.Set(t.keyRowsLocked(o.Selection.SelectedRows))
	}

	t.logger.Debug("Table created",
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)),
		zap.Bool("paginationControlled", t.paginationControlled()))
	return t, nil
}

// WithOptions replaces every option at once.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.opts.Name
}

// Options returns the normalized options the table was created with.
func (t *Table) Options() Options {
	return t.opts
}

// SetRows replaces the row source. Uncontrolled selection keeps the rows whose
// keys still exist, and an edit whose row disappeared is discarded.
func (t *Table) SetRows(rows []schema.Document) {
	t.mu.Lock()
	t.rows = rows
	t.rowsVersion++
	effs := t.reconcileLocked()
	effs.Add(t.emit(events.RowsReplace, len(rows), nil))
	t.mu.Unlock()

	t.logger.Debug("Rows replaced", zap.Int("rows", len(rows)))
	effs.Run()
}

// SetColumns replaces the column set.
func (t *Table) SetColumns(columns []schema.Column) error {
	if err := schema.ValidateColumns(columns); err != nil {
		return fmt.Errorf("invalid columns: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns = columns
	t.colsVersion++
	return nil
}

// Data returns the row source.
func (t *Table) Data() []schema.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Columns returns every column, hidden ones included.
func (t *Table) Columns() []schema.Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.columns
}

// VisibleColumns returns the columns that are not hidden.
func (t *Table) VisibleColumns() []schema.Column {
	t.mu.Lock()
	defer t.mu.Unlock()
	return schema.VisibleColumns(t.columns)
}

// Rows returns the rows of the current page.
func (t *Table) Rows() []schema.Document {
	return t.View().Rows
}

// RowKey returns the key of the row at index on the current page.
func (t *Table) RowKey(index int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, err := t.pageRowLocked(index)
	if err != nil {
		return "", err
	}
	return t.rowKey(row, index), nil
}

// Subscribe registers cb for a table event and returns the subscription ID.
func (t *Table) Subscribe(event events.EventType, cb events.CallbackFunction) string {
	return t.bus.RegisterSubscription(events.RegisterSubscriptionOptions{Event: event, Callback: cb})
}

// Unsubscribe removes a subscription by ID.
func (t *Table) Unsubscribe(id string) {
	t.bus.UnregisterSubscription(id)
}

// Subscriptions lists the active subscriptions.
func (t *Table) Subscriptions() []events.SubscriptionInfo {
	return t.bus.Subscriptions()
}

// Close stops a pending search timer and drops every subscription. Later
// queries apply synchronously.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.closed = true
	if t.searchTimer != nil {
		t.searchTimer.Stop()
		t.searchTimer = nil
	}
	t.searchSeq++
	t.mu.Unlock()

	t.bus.UnregisterAll()
	t.logger.Debug("Table closed")
	return nil
}

// reconcileLocked drops selection entries and edits whose keys left the data.
// A selected row whose saved edit changed its key follows the new key.
func (t *Table) reconcileLocked() state.Effects {
	var effs state.Effects
	present := make(map[string]schema.Document, len(t.rows))
	for i, row := range t.rows {
		present[t.rowKey(row, i)] = row
	}

	if !t.selection.Controlled() {
		current := t.selection.Get()
		kept := make([]SelectedRow, 0, len(current))
		changed := false
		for _, sel := range current {
			if _, ok := present[sel.Key]; ok {
				kept = append(kept, sel)
				continue
			}
			changed = true
			if next, ok := t.rekeyed[sel.Key]; ok {
				if row, ok := present[next]; ok && indexOfKey(kept, next) < 0 {
					kept = append(kept, SelectedRow{Key: next, Row: row})
				}
			}
		}
		if changed {
			t.selection.Set(kept)
			t.logger.Debug("Selection reconciled", zap.Int("before", len(current)), zap.Int("after", len(kept)))
		}
	}
	for old, next := range t.rekeyed {
		_, oldPresent := present[old]
		_, nextPresent := present[next]
		if nextPresent || !oldPresent {
			delete(t.rekeyed, old)
		}
	}

	if t.edit != nil {
		if _, ok := present[t.edit.Key]; !ok {
			discarded := *t.edit
			t.edit = nil
			effs.Add(t.emit(events.EditDiscard, discarded.Index, discarded.Draft))
			t.logger.Debug("Edit discarded, row left the data", zap.String("key", discarded.Key))
		}
	}
	return effs
}

// emit defers a bus event until the lock is released.
func (t *Table) emit(eventType events.EventType, input, output any) state.Effect {
	return func() { t.bus.Emit(eventType, input, output) }
}

func (t *Table) emitError(eventType events.EventType, input any, err error) state.Effect {
	return func() { t.bus.EmitError(eventType, input, err) }
}

func (t *Table) pageRowLocked(index int) (schema.Document, error) {
	rows := t.viewLocked().Rows
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidRow, index, len(rows))
	}
	return rows[index], nil
}

func cloneSort(s *query.SortConfiguration) *query.SortConfiguration {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func sortHandler(fn func(query.SortConfiguration)) func(*query.SortConfiguration) {
	if fn == nil {
		return nil
	}
	return func(c *query.SortConfiguration) { fn(*c) }
}

func filterHandler(fn func(query.Filters)) func(query.Filters) {
	if fn == nil {
		return nil
	}
	return func(f query.Filters) { fn(f.Clone()) }
}

func selectionHandler(fn func([]schema.Document)) func([]SelectedRow) {
	if fn == nil {
		return nil
	}
	return func(sel []SelectedRow) { fn(rowsOf(sel)) }
}
