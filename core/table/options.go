package table

import (
	"time"

	"github.com/a-h/templ"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	// DefaultDebounce is the quiet period before a typed query is applied.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultPageSize is the page size used when none is configured.
	DefaultPageSize = 10
	// DefaultVisiblePages is the width of the page number window.
	DefaultVisiblePages = 5
	// DefaultMaxColumnFilters caps the per-column filter inputs.
	DefaultMaxColumnFilters = 2
	// DefaultVirtualRowHeight is the row height assumed by virtual scrolling.
	DefaultVirtualRowHeight = 48
)

// DefaultPageSizeOptions are the page sizes offered by the page size selector.
var DefaultPageSizeOptions = []int{10, 25, 50, 100}

// SelectionMode is the selection cardinality.
type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// SearchOptions configures the search stage.
type SearchOptions struct {
	Enabled bool
	// Query is the initial query.
	Query string
	// Debounce is the quiet period before the query applies. Zero means
	// DefaultDebounce and a negative value applies queries synchronously.
	Debounce      time.Duration
	CaseSensitive bool
	// SearchableColumns restricts the searched columns. Empty means every
	// visible column.
	SearchableColumns []string
	Placeholder       string
	// OnSearch receives each newly settled query. When set, rows are not
	// searched locally.
	OnSearch func(query string)
}

// SortOptions configures the sort stage.
type SortOptions struct {
	Enabled     bool
	DefaultSort *query.SortConfiguration
	// Locale drives text collation. The zero tag collates as English.
	Locale language.Tag
	// OnSort receives the next sort configuration. When set, the table neither
	// stores it nor reorders rows.
	OnSort func(config query.SortConfiguration)
}

// FilterOptions configures the filter stage.
type FilterOptions struct {
	Enabled bool
	Filters query.Filters
	// FilterOptions offers fixed choices for a column's filter input.
	FilterOptions     map[string][]schema.SelectOption
	ShowColumnFilters bool
	MaxColumnFilters  int
	// OnFilterChange receives every filter change. When set, rows are not
	// filtered locally.
	OnFilterChange func(filters query.Filters)
}

// PaginationOptions configures the pagination stage. Setting either callback
// makes pagination controlled.
type PaginationOptions struct {
	Enabled     bool
	CurrentPage int
	PageSize    int
	// TotalItems overrides the filtered row count, for server-side totals.
	TotalItems           int
	PageSizeOptions      []int
	ShowPageSizeSelector bool
	ShowPaginationInfo   bool
	MaxVisiblePages      int
	OnPageChange         func(page int)
	OnPageSizeChange     func(size int)
}

// SelectionOptions configures the selection manager.
type SelectionOptions struct {
	Enabled bool
	// SelectedRows is the initial selection.
	SelectedRows    []schema.Document
	Mode            SelectionMode
	ShowSelectAll   bool
	IsRowSelectable func(row schema.Document, index int) bool
	// GetRowKey overrides the table-level row key for selection.
	GetRowKey schema.RowKeyFunc
	// OnSelectionChange receives the next selection. When set, the host owns
	// the selection and pushes it back with SetSelectedRows.
	OnSelectionChange func(rows []schema.Document)
}

// EditingOptions configures the editing manager.
type EditingOptions struct {
	Enabled     bool
	ShowActions bool
	// Validate returns per-field errors for a draft. An empty result allows the
	// save. schema.Validator.FieldErrors satisfies it.
	Validate func(draft schema.Document) schema.FieldErrors
	// OnRowUpdate receives the committed draft. Without it SaveEdit returns
	// ErrNoRowUpdate.
	OnRowUpdate  func(row schema.Document, index int)
	OnEditStart  func(row schema.Document, index int)
	OnEditCancel func(draft schema.Document, index int)
}

// LoadingOptions configures the loading state.
type LoadingOptions struct {
	IsLoading      bool
	LoadingMessage string
	SpinnerType    string // default, dots or bars
}

// EmptyAction is the call to action shown in the empty state.
type EmptyAction struct {
	Label   string
	OnClick func()
}

// EmptyStateOptions overrides the empty state content.
type EmptyStateOptions struct {
	Message string
	Action  *EmptyAction
}

// RowAction is a per-row command shown in the actions cell.
type RowAction struct {
	Key      string
	Label    string
	OnClick  func(row schema.Document, index int)
	Disabled func(row schema.Document, index int) bool
	Variant  string // default, destructive or secondary
}

// AccessibilityOptions carries ARIA labelling for renderers.
type AccessibilityOptions struct {
	AriaLabel       string
	AriaDescription string
	AriaLiveRegion  string // polite or assertive
}

// LayoutOptions are presentation flags passed through to renderers.
type LayoutOptions struct {
	Compact    bool
	Bordered   bool
	Hoverable  bool
	Striped    bool
	Size       string // sm, md or lg
	Responsive bool
	MaxHeight  string
	ClassName  string
}

// Options configures a Table.
type Options struct {
	// Name identifies the table in logs and events.
	Name string

	Search     SearchOptions
	Sorting    SortOptions
	Filtering  FilterOptions
	Pagination PaginationOptions
	Selection  SelectionOptions
	Editing    EditingOptions

	Loading       LoadingOptions
	EmptyState    EmptyStateOptions
	RowActions    []RowAction
	Accessibility AccessibilityOptions
	Layout        LayoutOptions

	// GetRowKey derives row identity. Nil means schema.ContentKey.
	GetRowKey       schema.RowKeyFunc
	GetRowClassName func(row schema.Document, index int) string

	OnRowClick       func(row schema.Document, index int)
	OnRowDoubleClick func(row schema.Document, index int)

	RowRenderer     func(row schema.Document, index int, columns []schema.Column) templ.Component
	EmptyRenderer   func() templ.Component
	LoadingRenderer func() templ.Component

	// Virtual is accepted for configuration compatibility; rows are always
	// fully rendered.
	Virtual          bool
	VirtualRowHeight int

	// Processor evaluates the view query. Nil means a query.DataProcessor.
	Processor query.RowProcessor
	Logger    *zap.Logger
}

// DefaultOptions returns options with every feature disabled and the standard
// defaults filled in.
func DefaultOptions() Options {
	return Options{
		Name:       "table",
		Search:     SearchOptions{Debounce: DefaultDebounce},
		Sorting:    SortOptions{Locale: language.English},
		Filtering:  FilterOptions{MaxColumnFilters: DefaultMaxColumnFilters},
		Pagination: PaginationOptions{CurrentPage: 1, PageSize: DefaultPageSize, PageSizeOptions: DefaultPageSizeOptions, MaxVisiblePages: DefaultVisiblePages},
		Selection:  SelectionOptions{Mode: SelectionMultiple, ShowSelectAll: true},
		Layout:     LayoutOptions{Hoverable: true, Size: "md", Responsive: true},

		VirtualRowHeight: DefaultVirtualRowHeight,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithName sets the table name.
func WithName(name string) Option { return func(o *Options) { o.Name = name } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithSearch enables and configures search.
func WithSearch(s SearchOptions) Option {
	return func(o *Options) {
		s.Enabled = true
		o.Search = s
	}
}

// WithSorting enables and configures sorting.
func WithSorting(s SortOptions) Option {
	return func(o *Options) {
		s.Enabled = true
		o.Sorting = s
	}
}

// WithFiltering enables and configures filtering.
func WithFiltering(f FilterOptions) Option {
	return func(o *Options) {
		f.Enabled = true
		o.Filtering = f
	}
}

// WithPagination enables and configures pagination.
func WithPagination(p PaginationOptions) Option {
	return func(o *Options) {
		p.Enabled = true
		o.Pagination = p
	}
}

// WithSelection enables and configures selection.
func WithSelection(s SelectionOptions) Option {
	return func(o *Options) {
		s.Enabled = true
		o.Selection = s
	}
}

// WithEditing enables and configures editing.
func WithEditing(e EditingOptions) Option {
	return func(o *Options) {
		e.Enabled = true
		o.Editing = e
	}
}

// WithRowKey sets the row key function.
func WithRowKey(fn schema.RowKeyFunc) Option { return func(o *Options) { o.GetRowKey = fn } }

// WithRowActions sets the per-row actions.
func WithRowActions(actions ...RowAction) Option {
	return func(o *Options) { o.RowActions = actions }
}

// WithLoading sets the loading state.
func WithLoading(l LoadingOptions) Option { return func(o *Options) { o.Loading = l } }

// WithEmptyState overrides the empty state content.
func WithEmptyState(e EmptyStateOptions) Option { return func(o *Options) { o.EmptyState = e } }

// WithProcessor replaces the row processor.
func WithProcessor(p query.RowProcessor) Option { return func(o *Options) { o.Processor = p } }

// normalize fills zero values with defaults.
func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Name == "" {
		o.Name = "table"
	}
	if o.Search.Debounce == 0 {
		o.Search.Debounce = DefaultDebounce
	}
	if o.Pagination.CurrentPage < 1 {
		o.Pagination.CurrentPage = 1
	}
	if o.Pagination.PageSize < 1 {
		o.Pagination.PageSize = DefaultPageSize
	}
	if len(o.Pagination.PageSizeOptions) == 0 {
		o.Pagination.PageSizeOptions = DefaultPageSizeOptions
	}
	if o.Pagination.MaxVisiblePages < 1 {
		o.Pagination.MaxVisiblePages = DefaultVisiblePages
	}
	if o.Filtering.MaxColumnFilters < 1 {
		o.Filtering.MaxColumnFilters = DefaultMaxColumnFilters
	}
	if o.Selection.Mode == "" {
		o.Selection.Mode = SelectionMultiple
	}
	if o.VirtualRowHeight < 1 {
		o.VirtualRowHeight = DefaultVirtualRowHeight
	}
}

func (o *Options) rowKey() schema.RowKeyFunc {
	switch {
	case o.Selection.GetRowKey != nil:
		return o.Selection.GetRowKey
	case o.GetRowKey != nil:
		return o.GetRowKey
	default:
		return schema.ContentKey
	}
}
