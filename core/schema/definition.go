// Package schema defines the row and column model shared by every part of the
// table: the Document row type, column metadata, validation results and the
// row-key functions used for identity.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

var (
	// ErrUnknownColumn is returned when a column key is not part of the column set.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidOption is returned when a select value is not one of the column options.
	ErrInvalidOption = errors.New("value is not a valid option")
)

// Document represents a single row. The table never mutates a Document it was
// given; edits operate on shallow copies.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns a shallow copy of d with the given fields overlaid.
func (d Document) Merge(fields Document) Document {
	out := d.Clone()
	if out == nil {
		out = make(Document, len(fields))
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// ColumnType describes how a column's values are interpreted and edited.
type ColumnType string

const (
	ColumnTypeText    ColumnType = "text"
	ColumnTypeNumber  ColumnType = "number"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeBoolean ColumnType = "boolean"
	ColumnTypeEmail   ColumnType = "email"
	ColumnTypeURL     ColumnType = "url"
	ColumnTypeSelect  ColumnType = "select"
)

// IsValid reports whether t is one of the known column types.
func (t ColumnType) IsValid() bool {
	switch t {
	case ColumnTypeText, ColumnTypeNumber, ColumnTypeDate, ColumnTypeBoolean,
		ColumnTypeEmail, ColumnTypeURL, ColumnTypeSelect:
		return true
	}
	return false
}

// Normalize maps the empty type to text.
func (t ColumnType) Normalize() ColumnType {
	if t == "" {
		return ColumnTypeText
	}
	return t
}

// Alignment is the horizontal alignment of a column's cells.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// SelectOption is one choice of a select column or a column filter dropdown.
type SelectOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// CellRenderer renders the value of a cell. The index is the row's position on
// the current page.
type CellRenderer func(value any, row Document, index int) templ.Component

// HeaderRenderer renders a column header.
type HeaderRenderer func(column Column) templ.Component

// Column describes one column of the table.
type Column struct {
	Key          string         `json:"key"`
	Header       string         `json:"header"`
	Sortable     bool           `json:"sortable,omitempty"`
	Editable     bool           `json:"editable,omitempty"`
	Type         ColumnType     `json:"type,omitempty"`
	Options      []SelectOption `json:"options,omitempty"`
	Render       CellRenderer   `json:"-"`
	HeaderRender HeaderRenderer `json:"-"`
	Align        Alignment      `json:"align,omitempty"`
	Width        string         `json:"width,omitempty"`
	MinWidth     string         `json:"minWidth,omitempty"`
	Hidden       bool           `json:"hidden,omitempty"`
	Resizable    bool           `json:"resizable,omitempty"`
	ClassName    string         `json:"className,omitempty"`
	Description  string         `json:"description,omitempty"`
}

// HasOption reports whether value is one of the column's enabled options.
func (c Column) HasOption(value string) bool {
	for _, opt := range c.Options {
		if opt.Value == value && !opt.Disabled {
			return true
		}
	}
	return false
}

// VisibleColumns returns the columns that are not hidden, preserving order.
func VisibleColumns(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// FindColumn looks up a column by key.
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// ValidateColumns checks a column set for empty or duplicate keys and unknown types.
func ValidateColumns(columns []Column) error {
	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("column %d: empty key", i)
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("column %q: duplicate key", c.Key)
		}
		seen[c.Key] = struct{}{}
		if c.Type != "" && !c.Type.IsValid() {
			return fmt.Errorf("column %q: unsupported type %q", c.Key, c.Type)
		}
	}
	return nil
}

// Issue describes a single validation problem.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// ValidationResult is the outcome of validating a document against a column set.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// FieldErrors maps a column key to a human readable message. An empty
// FieldErrors means the draft is valid.
type FieldErrors map[string]string

// Error implements error with the messages sorted by field.
func (fe FieldErrors) Error() string {
	keys := fe.Fields()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the field names with errors in sorted order.
func (fe FieldErrors) Fields() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

// FieldErrorsFromIssues folds issues into one message per field; the first
// issue for a path wins.
func FieldErrorsFromIssues(issues []Issue) FieldErrors {
	out := FieldErrors{}
	for _, is := range issues {
		if _, exists := out[is.Path]; !exists {
			out[is.Path] = is.Message
		}
	}
	return out
}
