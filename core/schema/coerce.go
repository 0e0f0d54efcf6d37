package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// EditorKind identifies the input widget used to edit a cell.
type EditorKind string

const (
	EditorTextInput EditorKind = "input"
	EditorToggle    EditorKind = "toggle"
	EditorDropdown  EditorKind = "dropdown"
)

// Editor describes the widget bound to an editable column.
type Editor struct {
	Kind EditorKind
	// InputType is the HTML input type for text inputs.
	InputType string
	Options   []SelectOption
}

// EditorFor picks the editing widget for a column: a toggle for booleans, a
// dropdown bound to the options for selects, and a typed text input otherwise.
func EditorFor(c Column) Editor {
	switch c.Type.Normalize() {
	case ColumnTypeBoolean:
		return Editor{Kind: EditorToggle}
	case ColumnTypeSelect:
		return Editor{Kind: EditorDropdown, Options: c.Options}
	case ColumnTypeNumber:
		return Editor{Kind: EditorTextInput, InputType: "number"}
	case ColumnTypeDate:
		return Editor{Kind: EditorTextInput, InputType: "date"}
	case ColumnTypeEmail:
		return Editor{Kind: EditorTextInput, InputType: "email"}
	case ColumnTypeURL:
		return Editor{Kind: EditorTextInput, InputType: "url"}
	default:
		return Editor{Kind: EditorTextInput, InputType: "text"}
	}
}

// CoerceInput converts raw widget input into the value stored in a draft.
// Text-like columns keep the string. Number columns parse to float64 and store
// "" for blank input. Boolean columns parse a toggle state. Select columns
// require one of the enabled options.
func CoerceInput(c Column, raw string) (any, error) {
	switch c.Type.Normalize() {
	case ColumnTypeNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: parse number %q: %w", c.Key, raw, err)
		}
		return f, nil
	case ColumnTypeBoolean:
		v, ok := coerceValue(raw, ColumnTypeBoolean)
		if !ok {
			return nil, fmt.Errorf("column %q: parse toggle %q", c.Key, raw)
		}
		return v, nil
	case ColumnTypeSelect:
		if !c.HasOption(raw) {
			return nil, fmt.Errorf("column %q: %q: %w", c.Key, raw, ErrInvalidOption)
		}
		return raw, nil
	default:
		return raw, nil
	}
}
