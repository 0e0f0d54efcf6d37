// Package schema provides the Validator, which checks that an edited row
// conforms to the column types of the table. It reports detailed issues and can
// be extended with per-field predicate functions.
package schema

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FieldPredicate is a custom check for a single field. A non-empty return value
// is reported as an issue message for that field.
type FieldPredicate func(value any, row Document) string

// FunctionMap maps a column key to additional predicates run after the type check.
type FunctionMap map[string][]FieldPredicate

// DateLayouts are the layouts accepted for date columns holding strings.
var DateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

// Validator checks a row against a column set. It verifies type correctness,
// required fields and custom predicates, and can be reused across validations.
type Validator struct {
	columns  map[string]Column
	order    []string
	required map[string]struct{}
	fmap     FunctionMap
	issues   []Issue
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithRequired marks columns whose value must be present and non-blank.
func WithRequired(keys ...string) ValidatorOption {
	return func(v *Validator) {
		for _, k := range keys {
			v.required[k] = struct{}{}
		}
	}
}

// WithFunctions registers custom predicates per column.
func WithFunctions(fmap FunctionMap) ValidatorOption {
	return func(v *Validator) {
		for k, fns := range fmap {
			v.fmap[k] = append(v.fmap[k], fns...)
		}
	}
}

// NewValidator creates a new Validator for the given columns.
func NewValidator(columns []Column, opts ...ValidatorOption) *Validator {
	v := &Validator{
		columns:  make(map[string]Column, len(columns)),
		order:    make([]string, 0, len(columns)),
		required: make(map[string]struct{}),
		fmap:     make(FunctionMap),
		issues:   make([]Issue, 0),
	}
	for _, c := range columns {
		v.columns[c.Key] = c
		v.order = append(v.order, c.Key)
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks a row against the column set. It returns whether the row is
// valid and the issues found. With loose set, fields that are not columns are
// tolerated.
func (v *Validator) Validate(data Document, loose bool) (bool, []Issue) {
	v.issues = make([]Issue, 0)

	for _, key := range v.order {
		col := v.columns[key]
		value, exists := data[key]

		if _, req := v.required[key]; req && (!exists || isBlank(value)) {
			v.addIssue("REQUIRED_FIELD_MISSING", fmt.Sprintf("%s is required", headerOf(col)), key)
			continue
		}
		if !exists || isBlank(value) {
			continue
		}
		if !v.validateFieldType(value, col, key) {
			continue
		}
		for _, fn := range v.fmap[key] {
			if msg := fn(value, data); msg != "" {
				v.addIssue("CUSTOM_RULE", msg, key)
			}
		}
	}

	if !loose {
		for dataKey := range data {
			if _, exists := v.columns[dataKey]; !exists {
				v.addIssue("UNEXPECTED_FIELD", fmt.Sprintf("Unexpected field '%s' not defined in columns", dataKey), dataKey)
			}
		}
	}

	return len(v.issues) == 0, v.issues
}

// FieldErrors validates the draft loosely and folds the issues per field. Its
// signature matches the editing manager's Validate hook.
func (v *Validator) FieldErrors(draft Document) FieldErrors {
	_, issues := v.Validate(draft, true)
	return FieldErrorsFromIssues(issues)
}

// validateFieldType checks if a value matches the column type, accepting
// strings that coerce cleanly.
func (v *Validator) validateFieldType(value any, col Column, path string) bool {
	switch col.Type.Normalize() {
	case ColumnTypeNumber:
		if _, ok := coerceValue(value, ColumnTypeNumber); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("%s must be a number", headerOf(col)), path)
			return false
		}
	case ColumnTypeBoolean:
		if _, ok := coerceValue(value, ColumnTypeBoolean); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("%s must be true or false", headerOf(col)), path)
			return false
		}
	case ColumnTypeDate:
		if _, ok := coerceValue(value, ColumnTypeDate); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("%s must be a date", headerOf(col)), path)
			return false
		}
	case ColumnTypeEmail:
		str, ok := value.(string)
		if !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected string, got %T", value), path)
			return false
		}
		if addr, err := mail.ParseAddress(str); err != nil || addr.Address != str {
			v.addIssue("INVALID_EMAIL", fmt.Sprintf("%s must be a valid email address", headerOf(col)), path)
			return false
		}
	case ColumnTypeURL:
		str, ok := value.(string)
		if !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected string, got %T", value), path)
			return false
		}
		if u, err := url.ParseRequestURI(str); err != nil || u.Scheme == "" || u.Host == "" {
			v.addIssue("INVALID_URL", fmt.Sprintf("%s must be a valid URL", headerOf(col)), path)
			return false
		}
	case ColumnTypeSelect:
		if !col.HasOption(fmt.Sprint(value)) {
			v.addIssue("INVALID_OPTION", fmt.Sprintf("%s must be one of the listed options", headerOf(col)), path)
			return false
		}
	case ColumnTypeText:
		if _, ok := value.(string); !ok {
			v.addIssue("TYPE_MISMATCH", fmt.Sprintf("Expected string, got %T", value), path)
			return false
		}
	}
	return true
}

// addIssue adds a new validation issue to the validator's list of issues.
func (v *Validator) addIssue(code, message, path string) {
	v.issues = append(v.issues, Issue{
		Code:     code,
		Message:  message,
		Path:     path,
		Severity: "error",
	})
}

// coerceValue attempts to convert a value to the Go type of the column type.
func coerceValue(value any, t ColumnType) (any, bool) {
	switch t {
	case ColumnTypeNumber:
		if isNumericType(value) {
			return value, true
		}
		if str, ok := value.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
				return f, true
			}
		}
	case ColumnTypeBoolean:
		switch val := value.(type) {
		case bool:
			return val, true
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "true", "on", "yes", "1":
				return true, true
			case "false", "off", "no", "0":
				return false, true
			}
		}
	case ColumnTypeDate:
		switch val := value.(type) {
		case time.Time:
			return val, true
		case string:
			for _, layout := range DateLayouts {
				if ts, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
					return ts, true
				}
			}
		}
	default:
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return value, false
}

// isNumericType checks if a value is a numeric type.
func isNumericType(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return strings.TrimSpace(str) == ""
	}
	rv := reflect.ValueOf(value)
	return (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.Len() == 0
}

func headerOf(c Column) string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}
