package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/asaidimu/go-datatable/core/schema"
)

// RowsFromStructs converts a slice of structs into table rows.
//
// Each record is marshaled to JSON and decoded into a schema.Document, so the
// `json` tags of T name the row fields and `omitempty` drops zero fields.
// Numbers decode as float64. Nested objects and arrays are kept as their
// compact JSON text so that they display and search as plain strings.
//
// T must be a struct or a pointer to a struct; nil pointers are rejected.
//
// Example:
//
//	type Employee struct {
//		ID   int    `json:"id"`
//		Name string `json:"name"`
//	}
//	rows, err := RowsFromStructs([]Employee{{ID: 1, Name: "Alice"}})
//	// rows[0] is schema.Document{"id": 1.0, "name": "Alice"}
func RowsFromStructs[T any](records []T) ([]schema.Document, error) {
	rows := make([]schema.Document, 0, len(records))
	for i, record := range records {
		row, err := RowFromStruct(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowFromStruct converts a single struct into a table row. See RowsFromStructs.
func RowFromStruct[T any](record T) (schema.Document, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("RowFromStruct: failed to marshal record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("RowFromStruct: failed to unmarshal record: %w", err)
	}

	row := make(schema.Document, len(fields))
	for key, v := range fields {
		switch v.(type) {
		case map[string]any, []any:
			nested, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("RowFromStruct: failed to marshal field %q: %w", key, err)
			}
			row[key] = string(nested)
		default:
			row[key] = v
		}
	}
	return row, nil
}

// StructFromRow converts a row, typically a committed edit, back into T.
//
// Row values are matched to fields by their `json` tags. Fields holding JSON
// text produced by RowFromStruct are decoded back into their nested type.
// Returns the zero value of T and an error if row is nil, T is not a struct
// or a value does not fit its field.
func StructFromRow[T any](row schema.Document) (T, error) {
	var zero T
	if row == nil {
		return zero, fmt.Errorf("StructFromRow: row cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("StructFromRow: type parameter must be a struct type")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("StructFromRow: type parameter must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	kinds := jsonKinds(typ)
	fields := make(map[string]any, len(row))
	for key, v := range row {
		fields[key] = v
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") || !json.Valid([]byte(s)) {
			continue
		}
		switch kinds[key] {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
			fields[key] = json.RawMessage(s)
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("StructFromRow: failed to marshal row: %w", err)
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return zero, fmt.Errorf("StructFromRow: failed to unmarshal row: %w", err)
	}
	return result, nil
}

// jsonKinds maps the JSON names of typ's exported fields to their kinds, with
// pointers dereferenced.
func jsonKinds(typ reflect.Type) map[string]reflect.Kind {
	kinds := make(map[string]reflect.Kind, typ.NumField())
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		kinds[name] = ft.Kind()
	}
	return kinds
}
