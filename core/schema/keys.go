package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RowKeyFunc derives the identity of a row. Selection and editing compare rows
// by this key only. The index is the row's position on the current page, or -1
// when the row is not on the page.
type RowKeyFunc func(row Document, index int) string

// rowNamespace scopes content keys so they never collide with other UUIDv5 users.
var rowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:go-datatable:row"))

// ContentKey derives a stable key from the row's content: a UUIDv5 over its
// canonical JSON form. Rows with identical content share a key.
func ContentKey(row Document, _ int) string {
	data, err := json.Marshal(row)
	if err != nil {
		data = []byte(fallbackCanonical(row))
	}
	return uuid.NewSHA1(rowNamespace, data).String()
}

// IndexKey keys rows by their position on the current page. Keys shift when the
// page changes, so it only suits static single-page tables.
func IndexKey(_ Document, index int) string {
	return strconv.Itoa(index)
}

// FieldKey keys rows by the value of a single field, falling back to the
// content key when the field is missing or nil.
func FieldKey(field string) RowKeyFunc {
	return func(row Document, index int) string {
		v, ok := row[field]
		if !ok || v == nil {
			return ContentKey(row, index)
		}
		return fmt.Sprint(v)
	}
}

// fallbackCanonical renders values encoding/json rejects, with keys sorted.
func fallbackCanonical(row Document) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sortStrings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%#v;", k, row[k])
	}
	return b.String()
}
