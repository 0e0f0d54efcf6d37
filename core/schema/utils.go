package schema

import "slices"

// ColumnKeys returns the keys of the given columns in order.
func ColumnKeys(columns []Column) []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.Key
	}
	return keys
}

func sortStrings(s []string) {
	slices.Sort(s)
}
