package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_CloneAndMerge(t *testing.T) {
	orig := Document{"name": "Alice", "age": 30}

	clone := orig.Clone()
	clone["name"] = "Bob"
	assert.Equal(t, "Alice", orig["name"])

	merged := orig.Merge(Document{"age": 31, "city": "Nairobi"})
	assert.Equal(t, Document{"name": "Alice", "age": 31, "city": "Nairobi"}, merged)
	assert.Equal(t, 30, orig["age"])

	var empty Document
	assert.Nil(t, empty.Clone())
	assert.Equal(t, Document{"a": 1}, empty.Merge(Document{"a": 1}))
}

func TestColumnType(t *testing.T) {
	assert.True(t, ColumnTypeEmail.IsValid())
	assert.False(t, ColumnType("currency").IsValid())
	assert.Equal(t, ColumnTypeText, ColumnType("").Normalize())
	assert.Equal(t, ColumnTypeDate, ColumnTypeDate.Normalize())
}

func TestColumnHelpers(t *testing.T) {
	cols := []Column{
		{Key: "id", Header: "ID", Hidden: true},
		{Key: "name", Header: "Name"},
		{Key: "status", Header: "Status", Type: ColumnTypeSelect, Options: []SelectOption{
			{Label: "Active", Value: "active"},
			{Label: "Archived", Value: "archived", Disabled: true},
		}},
	}

	t.Run("visible columns keep order", func(t *testing.T) {
		assert.Equal(t, []string{"name", "status"}, ColumnKeys(VisibleColumns(cols)))
	})

	t.Run("find column", func(t *testing.T) {
		c, ok := FindColumn(cols, "status")
		require.True(t, ok)
		assert.Equal(t, "Status", c.Header)
		_, ok = FindColumn(cols, "missing")
		assert.False(t, ok)
	})

	t.Run("disabled options are not valid", func(t *testing.T) {
		c, _ := FindColumn(cols, "status")
		assert.True(t, c.HasOption("active"))
		assert.False(t, c.HasOption("archived"))
		assert.False(t, c.HasOption("deleted"))
	})
}

func TestValidateColumns(t *testing.T) {
	assert.NoError(t, ValidateColumns([]Column{{Key: "a"}, {Key: "b", Type: ColumnTypeNumber}}))
	assert.Error(t, ValidateColumns([]Column{{Key: " "}}))
	assert.Error(t, ValidateColumns([]Column{{Key: "a"}, {Key: "a"}}))
	assert.Error(t, ValidateColumns([]Column{{Key: "a", Type: "money"}}))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{"name": "Name is required", "age": "Age must be a number"}
	assert.Equal(t, []string{"age", "name"}, fe.Fields())
	assert.Equal(t, "validation failed: age: Age must be a number; name: Name is required", fe.Error())

	folded := FieldErrorsFromIssues([]Issue{
		{Code: "A", Message: "first", Path: "x"},
		{Code: "B", Message: "second", Path: "x"},
		{Code: "C", Message: "other", Path: "y"},
	})
	assert.Equal(t, FieldErrors{"x": "first", "y": "other"}, folded)
}
