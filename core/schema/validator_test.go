package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validatorColumns() []Column {
	return []Column{
		{Key: "name", Header: "Name"},
		{Key: "age", Header: "Age", Type: ColumnTypeNumber},
		{Key: "active", Header: "Active", Type: ColumnTypeBoolean},
		{Key: "joined", Header: "Joined", Type: ColumnTypeDate},
		{Key: "email", Header: "Email", Type: ColumnTypeEmail},
		{Key: "site", Header: "Site", Type: ColumnTypeURL},
		{Key: "role", Header: "Role", Type: ColumnTypeSelect, Options: []SelectOption{
			{Label: "Admin", Value: "admin"},
			{Label: "User", Value: "user"},
		}},
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(validatorColumns())

	t.Run("valid row", func(t *testing.T) {
		ok, issues := v.Validate(Document{
			"name":   "Alice",
			"age":    30,
			"active": true,
			"joined": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			"email":  "alice@example.com",
			"site":   "https://example.com",
			"role":   "admin",
		}, false)
		assert.True(t, ok)
		assert.Empty(t, issues)
	})

	t.Run("coercible strings pass", func(t *testing.T) {
		ok, issues := v.Validate(Document{"age": "42.5", "active": "false", "joined": "2024-03-04"}, false)
		assert.True(t, ok, "%v", issues)
	})

	t.Run("blank values are skipped", func(t *testing.T) {
		ok, _ := v.Validate(Document{"age": "", "email": nil}, false)
		assert.True(t, ok)
	})

	t.Run("type mismatches", func(t *testing.T) {
		ok, issues := v.Validate(Document{
			"name":   42,
			"age":    "abc",
			"active": "maybe",
			"joined": "yesterday",
			"email":  "not-an-email",
			"site":   "example",
			"role":   "owner",
		}, false)
		assert.False(t, ok)
		codes := map[string]string{}
		for _, is := range issues {
			codes[is.Path] = is.Code
			assert.Equal(t, "error", is.Severity)
		}
		assert.Equal(t, map[string]string{
			"name":   "TYPE_MISMATCH",
			"age":    "TYPE_MISMATCH",
			"active": "TYPE_MISMATCH",
			"joined": "TYPE_MISMATCH",
			"email":  "INVALID_EMAIL",
			"site":   "INVALID_URL",
			"role":   "INVALID_OPTION",
		}, codes)
	})

	t.Run("unexpected fields only in strict mode", func(t *testing.T) {
		ok, issues := v.Validate(Document{"extra": 1}, false)
		assert.False(t, ok)
		assert.Equal(t, "UNEXPECTED_FIELD", issues[0].Code)

		ok, _ = v.Validate(Document{"extra": 1}, true)
		assert.True(t, ok)
	})
}

func TestValidator_RequiredAndFunctions(t *testing.T) {
	v := NewValidator(validatorColumns(),
		WithRequired("name"),
		WithFunctions(FunctionMap{
			"age": {func(value any, row Document) string {
				if f, _ := coerceValue(value, ColumnTypeNumber); f.(float64) < 18 {
					return "Age must be at least 18"
				}
				return ""
			}},
		}),
	)

	errs := v.FieldErrors(Document{"name": "  ", "age": "12"})
	assert.Equal(t, FieldErrors{
		"name": "Name is required",
		"age":  "Age must be at least 18",
	}, errs)

	assert.Empty(t, v.FieldErrors(Document{"name": "Bob", "age": "21", "extra": true}))
}

func TestValidator_Reusable(t *testing.T) {
	v := NewValidator(validatorColumns())
	ok, _ := v.Validate(Document{"age": "x"}, true)
	assert.False(t, ok)
	ok, issues := v.Validate(Document{"age": 3}, true)
	assert.True(t, ok)
	assert.Empty(t, issues)
	assert.True(t, strings.HasPrefix(FieldErrors{"a": "b"}.Error(), "validation failed"))
}
