package html

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns() []schema.Column {
	return []schema.Column{
		{Key: "name", Header: "Name", Sortable: true, Editable: true},
		{Key: "email", Header: "Email", Type: schema.ColumnTypeEmail},
		{Key: "site", Header: "Site", Type: schema.ColumnTypeURL},
		{Key: "salary", Header: "Salary", Type: schema.ColumnTypeNumber, Sortable: true, Editable: true},
		{Key: "active", Header: "Active", Type: schema.ColumnTypeBoolean, Editable: true},
		{Key: "role", Header: "Role", Type: schema.ColumnTypeSelect, Editable: true, Options: []schema.SelectOption{
			{Label: "Administrator", Value: "admin"},
			{Label: "Member", Value: "user"},
		}},
		{Key: "secret", Hidden: true},
	}
}

func rows() []schema.Document {
	return []schema.Document{
		{"name": "Alice", "email": "alice@example.com", "site": "https://alice.dev", "salary": 1234567, "active": true, "role": "admin", "secret": "s1"},
		{"name": "Bob <b>", "email": "", "site": "", "salary": nil, "active": false, "role": "user", "secret": "s2"},
		{"name": "Carol", "email": "carol@example.com", "site": "", "salary": 95.5, "active": true, "role": "user", "secret": "s3"},
	}
}

func newTable(t *testing.T, opts ...table.Option) *table.Table {
	t.Helper()
	base := []table.Option{table.WithRowKey(schema.FieldKey("name"))}
	tbl, err := table.New(columns(), rows(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestTable(t *testing.T) {
	t.Run("cells by column type", func(t *testing.T) {
		out := render(t, Table(newTable(t), DefaultOptions()))

		assert.Contains(t, out, `role="grid"`)
		assert.Contains(t, out, `href="mailto:alice@example.com"`)
		assert.Contains(t, out, `target="_blank" rel="noopener noreferrer"`)
		assert.Contains(t, out, "1,234,567")
		assert.Contains(t, out, "95.5")
		assert.Contains(t, out, "Yes")
		assert.Contains(t, out, "No")
		assert.Contains(t, out, "Administrator")
		assert.Contains(t, out, "Member")
		assert.Contains(t, out, "Bob &lt;b&gt;")
		assert.NotContains(t, out, "Bob <b>")
		assert.NotContains(t, out, "s1", "hidden columns are not rendered")
		assert.Equal(t, 3, strings.Count(out, `<tr class="dt-row`))
	})

	t.Run("layout classes", func(t *testing.T) {
		tbl := newTable(t, func(o *table.Options) {
			o.Layout = table.LayoutOptions{Striped: true, Size: "sm", ClassName: "people", MaxHeight: "400px"}
		})
		out := render(t, Table(tbl, Options{Prefix: "grid"}))
		assert.Contains(t, out, `class="grid grid-striped grid-sm people"`)
		assert.Contains(t, out, `style="max-height:400px;overflow:auto"`)
	})

	t.Run("sort state", func(t *testing.T) {
		tbl := newTable(t, table.WithSorting(table.SortOptions{}))
		_, err := tbl.ToggleSort("name")
		require.NoError(t, err)

		out := render(t, Header(tbl, DefaultOptions()))
		assert.Contains(t, out, `data-key="name" aria-sort="ascending"`)
		assert.Contains(t, out, `data-key="salary" aria-sort="none"`)
		assert.Contains(t, out, "▲")
	})

	t.Run("selection", func(t *testing.T) {
		tbl := newTable(t, table.WithSelection(table.SelectionOptions{
			ShowSelectAll:   true,
			IsRowSelectable: func(row schema.Document, _ int) bool { return row["name"] != "Carol" },
		}))
		require.NoError(t, tbl.SelectRow(0))

		out := render(t, Table(tbl, DefaultOptions()))
		assert.Contains(t, out, `aria-checked="mixed"`)
		assert.Contains(t, out, `aria-selected="true"`)
		assert.Equal(t, 2, strings.Count(out, `aria-selected="false"`))
		assert.Contains(t, out, `aria-label="Select row 3" disabled`)
		assert.Contains(t, out, "1 selected")
	})

	t.Run("row renderer override", func(t *testing.T) {
		tbl := newTable(t, func(o *table.Options) {
			o.RowRenderer = func(row schema.Document, _ int, _ []schema.Column) templ.Component {
				return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
					_, err := io.WriteString(w, "<tr><td>custom "+templ.EscapeString(row["name"].(string))+"</td></tr>")
					return err
				})
			}
		})
		out := render(t, Table(tbl, DefaultOptions()))
		assert.Contains(t, out, "custom Alice")
		assert.Equal(t, 3, strings.Count(out, "custom "))
	})

	t.Run("loading short circuits", func(t *testing.T) {
		tbl := newTable(t, table.WithLoading(table.LoadingOptions{IsLoading: true, SpinnerType: "dots"}))
		out := render(t, Table(tbl, DefaultOptions()))
		assert.Contains(t, out, `data-spinner="dots"`)
		assert.Contains(t, out, "Loading...")
		assert.NotContains(t, out, "<table")
	})
}

func TestEditing(t *testing.T) {
	tbl := newTable(t, table.WithEditing(table.EditingOptions{
		ShowActions: true,
		OnRowUpdate: func(schema.Document, int) {},
		Validate: func(d schema.Document) schema.FieldErrors {
			if d["name"] == "" {
				return schema.FieldErrors{"name": "Name is required"}
			}
			return nil
		},
	}))

	out := render(t, Row(tbl, 0, DefaultOptions()))
	assert.Contains(t, out, `data-action="edit"`)
	assert.NotContains(t, out, "<input")

	require.NoError(t, tbl.StartEdit(0))
	require.NoError(t, tbl.ChangeField("name", ""))
	_, err := tbl.SaveEdit()
	require.Error(t, err)

	out = render(t, Row(tbl, 0, DefaultOptions()))
	assert.Contains(t, out, `type="text" name="name"`)
	assert.Contains(t, out, `type="number" name="salary"`)
	assert.Contains(t, out, `type="checkbox" name="active"`)
	assert.Contains(t, out, `<option value="admin" selected>Administrator</option>`)
	assert.Contains(t, out, `aria-invalid="true" aria-describedby="name-error"`)
	assert.Contains(t, out, `<div role="alert" id="name-error"`)
	assert.Contains(t, out, "Name is required")
	assert.Contains(t, out, `data-action="save"`)
	assert.Contains(t, out, `data-action="cancel"`)
	assert.Contains(t, out, `href="mailto:alice@example.com"`, "read-only cells stay formatted")

	other := render(t, Row(tbl, 1, DefaultOptions()))
	assert.Contains(t, other, `data-action="edit" data-index="1" disabled`)

	err = Row(tbl, 9, DefaultOptions()).Render(context.Background(), io.Discard)
	assert.ErrorIs(t, err, table.ErrInvalidRow)
}

func TestRowActions(t *testing.T) {
	tbl := newTable(t, table.WithRowActions(
		table.RowAction{Key: "archive", Label: "Archive", OnClick: func(schema.Document, int) {}},
		table.RowAction{
			Key: "delete", Label: "Delete", Variant: "destructive",
			OnClick:  func(schema.Document, int) {},
			Disabled: func(row schema.Document, _ int) bool { return row["role"] == "admin" },
		},
	))

	out := render(t, Row(tbl, 0, DefaultOptions()))
	assert.Contains(t, out, `class="dt-button dt-button-default" data-action="archive"`)
	assert.Contains(t, out, `class="dt-button dt-button-destructive" data-action="delete" data-index="0" disabled`)

	out = render(t, Row(tbl, 1, DefaultOptions()))
	assert.NotContains(t, out, "disabled")
}

func TestToolbar(t *testing.T) {
	tbl := newTable(t,
		table.WithSearch(table.SearchOptions{Debounce: -1, Placeholder: "Find people"}),
		table.WithFiltering(table.FilterOptions{
			MaxColumnFilters: 2,
			FilterOptions: map[string][]schema.SelectOption{
				"email": {{Label: "Example", Value: "example.com"}},
			},
		}),
	)
	tbl.SetSearchQuery("car")
	tbl.SetFilter("email", "example.com")

	out := render(t, Toolbar(tbl, DefaultOptions()))
	assert.Contains(t, out, `placeholder="Find people" value="car"`)
	assert.Contains(t, out, `name="filter-name"`)
	assert.Contains(t, out, `<option value="example.com" selected>Example</option>`)
	assert.Contains(t, out, `data-action="clear-filters"`)
	assert.Contains(t, out, "1 items")
}

func TestPagination(t *testing.T) {
	data := make([]schema.Document, 0, 45)
	for i := range 45 {
		data = append(data, schema.Document{"n": i + 1})
	}
	tbl, err := table.New([]schema.Column{{Key: "n", Type: schema.ColumnTypeNumber}}, data,
		table.WithRowKey(schema.FieldKey("n")),
		table.WithPagination(table.PaginationOptions{PageSize: 10, ShowPaginationInfo: true, ShowPageSizeSelector: true}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })

	out := render(t, Pagination(tbl, DefaultOptions()))
	assert.Contains(t, out, "Showing 1 to 10 of 45 entries")
	assert.Contains(t, out, `data-action="first" data-page="1" aria-label="Go to first page" disabled`)
	assert.Contains(t, out, `data-page="1" aria-label="Go to page 1" aria-current="page"`)
	assert.Contains(t, out, `<option value="10" selected>10</option>`)
	assert.NotContains(t, out, `aria-label="Go to last page" disabled`)

	require.NoError(t, tbl.LastPage())
	out = render(t, Pagination(tbl, DefaultOptions()))
	assert.Contains(t, out, "Showing 41 to 45 of 45 entries")
	assert.Contains(t, out, `aria-label="Go to last page" disabled`)
	assert.Contains(t, out, `data-page="5" aria-label="Go to page 5" aria-current="page"`)
}

func TestEmptyState(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		tbl := newTable(t, table.WithSearch(table.SearchOptions{Query: "zzz"}))
		out := render(t, Table(tbl, DefaultOptions()))
		assert.Contains(t, out, `data-kind="no-results"`)
		assert.Contains(t, out, "No results found")
		assert.Contains(t, out, `colspan="6"`)
	})

	t.Run("message and action", func(t *testing.T) {
		tbl, err := table.New(columns(), nil, table.WithEmptyState(table.EmptyStateOptions{
			Message: "Nobody here",
			Action:  &table.EmptyAction{Label: "Invite"},
		}))
		require.NoError(t, err)
		t.Cleanup(func() { _ = tbl.Close() })

		out := render(t, EmptyState(tbl, DefaultOptions()))
		assert.Contains(t, out, `data-kind="no-data"`)
		assert.Contains(t, out, "Nobody here")
		assert.Contains(t, out, "There are no items to display at the moment.")
		assert.Contains(t, out, ">Invite</button>")
	})
}

func TestPage(t *testing.T) {
	out := render(t, Page("People & Co", Table(newTable(t), DefaultOptions())))

	assert.True(t, strings.HasPrefix(strings.ToLower(out), "<!doctype html>"))
	assert.Contains(t, out, "<title>People &amp; Co</title>")
	assert.Contains(t, out, `<main class="dt-page"><h1>People &amp; Co</h1>`)
	assert.Contains(t, out, `role="grid"`)
	assert.True(t, strings.HasSuffix(out, "</main></body></html>"))
}
