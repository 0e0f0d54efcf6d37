package table

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staff returns 50 rows. Rows 1-25 carry "Smith" in the name, rows 26-30 in
// the email only, and rows 31-50 not at all.
func staff() []schema.Document {
	rows := make([]schema.Document, 50)
	for i := range rows {
		id := i + 1
		name := fmt.Sprintf("Worker %02d", id)
		email := fmt.Sprintf("worker%02d@example.com", id)
		switch {
		case id <= 25 && id%2 == 0:
			name = fmt.Sprintf("Pat SMITH %02d", id)
		case id <= 25:
			name = fmt.Sprintf("Sam Smithson %02d", id)
		case id <= 30:
			email = fmt.Sprintf("w%02d@smithco.io", id)
		}
		rows[i] = schema.Document{"id": id, "name": name, "email": email, "salary": 1000 + id*10, "dept": "ops"}
	}
	return rows
}

func TestTable_EndToEnd(t *testing.T) {
	cols := []schema.Column{
		{Key: "id", Header: "ID", Type: schema.ColumnTypeNumber},
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "email", Header: "Email", Type: schema.ColumnTypeEmail},
		{Key: "salary", Header: "Salary", Type: schema.ColumnTypeNumber, Sortable: true},
		{Key: "dept", Header: "Dept"},
	}
	rows := staff()

	tbl, err := New(cols, rows,
		WithRowKey(schema.FieldKey("id")),
		WithSearch(SearchOptions{SearchableColumns: []string{"name", "email"}}),
		WithSorting(SortOptions{}),
		WithPagination(PaginationOptions{PageSize: 10}),
		WithSelection(SelectionOptions{
			IsRowSelectable: func(row schema.Document, _ int) bool { return row["id"] != 15 },
		}),
	)
	require.NoError(t, err)
	defer tbl.Close()

	tbl.SetSearchQuery("smith")
	tbl.FlushSearch()
	_, err = tbl.ToggleSort("salary")
	require.NoError(t, err)
	_, err = tbl.ToggleSort("salary")
	require.NoError(t, err)
	require.NoError(t, tbl.GoToPage(2))

	// Expected rows, derived independently of the pipeline.
	var want []schema.Document
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r["name"].(string)), "smith") ||
			strings.Contains(strings.ToLower(r["email"].(string)), "smith") {
			want = append(want, r)
		}
	}
	slices.SortFunc(want, func(a, b schema.Document) int { return b["salary"].(int) - a["salary"].(int) })

	v := tbl.View()
	require.Len(t, v.Searched, 30)
	assert.Equal(t, want, v.Sorted)
	assert.Equal(t, want[10:20], v.Rows)
	assert.Equal(t, []int{20, 19, 18, 17, 16, 15, 14, 13, 12, 11}, ids(v.Rows))
	assert.Equal(t, query.PageInfo{CurrentPage: 2, PageSize: 10, TotalItems: 30, TotalPages: 3, StartIndex: 11, EndIndex: 20}, v.PageInfo)

	require.NoError(t, tbl.SelectAll())
	selected := tbl.SelectedKeys()
	assert.Len(t, selected, 9, "row 15 is not selectable")
	assert.NotContains(t, selected, "15")
	for _, id := range []int{20, 19, 18, 17, 16, 14, 13, 12, 11} {
		assert.Contains(t, selected, fmt.Sprint(id))
	}
	assert.True(t, tbl.IsAllSelected())

	require.NoError(t, tbl.NextPage())
	assert.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, ids(tbl.Rows()))
	assert.False(t, tbl.IsAllSelected())
	assert.Len(t, tbl.SelectedKeys(), 9, "selection survives paging")
}
