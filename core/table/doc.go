// Package table coordinates the row pipeline of a data table with its selection
// and editing managers.
//
// Rows flow through four stages in a fixed order: search, sort, filter and
// pagination. Each stage is uncontrolled by default and keeps its own state.
// Setting the stage's change callback in Options makes it controlled: the
// table hands every transition to the callback and the host pushes the
// accepted value back with the matching Set method.
//
//	t, err := table.New(columns, rows,
//		table.WithSearch(table.SearchOptions{}),
//		table.WithSorting(table.SortOptions{}),
//		table.WithPagination(table.PaginationOptions{PageSize: 10}),
//	)
//	if err != nil {
//		return err
//	}
//	defer t.Close()
//
//	t.SetSearchQuery("smith")
//	t.FlushSearch()
//	page := t.Rows()
//
// Derived state is memoized and recomputed only after rows, columns or a stage
// input change. Every transition is also published on the table's event bus;
// see Subscribe.
package table
