// Package text renders the current page of a table as a plain text grid.
package text

import (
	"fmt"
	"io"

	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Options configures the text renderer.
type Options struct {
	// ShowSelection prefixes every row with a selection marker when selection
	// is enabled.
	ShowSelection bool
	// ShowPageInfo writes the pagination summary as the footer.
	ShowPageInfo bool
	// Null is printed for nil cells.
	Null string
}

// DefaultOptions returns options that show selection and the page summary.
func DefaultOptions() Options {
	return Options{ShowSelection: true, ShowPageInfo: true}
}

// Render writes the current page of t to w.
func Render(w io.Writer, t *table.Table, opts Options) error {
	view := t.View()
	if len(view.Rows) == 0 {
		_, err := fmt.Fprintln(w, t.EmptyMessage())
		return err
	}

	selecting := opts.ShowSelection && t.Options().Selection.Enabled
	headers := make([]string, 0, len(view.Columns)+1)
	aligns := make([]tw.Align, 0, len(view.Columns)+1)
	if selecting {
		headers = append(headers, "")
		aligns = append(aligns, tw.AlignCenter)
	}
	for _, col := range view.Columns {
		headers = append(headers, headerText(t, col))
		aligns = append(aligns, alignOf(col))
	}

	tbl := tablewriter.NewTable(w,
		tablewriter.WithHeader(headers),
		tablewriter.WithRowAlignmentConfig(tw.CellAlignment{PerColumn: aligns}),
	)
	for i, row := range view.Rows {
		cells := make([]string, 0, len(headers))
		if selecting {
			cells = append(cells, marker(t.IsRowSelected(i)))
		}
		for _, col := range view.Columns {
			cells = append(cells, cellText(row[col.Key], opts.Null))
		}
		if err := tbl.Append(cells); err != nil {
			return fmt.Errorf("failed to append row %d: %w", i, err)
		}
	}
	if opts.ShowPageInfo && t.Options().Pagination.Enabled {
		footer := make([]string, len(headers))
		footer[len(footer)-1] = view.PageInfo.Summary()
		tbl.Footer(footer)
	}
	if err := tbl.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func headerText(t *table.Table, col schema.Column) string {
	h := col.Header
	if h == "" {
		h = col.Key
	}
	if dir, ok := t.SortDirectionFor(col.Key); ok {
		if dir == query.SortDirectionAsc {
			return h + " ^"
		}
		return h + " v"
	}
	return h
}

func alignOf(col schema.Column) tw.Align {
	switch col.Align {
	case schema.AlignRight:
		return tw.AlignRight
	case schema.AlignCenter:
		return tw.AlignCenter
	case schema.AlignLeft:
		return tw.AlignLeft
	}
	if col.Type.Normalize() == schema.ColumnTypeNumber {
		return tw.AlignRight
	}
	return tw.AlignLeft
}

func cellText(v any, null string) string {
	if v == nil {
		return null
	}
	if b, ok := v.(bool); ok {
		if b {
			return "yes"
		}
		return "no"
	}
	return query.Stringify(v)
}

func marker(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}
