// Package html renders a table as templ components. Every component reads the
// table's current state when it renders, so a component can be built once and
// rendered after each transition.
package html

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options configures the HTML renderer.
type Options struct {
	// Prefix is prepended to every CSS class.
	Prefix         string
	ShowToolbar    bool
	ShowPagination bool
	// Locale formats numbers and dates.
	Locale language.Tag
}

// DefaultOptions returns options with the "dt" class prefix and every section
// shown.
func DefaultOptions() Options {
	return Options{Prefix: "dt", ShowToolbar: true, ShowPagination: true, Locale: language.English}
}

type renderer struct {
	t       *table.Table
	opts    Options
	printer *message.Printer
}

func newRenderer(t *table.Table, opts Options) *renderer {
	if opts.Prefix == "" {
		opts.Prefix = "dt"
	}
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	return &renderer{t: t, opts: opts, printer: message.NewPrinter(opts.Locale)}
}

func (r *renderer) class(name string) string {
	return r.opts.Prefix + "-" + name
}

// Table renders the whole table: toolbar, grid and pagination.
func Table(t *table.Table, opts Options) templ.Component {
	r := newRenderer(t, opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.table(ctx, w)
	})
}

func (r *renderer) table(ctx context.Context, out io.Writer) error {
	o := r.t.Options()
	w := &writer{w: out}

	classes := templ.Classes(
		r.opts.Prefix,
		templ.KV(r.class("compact"), o.Layout.Compact),
		templ.KV(r.class("bordered"), o.Layout.Bordered),
		templ.KV(r.class("striped"), o.Layout.Striped),
		templ.KV(r.class("hoverable"), o.Layout.Hoverable),
		templ.KV(r.class("responsive"), o.Layout.Responsive),
		templ.KV(r.class(o.Layout.Size), o.Layout.Size != ""),
		templ.KV(o.Layout.ClassName, o.Layout.ClassName != ""),
	)
	w.raw("<div")
	w.attr("class", classes.String())
	if o.Layout.MaxHeight != "" {
		w.attr("style", "max-height:"+o.Layout.MaxHeight+";overflow:auto")
	}
	w.raw(">")

	if r.t.Loading().IsLoading {
		w.component(ctx, r.loading(o))
		w.raw("</div>")
		return w.err
	}

	if r.opts.ShowToolbar && r.t.Toolbar().Visible {
		w.component(ctx, r.toolbar())
	}

	view := r.t.View()
	w.raw("<table role=\"grid\"")
	if a := o.Accessibility.AriaLabel; a != "" {
		w.attr("aria-label", a)
	}
	if d := o.Accessibility.AriaDescription; d != "" {
		w.attr("aria-description", d)
	}
	w.attr("aria-rowcount", strconv.Itoa(view.TotalFilteredItems))
	w.raw("><thead>")
	w.component(ctx, r.header())
	w.raw("</thead><tbody>")
	if len(view.Rows) == 0 {
		w.component(ctx, r.empty(o, r.columnCount(len(view.Columns))))
	}
	for i, row := range view.Rows {
		if o.RowRenderer != nil {
			w.component(ctx, o.RowRenderer(row, i, view.Columns))
			continue
		}
		w.component(ctx, r.row(i, row))
	}
	w.raw("</tbody></table>")

	if r.opts.ShowPagination && o.Pagination.Enabled {
		w.component(ctx, r.pagination())
	}
	if live := o.Accessibility.AriaLiveRegion; live != "" {
		w.raw("<div class=\"" + r.class("sr-only") + "\"")
		w.attr("aria-live", live)
		w.raw(">")
		w.text(view.PageInfo.Summary())
		w.raw("</div>")
	}
	w.raw("</div>")
	return w.err
}

// columnCount is the number of grid columns including selection and actions.
func (r *renderer) columnCount(visible int) int {
	n := visible
	if r.t.Options().Selection.Enabled {
		n++
	}
	if r.t.HasActions() {
		n++
	}
	return n
}

// writer writes markup and keeps the first error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) attr(name, value string) {
	w.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (w *writer) flag(name string, on bool) {
	if on {
		w.raw(" " + name)
	}
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err == nil && c != nil {
		if err := c.Render(ctx, w.w); err != nil {
			w.err = fmt.Errorf("failed to render component: %w", err)
		}
	}
}

func headerOf(c schema.Column) string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}
