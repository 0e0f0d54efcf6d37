package html

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/asaidimu/go-datatable/core/table"
)

// Toolbar renders the search input, the column filters and the selection
// summary.
func Toolbar(t *table.Table, opts Options) templ.Component {
	return newRenderer(t, opts).toolbar()
}

// Pagination renders the page summary, the page size selector and the page
// navigation.
func Pagination(t *table.Table, opts Options) templ.Component {
	return newRenderer(t, opts).pagination()
}

// EmptyState renders the empty state as a full-width row.
func EmptyState(t *table.Table, opts Options) templ.Component {
	r := newRenderer(t, opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.empty(t.Options(), r.columnCount(len(t.VisibleColumns()))).Render(ctx, w)
	})
}

func (r *renderer) toolbar() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		tb := r.t.Toolbar()
		w := &writer{w: out}
		w.raw("<div class=\"" + r.class("toolbar") + "\" role=\"toolbar\">")

		if tb.SearchEnabled {
			w.raw("<input type=\"search\" name=\"search\" aria-label=\"Search table\"")
			w.attr("class", r.class("search"))
			w.attr("placeholder", tb.SearchPlaceholder)
			w.attr("value", tb.SearchQuery)
			w.raw(">")
		}

		if tb.FilteringEnabled {
			w.raw("<div class=\"" + r.class("filters") + "\">")
			for _, col := range tb.FilterColumns {
				label := "Filter " + headerOf(col)
				name := "filter-" + col.Key
				current := tb.Filters[col.Key]
				if options := r.t.FilterOptionsFor(col.Key); len(options) > 0 {
					w.raw("<select")
					w.attr("name", name)
					w.attr("aria-label", label)
					w.raw("><option value=\"\">All</option>")
					for _, opt := range options {
						w.raw("<option")
						w.attr("value", opt.Value)
						w.flag("selected", opt.Value == current)
						w.flag("disabled", opt.Disabled)
						w.raw(">")
						w.text(opt.Label)
						w.raw("</option>")
					}
					w.raw("</select>")
					continue
				}
				w.raw("<input type=\"text\"")
				w.attr("name", name)
				w.attr("aria-label", label)
				w.attr("placeholder", label+"...")
				w.attr("value", current)
				w.raw(">")
			}
			if tb.HasActiveFilters {
				w.raw("<button type=\"button\" data-action=\"clear-filters\"")
				w.attr("class", r.class("button")+" "+r.class("button-secondary"))
				w.raw(">Clear filters</button>")
			}
			w.raw("</div>")
		}

		w.raw("<div class=\"" + r.class("toolbar-info") + "\">")
		if tb.SelectedCount > 0 {
			w.raw("<span class=\"" + r.class("selection-count") + "\">")
			w.text(r.printer.Sprintf("%d selected", tb.SelectedCount))
			w.raw("</span><button type=\"button\" data-action=\"clear-selection\"")
			w.attr("class", r.class("button")+" "+r.class("button-secondary"))
			w.raw(">Clear</button>")
		}
		w.raw("<span class=\"" + r.class("item-count") + "\">")
		w.text(r.printer.Sprintf("%d items", tb.TotalCount))
		w.raw("</span></div></div>")
		return w.err
	})
}

func (r *renderer) pagination() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		o := r.t.Options().Pagination
		info := r.t.PageInfo()
		w := &writer{w: out}

		w.raw("<nav aria-label=\"Pagination\"")
		w.attr("class", r.class("pagination"))
		w.raw(">")

		if o.ShowPaginationInfo {
			w.raw("<div class=\"" + r.class("page-info") + "\">")
			if info.TotalItems == 0 {
				w.raw("No items")
			} else {
				w.text(r.printer.Sprintf("Showing %d to %d of %d entries", info.StartIndex, info.EndIndex, info.TotalItems))
			}
			w.raw("</div>")
		}

		if o.ShowPageSizeSelector {
			w.raw("<label class=\"" + r.class("page-size") + "\">Show <select name=\"page-size\" aria-label=\"Rows per page\">")
			for _, size := range r.t.PageSizeOptions() {
				w.raw("<option")
				w.attr("value", strconv.Itoa(size))
				w.flag("selected", size == info.PageSize)
				w.raw(">")
				w.text(strconv.Itoa(size))
				w.raw("</option>")
			}
			w.raw("</select> entries</label>")
		}

		button := func(action string, page int, label, text string, disabled bool) {
			w.raw("<button type=\"button\"")
			w.attr("class", r.class("page-button"))
			w.attr("data-action", action)
			w.attr("data-page", strconv.Itoa(page))
			w.attr("aria-label", label)
			w.flag("disabled", disabled)
			w.raw(">")
			w.text(text)
			w.raw("</button>")
		}

		first, last := !info.HasPrevious(), !info.HasNext()
		w.raw("<div class=\"" + r.class("pages") + "\">")
		button("first", 1, "Go to first page", "«", first)
		button("previous", info.CurrentPage-1, "Go to previous page", "‹", first)
		for _, p := range r.t.VisiblePages() {
			current := p == info.CurrentPage
			w.raw("<button type=\"button\" data-action=\"page\"")
			w.attr("class", templ.Classes(r.class("page-button"), templ.KV(r.class("page-current"), current)).String())
			w.attr("data-page", strconv.Itoa(p))
			w.attr("aria-label", "Go to page "+strconv.Itoa(p))
			if current {
				w.raw(" aria-current=\"page\"")
			}
			w.raw(">")
			w.text(strconv.Itoa(p))
			w.raw("</button>")
		}
		button("next", info.CurrentPage+1, "Go to next page", "›", last)
		button("last", info.TotalPages, "Go to last page", "»", last)
		w.raw("</div></nav>")
		return w.err
	})
}

func (r *renderer) empty(o table.Options, colspan int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		kind := r.t.EmptyKind()
		w.raw("<tr><td")
		w.attr("colspan", strconv.Itoa(max(colspan, 1)))
		w.raw(">")
		if o.EmptyRenderer != nil {
			w.component(ctx, o.EmptyRenderer())
			w.raw("</td></tr>")
			return w.err
		}

		w.raw("<div role=\"status\"")
		w.attr("class", r.class("empty"))
		w.attr("data-kind", string(kind))
		w.raw("><p class=\"" + r.class("empty-message") + "\">")
		w.text(r.t.EmptyMessage())
		w.raw("</p>")
		if d := kind.DefaultDescription(); d != "" {
			w.raw("<p class=\"" + r.class("empty-description") + "\">")
			w.text(d)
			w.raw("</p>")
		}
		if a := o.EmptyState.Action; a != nil {
			w.raw("<button type=\"button\" data-action=\"empty\"")
			w.attr("class", r.class("button"))
			w.raw(">")
			w.text(a.Label)
			w.raw("</button>")
		}
		w.raw("</div></td></tr>")
		return w.err
	})
}

func (r *renderer) loading(o table.Options) templ.Component {
	if o.LoadingRenderer != nil {
		return o.LoadingRenderer()
	}
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		l := r.t.Loading()
		w := &writer{w: out}
		spinner := l.SpinnerType
		if spinner == "" {
			spinner = "default"
		}
		message := l.LoadingMessage
		if message == "" {
			message = "Loading..."
		}
		w.raw("<div role=\"status\" aria-busy=\"true\"")
		w.attr("class", r.class("loading"))
		w.attr("data-spinner", spinner)
		w.raw("><span class=\"" + r.class("spinner") + "\" aria-hidden=\"true\"></span><span>")
		w.text(message)
		w.raw("</span></div>")
		return w.err
	})
}
