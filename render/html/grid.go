package html

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"golang.org/x/text/number"
)

// Header renders the header row.
func Header(t *table.Table, opts Options) templ.Component {
	return newRenderer(t, opts).header()
}

// Row renders the row at index on the current page.
func Row(t *table.Table, index int, opts Options) templ.Component {
	r := newRenderer(t, opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		rows := t.Rows()
		if index < 0 || index >= len(rows) {
			return fmt.Errorf("%w: %d", table.ErrInvalidRow, index)
		}
		return r.row(index, rows[index]).Render(ctx, w)
	})
}

func (r *renderer) header() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		o := r.t.Options()
		w := &writer{w: out}
		w.raw("<tr class=\"" + r.class("header") + "\">")

		if o.Selection.Enabled {
			w.raw("<th scope=\"col\" class=\"" + r.class("select") + "\">")
			if o.Selection.ShowSelectAll && o.Selection.Mode == table.SelectionMultiple {
				w.raw("<input type=\"checkbox\" aria-label=\"Select all rows\"")
				w.flag("checked", r.t.IsAllSelected())
				if r.t.IsIndeterminate() {
					w.raw(" aria-checked=\"mixed\" data-indeterminate=\"true\"")
				}
				w.raw(">")
			}
			w.raw("</th>")
		}

		for _, col := range r.t.View().Columns {
			dir, sorted := r.t.SortDirectionFor(col.Key)
			classes := templ.Classes(
				r.class("th"),
				templ.KV(r.class("sortable"), col.Sortable && o.Sorting.Enabled),
				templ.KV(r.class("align-"+string(col.Align)), col.Align != ""),
				templ.KV(col.ClassName, col.ClassName != ""),
			)
			w.raw("<th scope=\"col\"")
			w.attr("class", classes.String())
			w.attr("data-key", col.Key)
			if col.Sortable && o.Sorting.Enabled {
				w.attr("aria-sort", ariaSort(dir, sorted))
			}
			if style := widthStyle(col); style != "" {
				w.attr("style", style)
			}
			if col.Description != "" {
				w.attr("title", col.Description)
			}
			w.raw(">")
			if col.HeaderRender != nil {
				w.component(ctx, col.HeaderRender(col))
			} else {
				w.text(headerOf(col))
				if sorted {
					w.raw("<span class=\"" + r.class("sort-indicator") + "\" aria-hidden=\"true\">")
					w.text(arrow(dir))
					w.raw("</span>")
				}
			}
			w.raw("</th>")
		}

		if r.t.HasActions() {
			w.raw("<th scope=\"col\" class=\"" + r.class("actions") + "\">Actions</th>")
		}
		w.raw("</tr>")
		return w.err
	})
}

func (r *renderer) row(index int, row schema.Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		o := r.t.Options()
		w := &writer{w: out}
		selected := r.t.IsRowSelected(index)
		editing := r.t.IsRowEditing(index)
		key, _ := r.t.RowKey(index)

		classes := templ.Classes(
			r.class("row"),
			templ.KV(r.class("selected"), selected),
			templ.KV(r.class("editing"), editing),
			templ.KV(r.t.RowClassName(index), r.t.RowClassName(index) != ""),
		)
		w.raw("<tr")
		w.attr("class", classes.String())
		w.attr("data-key", key)
		w.attr("data-index", strconv.Itoa(index))
		if o.Selection.Enabled {
			w.attr("aria-selected", strconv.FormatBool(selected))
		}
		w.raw(">")

		if o.Selection.Enabled {
			w.raw("<td class=\"" + r.class("select") + "\"><input type=\"checkbox\"")
			w.attr("aria-label", "Select row "+strconv.Itoa(index+1))
			w.flag("checked", selected)
			w.flag("disabled", !r.t.IsRowSelectable(index))
			w.raw("></td>")
		}

		draft := r.t.Draft()
		for _, col := range r.t.View().Columns {
			classes := templ.Classes(
				r.class("cell"),
				templ.KV(r.class("align-"+string(col.Align)), col.Align != ""),
				templ.KV(r.class("cell-editing"), editing),
			)
			w.raw("<td")
			w.attr("class", classes.String())
			if style := widthStyle(col); style != "" {
				w.attr("style", style)
			}
			w.raw(">")
			if editing && col.Editable {
				w.component(ctx, r.editor(col, draft[col.Key], r.t.FieldError(col.Key)))
			} else {
				value := row[col.Key]
				if editing {
					value = draft[col.Key]
				}
				w.component(ctx, r.cell(col, value, row, index))
			}
			w.raw("</td>")
		}

		if r.t.HasActions() {
			w.raw("<td class=\"" + r.class("actions") + "\">")
			w.component(ctx, r.actions(index, editing))
			w.raw("</td>")
		}
		w.raw("</tr>")
		return w.err
	})
}

// Cell renders a cell value for display. Column.Render takes precedence.
func Cell(col schema.Column, value any, row schema.Document, index int, opts Options) templ.Component {
	return newRenderer(nil, opts).cell(col, value, row, index)
}

func (r *renderer) cell(col schema.Column, value any, row schema.Document, index int) templ.Component {
	if col.Render != nil {
		return col.Render(value, row, index)
	}
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		empty := func() { w.raw("<span class=\"" + r.class("muted") + "\">-</span>") }

		switch col.Type.Normalize() {
		case schema.ColumnTypeBoolean:
			on, _ := value.(bool)
			w.raw("<span")
			w.attr("class", templ.Classes(r.class("badge"), templ.KV(r.class("badge-on"), on)).String())
			w.raw(">")
			if on {
				w.raw("Yes")
			} else {
				w.raw("No")
			}
			w.raw("</span>")
		case schema.ColumnTypeNumber:
			w.raw("<span class=\"" + r.class("number") + "\">")
			if value != nil {
				w.text(r.number(value))
			}
			w.raw("</span>")
		case schema.ColumnTypeEmail:
			if s := query.Stringify(value); s != "" {
				w.raw("<a")
				w.attr("href", "mailto:"+s)
				w.raw(">")
				w.text(s)
				w.raw("</a>")
			} else {
				empty()
			}
		case schema.ColumnTypeURL:
			if s := query.Stringify(value); s != "" {
				w.raw("<a")
				w.attr("href", string(templ.URL(s)))
				w.raw(" target=\"_blank\" rel=\"noopener noreferrer\">")
				w.text(s)
				w.raw("</a>")
			} else {
				empty()
			}
		case schema.ColumnTypeDate:
			if s := r.date(value); s != "" {
				w.raw("<span class=\"" + r.class("date") + "\">")
				w.text(s)
				w.raw("</span>")
			} else {
				empty()
			}
		case schema.ColumnTypeSelect:
			s := query.Stringify(value)
			label := s
			for _, opt := range col.Options {
				if opt.Value == s {
					label = opt.Label
					break
				}
			}
			if label == "" {
				label = "-"
			}
			w.text(label)
		default:
			if s := query.Stringify(value); s != "" {
				w.text(s)
			} else {
				empty()
			}
		}
		return w.err
	})
}

// Editor renders the input widget of an editable cell.
func Editor(col schema.Column, value any, fieldError string, opts Options) templ.Component {
	return newRenderer(nil, opts).editor(col, value, fieldError)
}

func (r *renderer) editor(col schema.Column, value any, fieldError string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		ed := schema.EditorFor(col)
		errID := col.Key + "-error"
		invalid := func() {
			if fieldError != "" {
				w.raw(" aria-invalid=\"true\"")
				w.attr("aria-describedby", errID)
			}
		}

		w.raw("<div class=\"" + r.class("editor") + "\">")
		switch ed.Kind {
		case schema.EditorToggle:
			on, _ := value.(bool)
			w.raw("<input type=\"checkbox\"")
			w.attr("name", col.Key)
			w.attr("aria-label", headerOf(col))
			w.flag("checked", on)
			invalid()
			w.raw(">")
		case schema.EditorDropdown:
			current := query.Stringify(value)
			w.raw("<select")
			w.attr("name", col.Key)
			w.attr("aria-label", headerOf(col))
			invalid()
			w.raw(">")
			for _, opt := range ed.Options {
				w.raw("<option")
				w.attr("value", opt.Value)
				w.flag("selected", opt.Value == current)
				w.flag("disabled", opt.Disabled)
				w.raw(">")
				w.text(opt.Label)
				w.raw("</option>")
			}
			w.raw("</select>")
		default:
			w.raw("<input")
			w.attr("type", ed.InputType)
			w.attr("name", col.Key)
			w.attr("aria-label", headerOf(col))
			w.attr("value", query.Stringify(value))
			invalid()
			w.raw(">")
		}
		if fieldError != "" {
			w.raw("<div role=\"alert\"")
			w.attr("id", errID)
			w.attr("class", r.class("field-error"))
			w.raw(">")
			w.text(fieldError)
			w.raw("</div>")
		}
		w.raw("</div>")
		return w.err
	})
}

func (r *renderer) actions(index int, editing bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		o := r.t.Options()
		w := &writer{w: out}
		button := func(action, label, variant string, disabled bool) {
			w.raw("<button type=\"button\"")
			w.attr("class", r.class("button")+" "+r.class("button-"+variant))
			w.attr("data-action", action)
			w.attr("data-index", strconv.Itoa(index))
			w.flag("disabled", disabled)
			w.raw(">")
			w.text(label)
			w.raw("</button>")
		}

		if editing {
			button("save", "Save", "default", false)
			button("cancel", "Cancel", "secondary", false)
			return w.err
		}
		if o.Editing.Enabled && o.Editing.ShowActions {
			button("edit", "Edit", "secondary", r.t.IsEditing())
		}
		actions, err := r.t.RowActions(index)
		if err != nil {
			return err
		}
		for _, a := range actions {
			variant := a.Variant
			if variant == "" {
				variant = "default"
			}
			button(a.Key, a.Label, variant, a.Disabled)
		}
		return w.err
	})
}

func (r *renderer) number(v any) string {
	if f, ok := query.ToFloat64(v); ok {
		return r.printer.Sprint(number.Decimal(f))
	}
	return query.Stringify(v)
}

func (r *renderer) date(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		return d.Format(time.DateOnly)
	case string:
		for _, layout := range schema.DateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts.Format(time.DateOnly)
			}
		}
		return d
	}
	return query.Stringify(v)
}

func ariaSort(dir query.SortDirection, sorted bool) string {
	switch {
	case !sorted:
		return "none"
	case dir == query.SortDirectionAsc:
		return "ascending"
	default:
		return "descending"
	}
}

func arrow(dir query.SortDirection) string {
	if dir == query.SortDirectionAsc {
		return "▲"
	}
	return "▼"
}

func widthStyle(col schema.Column) string {
	var s string
	if col.Width != "" {
		s += "width:" + col.Width + ";"
	}
	if col.MinWidth != "" {
		s += "min-width:" + col.MinWidth + ";"
	}
	return s
}
