// Package query provides a fluent API for building view queries. The builder
// keeps queries readable at call sites and validates them before they reach a
// pipeline.
package query

import (
	"fmt"
	"slices"
	"strings"
)

// QueryBuilder provides a fluent API for building ViewQuery values.
type QueryBuilder struct {
	query ViewQuery
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Build returns a copy of the constructed query.
func (qb *QueryBuilder) Build() ViewQuery {
	return qb.Clone().query
}

// Clone creates a deep copy of the builder so derived queries never share state.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	out := &QueryBuilder{}
	if s := qb.query.Search; s != nil {
		out.query.Search = &SearchQuery{Text: s.Text, Columns: slices.Clone(s.Columns), CaseSensitive: s.CaseSensitive}
	}
	if s := qb.query.Sort; s != nil {
		sort := *s
		out.query.Sort = &sort
	}
	if qb.query.Filters != nil {
		out.query.Filters = qb.query.Filters.Clone()
	}
	if p := qb.query.Page; p != nil {
		page := *p
		out.query.Page = &page
	}
	return out
}

// Reset clears all configuration from the builder.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.query = ViewQuery{}
	return qb
}

// Search sets the free-text query over the given columns.
func (qb *QueryBuilder) Search(text string, columns ...string) *QueryBuilder {
	if qb.query.Search == nil {
		qb.query.Search = &SearchQuery{}
	}
	qb.query.Search.Text = text
	qb.query.Search.Columns = columns
	return qb
}

// CaseSensitive makes the search compare without folding case.
func (qb *QueryBuilder) CaseSensitive() *QueryBuilder {
	if qb.query.Search == nil {
		qb.query.Search = &SearchQuery{}
	}
	qb.query.Search.CaseSensitive = true
	return qb
}

// OrderBy sets the single sort column. A later call replaces an earlier one.
func (qb *QueryBuilder) OrderBy(field string, direction SortDirection) *QueryBuilder {
	qb.query.Sort = &SortConfiguration{Field: field, Direction: direction}
	return qb
}

// OrderByAsc sorts ascending by field.
func (qb *QueryBuilder) OrderByAsc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionAsc)
}

// OrderByDesc sorts descending by field.
func (qb *QueryBuilder) OrderByDesc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionDesc)
}

// FilterConditionBuilder builds the filter of a single column.
type FilterConditionBuilder struct {
	parent *QueryBuilder
	field  string
}

// Where begins a filter on a column.
func (qb *QueryBuilder) Where(field string) *FilterConditionBuilder {
	return &FilterConditionBuilder{parent: qb, field: field}
}

// Contains keeps rows whose column contains value, ignoring case. An empty
// value clears the filter.
func (fcb *FilterConditionBuilder) Contains(value string) *QueryBuilder {
	qb := fcb.parent
	if qb.query.Filters == nil {
		qb.query.Filters = Filters{}
	}
	if value == "" {
		delete(qb.query.Filters, fcb.field)
	} else {
		qb.query.Filters[fcb.field] = value
	}
	return qb
}

// WithFilters merges a filter map into the query.
func (qb *QueryBuilder) WithFilters(filters Filters) *QueryBuilder {
	for k, v := range filters {
		qb.Where(k).Contains(v)
	}
	return qb
}

// Page selects a 1-based page window.
func (qb *QueryBuilder) Page(page, size int) *QueryBuilder {
	qb.query.Page = &PageRequest{Page: page, Size: size}
	return qb
}

// QueryValidationError represents an error found during query validation.
type QueryValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for a QueryValidationError.
func (ve QueryValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// QueryValidationResult contains the results of a query validation.
type QueryValidationResult struct {
	IsValid bool
	Errors  []QueryValidationError
}

// Validate checks the built query for sort and pagination mistakes.
func (qb *QueryBuilder) Validate() QueryValidationResult {
	var errors []QueryValidationError

	if s := qb.query.Sort; s != nil {
		if s.Field == "" {
			errors = append(errors, QueryValidationError{Field: "sort.key", Message: "sort key cannot be empty"})
		}
		if !s.Direction.IsValid() {
			errors = append(errors, QueryValidationError{Field: "sort.direction", Message: fmt.Sprintf("unsupported direction %q", s.Direction)})
		}
	}

	if p := qb.query.Page; p != nil {
		if p.Page < 1 {
			errors = append(errors, QueryValidationError{Field: "page.page", Message: "page must be 1 or greater"})
		}
		if p.Size < 1 {
			errors = append(errors, QueryValidationError{Field: "page.size", Message: "size must be greater than 0"})
		}
	}

	if s := qb.query.Search; s != nil && s.Text != "" && len(s.Columns) == 0 {
		errors = append(errors, QueryValidationError{Field: "search.columns", Message: "search needs at least one column"})
	}

	return QueryValidationResult{
		IsValid: len(errors) == 0,
		Errors:  errors,
	}
}

// String returns a human-readable representation of the built query.
func (qb *QueryBuilder) String() string {
	var parts []string

	if s := qb.query.Search; s != nil && s.Text != "" {
		parts = append(parts, fmt.Sprintf("SEARCH: %q IN %s", s.Text, strings.Join(s.Columns, ", ")))
	}

	if s := qb.query.Sort; s != nil {
		parts = append(parts, fmt.Sprintf("ORDER BY: %s %s", s.Field, s.Direction))
	}

	if active := qb.query.Filters.Active(); len(active) > 0 {
		keys := make([]string, 0, len(active))
		for k := range active {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		conds := make([]string, len(keys))
		for i, k := range keys {
			conds[i] = fmt.Sprintf("%s~%q", k, active[k])
		}
		parts = append(parts, fmt.Sprintf("FILTERS: %s", strings.Join(conds, ", ")))
	}

	if p := qb.query.Page; p != nil {
		parts = append(parts, fmt.Sprintf("PAGE: %d SIZE: %d", p.Page, p.Size))
	}

	if len(parts) == 0 {
		return "EMPTY QUERY"
	}

	return strings.Join(parts, " | ")
}
