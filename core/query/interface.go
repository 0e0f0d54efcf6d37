// Package query defines the interface the table uses to evaluate view queries,
// so hosts can swap in their own row processing.
package query

import (
	"context"

	"github.com/asaidimu/go-datatable/core/schema"
)

// RowProcessor evaluates view queries against in-memory rows.
type RowProcessor interface {
	// ProcessRows runs the search, sort, filter and pagination stages of q over
	// rows and returns the output of every stage that ran.
	ProcessRows(rows []schema.Document, q *ViewQuery) (*Result, error)

	// Match reports whether a single row passes the search and filter parts of q.
	Match(ctx context.Context, q *ViewQuery, data schema.Document) (bool, error)
}

var _ RowProcessor = (*DataProcessor)(nil)
