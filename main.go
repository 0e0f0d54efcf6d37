package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"github.com/asaidimu/go-datatable/render/html"
	"github.com/asaidimu/go-datatable/render/text"
	"go.uber.org/zap"
)

const (
	userColumnsJSON = `[
		{ "key": "id", "header": "ID", "type": "number", "sortable": true, "align": "right" },
		{ "key": "name", "header": "Name", "sortable": true, "editable": true },
		{ "key": "email", "header": "Email", "type": "email", "editable": true },
		{ "key": "age", "header": "Age", "type": "number", "sortable": true },
		{ "key": "is_active", "header": "Active", "type": "boolean" }
	]`

	userRowsJSON = `[
		{ "id": 1, "name": "Alice Smith", "email": "alice@example.com", "age": 30, "is_active": true },
		{ "id": 2, "name": "Alice Smith", "email": "alice2@example.com", "age": 27, "is_active": true },
		{ "id": 3, "name": "Alice Smith", "email": "alice3@example.com", "age": 28, "is_active": false },
		{ "id": 4, "name": "Bob Johnson", "email": "bob@example.com", "age": 45, "is_active": true },
		{ "id": 5, "name": "Carol Williams", "email": "carol@example.com", "age": 35, "is_active": false },
		{ "id": 6, "name": "Dan Smithers", "email": "dan@smith.io", "age": 52, "is_active": true },
		{ "id": 7, "name": "Eve Brown", "email": "eve@example.com", "age": 23, "is_active": true }
	]`
)

func main() {
	var (
		format   = flag.String("format", "text", "output format: text or html")
		rowsFile = flag.String("rows", "", "JSON file with an array of rows (defaults to built-in users)")
		search   = flag.String("search", "", "search query")
		sortBy   = flag.String("sort", "", "column to sort by")
		desc     = flag.Bool("desc", false, "sort descending")
		page     = flag.Int("page", 1, "page to show")
		size     = flag.Int("size", 5, "page size")
		verbose  = flag.Bool("v", false, "log table events")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		logger = l
	}
	defer logger.Sync()

	var columns []schema.Column
	if err := json.Unmarshal([]byte(userColumnsJSON), &columns); err != nil {
		log.Fatalf("Failed to unmarshal columns: %v", err)
	}

	data := []byte(userRowsJSON)
	if *rowsFile != "" {
		b, err := os.ReadFile(*rowsFile)
		if err != nil {
			log.Fatalf("Failed to read rows file %s: %v", *rowsFile, err)
		}
		data = b
	}
	var rows []schema.Document
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Fatalf("Failed to unmarshal rows: %v", err)
	}

	users, err := table.New(columns, rows,
		table.WithName("users"),
		table.WithLogger(logger),
		table.WithRowKey(schema.FieldKey("id")),
		table.WithSearch(table.SearchOptions{Query: *search}),
		table.WithSorting(table.SortOptions{}),
		table.WithPagination(table.PaginationOptions{PageSize: *size, ShowPaginationInfo: true}),
	)
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	defer users.Close()

	users.Subscribe(events.SortChange, func(ctx context.Context, event events.TableEvent) error {
		logger.Info("Sort changed", zap.String("table", event.Table), zap.Any("sort", event.Output))
		return nil
	})
	users.Subscribe(events.PageChange, func(ctx context.Context, event events.TableEvent) error {
		logger.Info("Page changed", zap.String("table", event.Table), zap.Any("page", event.Output))
		return nil
	})

	if *sortBy != "" {
		dir := query.SortDirectionAsc
		if *desc {
			dir = query.SortDirectionDesc
		}
		if err := users.SetSort(&query.SortConfiguration{Field: *sortBy, Direction: dir}); err != nil {
			log.Fatalf("Failed to sort by %s: %v", *sortBy, err)
		}
	}
	if *page != 1 {
		if err := users.GoToPage(*page); err != nil {
			log.Fatalf("Failed to go to page %d: %v", *page, err)
		}
	}

	switch *format {
	case "html":
		err = html.Table(users, html.DefaultOptions()).Render(context.Background(), os.Stdout)
	case "text":
		err = text.Render(os.Stdout, users, text.DefaultOptions())
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("Failed to render table: %v", err)
	}
}
