package arrowdata

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/asaidimu/go-datatable/core/schema"
	"github.com/asaidimu/go-datatable/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employees(t *testing.T, mem memory.Allocator) arrow.Table {
	t.Helper()
	s := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "salary", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "hired", Type: arrow.FixedWidthTypes.Date32},
	}, nil)

	b := array.NewRecordBuilder(mem, s)
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"Alice", "", "Carol"}, []bool{true, false, true})
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{120, 80, 0}, []bool{true, true, false})
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, true}, nil)
	hired := []arrow.Date32{
		arrow.Date32FromTime(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)),
		arrow.Date32FromTime(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
		arrow.Date32FromTime(time.Date(2019, 3, 9, 0, 0, 0, 0, time.UTC)),
	}
	b.Field(4).(*array.Date32Builder).AppendValues(hired, nil)

	rec := b.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(s, []arrow.Record{rec})
	t.Cleanup(tbl.Release)
	return tbl
}

func TestLoad(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	t.Run("columns and rows", func(t *testing.T) {
		tbl := employees(t, mem)
		cols, rows, err := Load(tbl)
		require.NoError(t, err)

		require.Len(t, cols, 5)
		assert.Equal(t, schema.ColumnTypeNumber, cols[0].Type)
		assert.Equal(t, schema.AlignRight, cols[0].Align)
		assert.Equal(t, schema.ColumnTypeText, cols[1].Type)
		assert.Equal(t, schema.ColumnTypeBoolean, cols[3].Type)
		assert.Equal(t, schema.ColumnTypeDate, cols[4].Type)
		for _, c := range cols {
			assert.True(t, c.Sortable)
		}

		require.Len(t, rows, 3)
		assert.Equal(t, schema.Document{
			"id": int64(1), "name": "Alice", "salary": 120.0, "active": true,
			"hired": time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		}, rows[0])
		assert.Nil(t, rows[1]["name"])
		assert.Nil(t, rows[2]["salary"])
	})

	t.Run("nil table", func(t *testing.T) {
		_, _, err := Load(nil)
		assert.ErrorIs(t, err, ErrNilTable)
	})

	t.Run("feeds a table", func(t *testing.T) {
		cols, rows, err := Load(employees(t, mem))
		require.NoError(t, err)

		dt, err := table.New(cols, rows,
			table.WithRowKey(schema.FieldKey("id")),
			table.WithSorting(table.SortOptions{}),
		)
		require.NoError(t, err)
		defer dt.Close()

		_, err = dt.ToggleSort("hired")
		require.NoError(t, err)
		got := make([]any, 0, 3)
		for _, r := range dt.Rows() {
			got = append(got, r["id"])
		}
		assert.Equal(t, []any{int64(3), int64(1), int64(2)}, got)
	})
}

func TestRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cols := []schema.Column{
		{Key: "name"},
		{Key: "salary", Type: schema.ColumnTypeNumber},
		{Key: "active", Type: schema.ColumnTypeBoolean},
		{Key: "hired", Type: schema.ColumnTypeDate},
	}
	rows := []schema.Document{
		{"name": "Alice", "salary": 120, "active": true, "hired": "2020-01-15"},
		{"name": nil, "salary": "n/a", "active": "yes", "hired": time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("typed fields", func(t *testing.T) {
		rec, err := Record(mem, cols, rows)
		require.NoError(t, err)
		defer rec.Release()

		assert.EqualValues(t, 2, rec.NumRows())
		assert.Equal(t, arrow.PrimitiveTypes.Float64, rec.Schema().Field(1).Type)
		assert.Equal(t, arrow.FixedWidthTypes.Date32, rec.Schema().Field(3).Type)

		assert.Equal(t, "Alice", Value(rec.Column(0), 0))
		assert.Nil(t, Value(rec.Column(0), 1))
		assert.Equal(t, 120.0, Value(rec.Column(1), 0))
		assert.Nil(t, Value(rec.Column(1), 1), "non-numeric values are null")
		assert.Nil(t, Value(rec.Column(2), 1))
		assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), Value(rec.Column(3), 0))
		assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Value(rec.Column(3), 1))
	})

	t.Run("invalid columns", func(t *testing.T) {
		_, err := Record(mem, []schema.Column{{Key: "a"}, {Key: "a"}}, rows)
		assert.Error(t, err)
	})
}
