// Package arrowdata converts between Apache Arrow tables and table rows. It
// lets columnar sources such as Parquet files feed a table and lets the
// filtered view be written back out as an Arrow record.
package arrowdata

import (
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/schema"
)

// ErrNilTable is returned when no table is given.
var ErrNilTable = errors.New("nil arrow table")

// Columns maps an Arrow schema to table columns. Numeric fields become number
// columns, booleans boolean columns and temporal fields date columns. Every
// column is sortable.
func Columns(s *arrow.Schema) []schema.Column {
	out := make([]schema.Column, 0, s.NumFields())
	for _, f := range s.Fields() {
		col := schema.Column{Key: f.Name, Header: f.Name, Sortable: true, Type: columnType(f.Type)}
		if col.Type == schema.ColumnTypeNumber {
			col.Align = schema.AlignRight
		}
		out = append(out, col)
	}
	return out
}

func columnType(dt arrow.DataType) schema.ColumnType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128:
		return schema.ColumnTypeNumber
	case arrow.BOOL:
		return schema.ColumnTypeBoolean
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return schema.ColumnTypeDate
	default:
		return schema.ColumnTypeText
	}
}

// Load reads every record of tbl and returns the derived columns and one
// Document per row. Nulls become nil values.
func Load(tbl arrow.Table) ([]schema.Column, []schema.Document, error) {
	if tbl == nil {
		return nil, nil, ErrNilTable
	}
	fields := tbl.Schema().Fields()
	rows := make([]schema.Document, 0, tbl.NumRows())

	tr := array.NewTableReader(tbl, tbl.NumRows())
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for pos := 0; pos < int(rec.NumRows()); pos++ {
			row := make(schema.Document, len(fields))
			for i, col := range rec.Columns() {
				row[fields[i].Name] = Value(col, pos)
			}
			rows = append(rows, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read arrow table: %w", err)
	}
	return Columns(tbl.Schema()), rows, nil
}

// Value returns the Go value at pos. Integers widen to int64 and uint64,
// floats to float64 and temporal values to time.Time in UTC.
func Value(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int8:
		return int64(c.Value(pos))
	case *array.Int16:
		return int64(c.Value(pos))
	case *array.Int32:
		return int64(c.Value(pos))
	case *array.Int64:
		return c.Value(pos)
	case *array.Uint8:
		return uint64(c.Value(pos))
	case *array.Uint16:
		return uint64(c.Value(pos))
	case *array.Uint32:
		return uint64(c.Value(pos))
	case *array.Uint64:
		return c.Value(pos)
	case *array.Float16:
		return float64(c.Value(pos).Float32())
	case *array.Float32:
		return float64(c.Value(pos))
	case *array.Float64:
		return c.Value(pos)
	case *array.Decimal128:
		scale := c.DataType().(*arrow.Decimal128Type).Scale
		return c.Value(pos).ToFloat64(scale)
	case *array.Date32:
		return c.Value(pos).ToTime().UTC()
	case *array.Date64:
		return c.Value(pos).ToTime().UTC()
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(pos).ToTime(unit).UTC()
	case *array.Binary:
		return string(c.Value(pos))
	default:
		return c.ValueStr(pos)
	}
}

// Record builds an Arrow record from rows using the column types: number
// columns become float64 fields, boolean columns bool fields, date columns
// date32 fields and everything else strings. Values that do not fit the
// column type are written as null. The caller releases the record.
func Record(mem memory.Allocator, columns []schema.Column, rows []schema.Document) (arrow.Record, error) {
	if err := schema.ValidateColumns(columns); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fields := make([]arrow.Field, len(columns))
	arrays := make([]arrow.Array, len(columns))
	defer func() {
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, col := range columns {
		fields[i], arrays[i] = build(mem, col, rows)
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(len(rows))), nil
}

func build(mem memory.Allocator, col schema.Column, rows []schema.Document) (arrow.Field, arrow.Array) {
	switch col.Type.Normalize() {
	case schema.ColumnTypeNumber:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, row := range rows {
			if f, ok := query.ToFloat64(row[col.Key]); ok {
				b.Append(f)
			} else {
				b.AppendNull()
			}
		}
		return arrow.Field{Name: col.Key, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, b.NewArray()
	case schema.ColumnTypeBoolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, row := range rows {
			if v, ok := row[col.Key].(bool); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return arrow.Field{Name: col.Key, Type: arrow.FixedWidthTypes.Boolean, Nullable: true}, b.NewArray()
	case schema.ColumnTypeDate:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		for _, row := range rows {
			if ts, ok := toTime(row[col.Key]); ok {
				b.Append(arrow.Date32FromTime(ts))
			} else {
				b.AppendNull()
			}
		}
		return arrow.Field{Name: col.Key, Type: arrow.FixedWidthTypes.Date32, Nullable: true}, b.NewArray()
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, row := range rows {
			if v, ok := row[col.Key]; ok && v != nil {
				b.Append(query.Stringify(v))
			} else {
				b.AppendNull()
			}
		}
		return arrow.Field{Name: col.Key, Type: arrow.BinaryTypes.String, Nullable: true}, b.NewArray()
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range schema.DateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
