package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

const dateSuffix = "date"

var dateLayouts = []string{time.DateOnly, time.DateTime, time.RFC3339}

func isDateColumn(name string) bool {
	return strings.HasSuffix(name, dateSuffix)
}

// castDateColumns returns a new table with every *date column converted to date32.
// Other columns share their buffers with the input table.
func castDateColumns(table arrow.Table, mem memory.Allocator) (arrow.Table, error) {
	schema := table.Schema()
	fields := make([]arrow.Field, 0, table.NumCols())
	columns := make([]arrow.Column, 0, table.NumCols())
	defer func() {
		for i := range columns {
			columns[i].Release()
		}
	}()

	for i := 0; i < int(table.NumCols()); i++ {
		column := table.Column(i)
		field := column.Field()
		if !isDateColumn(field.Name) || arrow.TypeEqual(field.Type, arrow.FixedWidthTypes.Date32) {
			column.Retain()
			fields = append(fields, field)
			columns = append(columns, *column)
			continue
		}
		chunked, err := castChunkedToDate32(column.Data(), mem)
		if err != nil {
			return nil, fmt.Errorf("failed to cast column %v to date32: %w", field.Name, err)
		}
		field.Type = arrow.FixedWidthTypes.Date32
		fields = append(fields, field)
		columns = append(columns, *arrow.NewColumn(field, chunked))
		chunked.Release()
	}

	metadata := schema.Metadata()
	return array.NewTable(arrow.NewSchema(fields, &metadata), columns, table.NumRows()), nil
}

func castChunkedToDate32(chunked *arrow.Chunked, mem memory.Allocator) (*arrow.Chunked, error) {
	chunks := make([]arrow.Array, 0, len(chunked.Chunks()))
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()
	for _, chunk := range chunked.Chunks() {
		casted, err := toDate32(chunk, mem)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, casted)
	}
	return arrow.NewChunked(arrow.FixedWidthTypes.Date32, chunks), nil
}

func toDate32(values arrow.Array, mem memory.Allocator) (arrow.Array, error) {
	builder := array.NewDate32Builder(mem)
	defer builder.Release()
	builder.Reserve(values.Len())

	switch typed := values.(type) {
	case *array.Date32:
		typed.Retain()
		return typed, nil
	case *array.Null:
		builder.AppendNulls(typed.Len())
	case *array.String:
		for i := 0; i < typed.Len(); i++ {
			if typed.IsNull(i) || typed.Value(i) == "" {
				builder.AppendNull()
				continue
			}
			parsed, err := parseDate(typed.Value(i))
			if err != nil {
				return nil, fmt.Errorf("row %v: %w", i, err)
			}
			builder.Append(arrow.Date32FromTime(parsed))
		}
	case *array.Timestamp:
		unit := typed.DataType().(*arrow.TimestampType).Unit
		for i := 0; i < typed.Len(); i++ {
			if typed.IsNull(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(arrow.Date32FromTime(typed.Value(i).ToTime(unit)))
		}
	case *array.Date64:
		for i := 0; i < typed.Len(); i++ {
			if typed.IsNull(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(arrow.Date32FromTime(typed.Value(i).ToTime()))
		}
	default:
		return nil, fmt.Errorf("unsupported source type %v", values.DataType())
	}
	return builder.NewArray(), nil
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var parsed time.Time
		parsed, err = time.Parse(layout, value)
		if err == nil {
			year, month, day := parsed.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q: %w", value, err)
}
