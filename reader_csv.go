package main

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

type csvReader struct {
	mem   memory.Allocator
	comma rune
	chunk int
}

func (r *csvReader) ReadTable(ctx context.Context, path string) (arrow.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, types, err := r.columnTypes(file)
	if err != nil {
		return nil, fmt.Errorf("failed to scan csv file %v: %w", path, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	reader := csv.NewInferringReader(
		file,
		csv.WithAllocator(r.mem),
		csv.WithHeader(true),
		csv.WithComma(r.comma),
		csv.WithChunk(r.chunk),
		csv.WithColumnTypes(types),
		csv.WithNullReader(false, csvNulls...),
	)
	defer reader.Release()

	records := make([]arrow.Record, 0)
	defer func() {
		for _, record := range records {
			record.Release()
		}
	}()
	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := reader.Record()
		record.Retain()
		records = append(records, record)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read csv file %v: %w", path, err)
	}

	schema := reader.Schema()
	if schema == nil {
		schema = headerSchema(header, types)
	}
	table := array.NewTableFromRecords(schema, records)
	defer table.Release()
	return castDateColumns(table, r.mem)
}

// columnTypes scans every data row and pins one type per column so the
// inferring reader never decides from the first batch alone. Columns widen
// int64 -> float64 -> string. Date columns are read as text and cast
// afterwards, inference would guess timestamps.
func (r *csvReader) columnTypes(file io.Reader) ([]string, map[string]arrow.DataType, error) {
	reader := stdcsv.NewReader(file)
	reader.Comma = r.comma
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("empty csv file")
	}
	if err != nil {
		return nil, nil, err
	}
	header = slices.Clone(header)

	kinds := make([]columnKind, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		for i, value := range record {
			if i < len(kinds) {
				kinds[i] = kinds[i].widen(value)
			}
		}
	}

	types := make(map[string]arrow.DataType, len(header))
	for i, name := range header {
		if isDateColumn(name) {
			types[name] = arrow.BinaryTypes.String
			continue
		}
		types[name] = kinds[i].dataType()
	}
	return header, types, nil
}

type columnKind int

const (
	kindUnknown columnKind = iota
	kindInt
	kindFloat
	kindString
)

// null tokens recognized by the arrow csv reader
var csvNulls = []string{"", "NULL", "null"}

func (k columnKind) widen(value string) columnKind {
	if k == kindString || slices.Contains(csvNulls, value) {
		return k
	}
	if k <= kindInt {
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			return kindInt
		}
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return kindFloat
	}
	return kindString
}

func (k columnKind) dataType() arrow.DataType {
	switch k {
	case kindInt:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// headerSchema describes a csv file without data rows.
func headerSchema(header []string, types map[string]arrow.DataType) *arrow.Schema {
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		dtype, ok := types[name]
		if !ok {
			dtype = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: name, Type: dtype, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}
