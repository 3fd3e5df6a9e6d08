package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
)

const ordersCsv = `orderkey,custkey,orderdate,totalprice
1,10,1996-01-02,173665.47
2,20,1996-12-01,46929.18
3,30,1993-10-14,193846.25
`

func testSettings(t *testing.T, ioType IOType) *Settings {
	dir := t.TempDir()
	return &Settings{
		Run: RunSettings{
			IOType:       ioType,
			IncludeIO:    true,
			Attempts:     1,
			Parallel:     true,
			CSVDelimiter: ',',
			CSVChunk:     2,
		},
		Paths: PathSettings{
			Tables:          filepath.Join(dir, "tables"),
			Answers:         filepath.Join(dir, "answers"),
			Timings:         filepath.Join(dir, "timings"),
			TimingsFilename: "timings.csv",
		},
		ScaleFactor: 1,
	}
}

func date(t *testing.T, value string) arrow.Date32 {
	parsed, err := time.Parse(time.DateOnly, value)
	require.Nil(t, err)
	return arrow.Date32FromTime(parsed)
}

func ordersTable(t *testing.T) arrow.Table {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "orderkey", Type: arrow.PrimitiveTypes.Int64},
		{Name: "custkey", Type: arrow.PrimitiveTypes.Int64},
		{Name: "orderdate", Type: arrow.FixedWidthTypes.Date32},
		{Name: "totalprice", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{10, 20, 30}, nil)
	builder.Field(2).(*array.Date32Builder).AppendValues([]arrow.Date32{
		date(t, "1996-01-02"),
		date(t, "1996-12-01"),
		date(t, "1993-10-14"),
	}, nil)
	builder.Field(3).(*array.Float64Builder).AppendValues([]float64{173665.47, 46929.18, 193846.25}, nil)
	record := builder.NewRecord()
	defer record.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{record})
}

func singleColumnTable(name string, values ...int64) arrow.Table {
	schema := arrow.NewSchema([]arrow.Field{{Name: name, Type: arrow.PrimitiveTypes.Int64}}, nil)
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	builder.Field(0).(*array.Int64Builder).AppendValues(values, nil)
	record := builder.NewRecord()
	defer record.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{record})
}

func writeParquet(t *testing.T, path string, table arrow.Table) {
	var buf bytes.Buffer
	err := pqarrow.WriteTable(table, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.Nil(t, err)
	writeFile(t, path, buf.Bytes())
}

func writeFeather(t *testing.T, path string, table arrow.Table) {
	var buf bytes.Buffer
	writer, err := ipc.NewFileWriter(&buf, ipc.WithSchema(table.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	require.Nil(t, err)
	reader := array.NewTableReader(table, 2)
	defer reader.Release()
	for reader.Next() {
		require.Nil(t, writer.Write(reader.Record()))
	}
	require.Nil(t, writer.Close())
	writeFile(t, path, buf.Bytes())
}

func writeFile(t *testing.T, path string, data []byte) {
	require.Nil(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.Nil(t, os.WriteFile(path, data, 0o644))
}

func int64Values(t *testing.T, table arrow.Table, column int) []int64 {
	values := make([]int64, 0, table.NumRows())
	for _, chunk := range table.Column(column).Data().Chunks() {
		typed, ok := chunk.(*array.Int64)
		require.True(t, ok, "column %v is %v", column, chunk.DataType())
		values = append(values, typed.Int64Values()...)
	}
	return values
}

func float64Values(t *testing.T, table arrow.Table, column int) []float64 {
	values := make([]float64, 0, table.NumRows())
	for _, chunk := range table.Column(column).Data().Chunks() {
		typed, ok := chunk.(*array.Float64)
		require.True(t, ok, "column %v is %v", column, chunk.DataType())
		values = append(values, typed.Float64Values()...)
	}
	return values
}

func stringValues(t *testing.T, table arrow.Table, column int) []string {
	values := make([]string, 0, table.NumRows())
	for _, chunk := range table.Column(column).Data().Chunks() {
		typed, ok := chunk.(*array.String)
		require.True(t, ok, "column %v is %v", column, chunk.DataType())
		for i := 0; i < typed.Len(); i++ {
			values = append(values, typed.Value(i))
		}
	}
	return values
}

func date32Values(t *testing.T, table arrow.Table, column int) []arrow.Date32 {
	values := make([]arrow.Date32, 0, table.NumRows())
	for _, chunk := range table.Column(column).Data().Chunks() {
		typed, ok := chunk.(*array.Date32)
		require.True(t, ok, "column %v is %v", column, chunk.DataType())
		values = append(values, typed.Date32Values()...)
	}
	return values
}

// countingLoader serves one-column tables and counts reads per table.
type countingLoader struct {
	mu    sync.Mutex
	calls map[TableName]int
	err   error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: make(map[TableName]int)}
}

func (l *countingLoader) Read(_ context.Context, name TableName) (arrow.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[name]++
	if l.err != nil {
		return nil, l.err
	}
	return singleColumnTable(string(name), int64(l.calls[name])), nil
}

func (l *countingLoader) Calls(name TableName) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[name]
}

type memoryRecorder struct {
	timings []Timing
}

func (r *memoryRecorder) RecordTiming(timing Timing) error {
	r.timings = append(r.timings, timing)
	return nil
}
