package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var timingsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "solution", Type: arrow.BinaryTypes.String},
	{Name: "version", Type: arrow.BinaryTypes.String},
	{Name: "query_number", Type: arrow.PrimitiveTypes.Int64},
	{Name: "duration[s]", Type: arrow.PrimitiveTypes.Float64},
	{Name: "io_type", Type: arrow.BinaryTypes.String},
	{Name: "scale_factor", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// TimingsFile appends query timings to a csv file shared by every solution of the suite.
type TimingsFile struct {
	Path string
	mem  memory.Allocator
	mu   sync.Mutex
}

func NewTimingsFile(path string, mem memory.Allocator) *TimingsFile {
	return &TimingsFile{Path: path, mem: mem}
}

func (f *TimingsFile) RecordTiming(timing Timing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return err
	}

	builder := array.NewRecordBuilder(f.mem, timingsSchema)
	defer builder.Release()
	builder.Field(0).(*array.StringBuilder).Append(timing.Solution)
	builder.Field(1).(*array.StringBuilder).Append(timing.Version)
	builder.Field(2).(*array.Int64Builder).Append(int64(timing.QueryNumber))
	builder.Field(3).(*array.Float64Builder).Append(timing.Duration.Seconds())
	builder.Field(4).(*array.StringBuilder).Append(string(timing.IOType))
	builder.Field(5).(*array.Float64Builder).Append(timing.ScaleFactor)
	record := builder.NewRecord()
	defer record.Release()

	writer := csv.NewWriter(file, timingsSchema, csv.WithHeader(stat.Size() == 0))
	if err := writer.Write(record); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Sync()
}
