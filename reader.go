package main

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Pool is the allocator used for every table read by the loader.
var Pool memory.Allocator = memory.NewGoAllocator()

// TableReader reads a single file into an in-memory table.
type TableReader interface {
	ReadTable(ctx context.Context, path string) (arrow.Table, error)
}

// Reader dispatches table reads to the strategy registered for the io type
// configured at the moment of the call.
type Reader struct {
	settings *Settings
	formats  map[IOType]TableReader
}

func NewReader(settings *Settings, mem memory.Allocator) *Reader {
	parquet := &parquetReader{mem: mem, parallel: settings.Run.Parallel}
	return &Reader{
		settings: settings,
		formats: map[IOType]TableReader{
			IOTypeParquet: parquet,
			IOTypeSkip:    parquet,
			IOTypeCSV: &csvReader{
				mem:   mem,
				comma: settings.Run.CSVDelimiter,
				chunk: settings.Run.CSVChunk,
			},
			IOTypeFeather: &featherReader{mem: mem},
		},
	}
}

// Register replaces the strategy for the io type.
func (r *Reader) Register(ioType IOType, reader TableReader) {
	r.formats[ioType] = reader
}

func (r *Reader) Read(ctx context.Context, name TableName) (arrow.Table, error) {
	ioType := r.settings.Run.IOType
	format, ok := r.formats[ioType]
	if !ok {
		return nil, unsupportedFormat(string(ioType))
	}
	path := TablePath(r.settings, name)
	Logger.Debugf("read table %v from %v as %v", name, path, ioType)
	start := time.Now()
	table, err := format.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("read table %v: rows=%v, columns=%v, elapsed=%v", name, table.NumRows(), table.NumCols(), time.Since(start))
	return table, nil
}
