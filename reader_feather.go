package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// featherReader reads Feather v2 files, which are Arrow IPC files.
type featherReader struct {
	mem memory.Allocator
}

func (r *featherReader) ReadTable(ctx context.Context, path string) (arrow.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := ipc.NewFileReader(file, ipc.WithAllocator(r.mem))
	if err != nil {
		return nil, fmt.Errorf("failed to open feather file %v: %w", path, err)
	}
	defer reader.Close()

	records := make([]arrow.Record, 0, reader.NumRecords())
	defer func() {
		for _, record := range records {
			record.Release()
		}
	}()
	for i := 0; i < reader.NumRecords(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.RecordAt(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch #%v of %v: %w", i, path, err)
		}
		records = append(records, record)
	}
	return array.NewTableFromRecords(reader.Schema(), records), nil
}
