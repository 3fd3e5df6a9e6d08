package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

type parquetReader struct {
	mem      memory.Allocator
	parallel bool
}

func (r *parquetReader) ReadTable(ctx context.Context, path string) (arrow.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := pqarrow.ReadTable(
		ctx,
		file,
		parquet.NewReaderProperties(r.mem),
		pqarrow.ArrowReadProperties{Parallel: r.parallel},
		r.mem,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %v: %w", path, err)
	}
	return table, nil
}
