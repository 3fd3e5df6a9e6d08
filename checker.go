package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var ErrResultMismatch = errors.New("query result does not match the answer")

const answerTolerance = 1e-2

// AnswerChecker compares eager query results with the answers stored as q<N>.parquet.
type AnswerChecker struct {
	Settings *Settings
	mem      memory.Allocator
}

func NewAnswerChecker(settings *Settings, mem memory.Allocator) *AnswerChecker {
	return &AnswerChecker{Settings: settings, mem: mem}
}

func (c *AnswerChecker) Check(result arrow.Table, queryNumber int) error {
	path := AnswerPath(c.Settings, queryNumber)
	reader := &parquetReader{mem: c.mem}
	expected, err := reader.ReadTable(context.Background(), path)
	if err != nil {
		return fmt.Errorf("failed to load answer for query %v: %w", queryNumber, err)
	}
	defer expected.Release()
	return CompareTables(result, expected)
}

// CompareTables requires the same column names, row count and values up to answerTolerance.
func CompareTables(result, expected arrow.Table) error {
	resultNames, expectedNames := columnNames(result), columnNames(expected)
	if !slices.Equal(resultNames, expectedNames) {
		return fmt.Errorf("%w: columns %v != %v", ErrResultMismatch, resultNames, expectedNames)
	}
	if result.NumRows() != expected.NumRows() {
		return fmt.Errorf("%w: rows %v != %v", ErrResultMismatch, result.NumRows(), expected.NumRows())
	}
	for i := 0; i < int(result.NumCols()); i++ {
		got, want := result.Column(i), expected.Column(i)
		if !arrow.TypeEqual(got.DataType(), want.DataType()) {
			return fmt.Errorf("%w: column %v type %v != %v", ErrResultMismatch, got.Name(), got.DataType(), want.DataType())
		}
		if !array.ChunkedApproxEqual(got.Data(), want.Data(), array.WithAbsTolerance(answerTolerance), array.WithNaNsEqual(true)) {
			return fmt.Errorf("%w: column %v values differ", ErrResultMismatch, got.Name())
		}
	}
	return nil
}

func columnNames(table arrow.Table) []string {
	names := make([]string, 0, table.NumCols())
	for _, field := range table.Schema().Fields() {
		names = append(names, field.Name)
	}
	return names
}
