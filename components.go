package main

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// QueryFunc computes a query result, usually from the tables of a Tables cache.
// The result is released by the caller.
type QueryFunc func(ctx context.Context) (arrow.Table, error)

type QueryChecker func(result arrow.Table, queryNumber int) error

type Runner interface {
	Name() string
	RunQuery(ctx context.Context, queryNumber int, query QueryFunc) error
}

type Timing struct {
	Solution    string
	Version     string
	QueryNumber int
	Duration    time.Duration
	IOType      IOType
	ScaleFactor float64
}

type Recorder interface {
	RecordTiming(timing Timing) error
}
