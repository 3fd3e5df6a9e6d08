package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

const Version = "v1"

type Benchmark struct {
	Settings  *Settings
	Warmup    int
	Attempts  int
	Recorders []Recorder
}

func NewBenchmark(settings *Settings, recorders ...Recorder) *Benchmark {
	return &Benchmark{
		Settings:  settings,
		Warmup:    settings.Run.Warmup,
		Attempts:  settings.Run.Attempts,
		Recorders: recorders,
	}
}

func (b *Benchmark) warmup(ctx context.Context, query QueryFunc, queryNumber int, label string) error {
	for i := 0; i < b.Warmup; i++ {
		Logger.Infof("running warmup #%v/%v of %v query %v", i+1, b.Warmup, label, queryNumber)
		result, err := query(ctx)
		if err != nil {
			Logger.Errorf("warmup #%v of %v query %v failed: %v", i+1, label, queryNumber, err)
			return err
		}
		result.Release()
	}
	return nil
}

// RunQueryGeneric times the query, records the timings and optionally checks and prints the
// last result. Errors of the query and of the checker are returned as is.
func (b *Benchmark) RunQueryGeneric(
	ctx context.Context,
	query QueryFunc,
	queryNumber int,
	label string,
	checker QueryChecker,
) error {
	if err := b.warmup(ctx, query, queryNumber, label); err != nil {
		return err
	}

	attempts := max(1, b.Attempts)
	var result arrow.Table
	defer func() {
		if result != nil {
			result.Release()
		}
	}()
	for i := 0; i < attempts; i++ {
		if result != nil {
			result.Release()
			result = nil
		}
		Logger.Infof("running %v query %v #%v/%v", label, queryNumber, i+1, attempts)
		start := time.Now()
		current, err := query(ctx)
		elapsed := time.Since(start)
		if err != nil {
			Logger.Errorf("%v query %v #%v failed: %v", label, queryNumber, i+1, err)
			return err
		}
		result = current
		Logger.Infof("%v query %v #%v finished in %v", label, queryNumber, i+1, elapsed)

		if b.Settings.Run.LogTimings {
			b.record(Timing{
				Solution:    label,
				Version:     Version,
				QueryNumber: queryNumber,
				Duration:    elapsed,
				IOType:      b.Settings.Run.IOType,
				ScaleFactor: b.Settings.ScaleFactor,
			})
		}
	}

	if b.Settings.Run.CheckResults {
		if checker == nil {
			return fmt.Errorf("no result checker for %v query %v", label, queryNumber)
		}
		if err := checker(result, queryNumber); err != nil {
			return err
		}
		Logger.Infof("%v query %v result is correct", label, queryNumber)
	}
	if b.Settings.Run.ShowResults {
		Logger.Infof("%v query %v result:\n%v", label, queryNumber, FormatTable(result, 20))
	}
	return nil
}

// record stores the timing in every recorder; a failing recorder does not fail the query.
func (b *Benchmark) record(timing Timing) {
	for _, recorder := range b.Recorders {
		if err := recorder.RecordTiming(timing); err != nil {
			Logger.Errorf("failed to record timing %+v: %v", timing, err)
		}
	}
}

// FormatTable renders up to limit leading rows of every column.
func FormatTable(table arrow.Table, limit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "shape: (%v, %v)", table.NumRows(), table.NumCols())
	for i := 0; i < int(table.NumCols()); i++ {
		column := table.Column(i)
		fmt.Fprintf(&sb, "\n%v (%v):", column.Name(), column.DataType())
		printed := 0
		for _, chunk := range column.Data().Chunks() {
			for j := 0; j < chunk.Len() && printed < limit; j++ {
				sb.WriteString(" ")
				sb.WriteString(chunk.ValueStr(j))
				printed++
			}
		}
		if int64(printed) < table.NumRows() {
			sb.WriteString(" ...")
		}
	}
	return sb.String()
}
