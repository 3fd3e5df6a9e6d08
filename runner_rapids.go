package main

import "context"

const RapidsLabel = "rapids"

var _ Runner = (*RunnerRapids)(nil)

// RunnerRapids runs queries over eager in-memory arrow tables.
type RunnerRapids struct {
	Tables    *Tables
	Benchmark *Benchmark
	Checker   *AnswerChecker
}

func NewRunnerRapids(tables *Tables, benchmark *Benchmark, checker *AnswerChecker) *RunnerRapids {
	return &RunnerRapids{Tables: tables, Benchmark: benchmark, Checker: checker}
}

func (r *RunnerRapids) Name() string { return RapidsLabel }

func (r *RunnerRapids) RunQuery(ctx context.Context, queryNumber int, query QueryFunc) error {
	if !r.Benchmark.Settings.Run.IncludeIO {
		if err := r.Tables.Preload(ctx); err != nil {
			return err
		}
	}
	var checker QueryChecker
	if r.Checker != nil {
		checker = r.Checker.Check
	}
	return r.Benchmark.RunQueryGeneric(ctx, query, queryNumber, RapidsLabel, checker)
}
