package main

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

func HostStat() SysInfo {
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat, err := host.Info(); err == nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, cpu := range cpuStat {
			totalFreq += cpu.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

// Queries holds the query implementations run after the tables are loaded, keyed by query number.
var Queries = map[int]QueryFunc{}

type System struct {
	settings *Settings
	tables   *Tables
	storage  *Storage
	runner   Runner
	queries  map[int]QueryFunc
}

func NewSystem(settings *Settings, tables *Tables, storage *Storage, runner Runner, queries map[int]QueryFunc) *System {
	return &System{settings: settings, tables: tables, storage: storage, runner: runner, queries: queries}
}

// Run loads every table through the cache, reports how long each load took and then runs the queries.
func (s *System) Run(ctx context.Context) error {
	Logger.Infof("start loading tables")

	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	if _, err := ParseIOType(string(s.settings.Run.IOType)); err != nil {
		return err
	}
	if s.settings.Run.Threads > 0 {
		previous := runtime.GOMAXPROCS(s.settings.Run.Threads)
		Logger.Infof("set GOMAXPROCS to %v (was %v)", s.settings.Run.Threads, previous)
	}

	if s.storage != nil {
		err := s.storage.InitResultsDb(map[string]any{
			"solution":     RapidsLabel,
			"io_type":      s.settings.Run.IOType,
			"scale_factor": s.settings.ScaleFactor,
			"arch":         info.Arch,
			"hostname":     info.Hostname,
			"platform":     info.Platform,
			"ram":          info.RAM,
			"cpu":          info.CPUCount,
			"freq":         info.CPUFreq,
		})
		if err != nil {
			return fmt.Errorf("unable to initialize benchmark results db: %w", err)
		}
	}

	for _, name := range AllTables {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		table, err := s.tables.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load table %v: %w", name, err)
		}
		elapsed := time.Since(start)
		Logger.Infof("loaded table %v: rows=%v, columns=%v, elapsed=%v", name, table.NumRows(), table.NumCols(), elapsed)

		if s.storage != nil {
			timing := Timing{
				Solution:    RapidsLabel,
				Version:     Version,
				Duration:    elapsed,
				IOType:      s.settings.Run.IOType,
				ScaleFactor: s.settings.ScaleFactor,
			}
			if err := s.storage.RecordMeasurement(timing, fmt.Sprintf("load_%v", name)); err != nil {
				return fmt.Errorf("failed to record load of table %v: %w", name, err)
			}
		}
	}

	for _, name := range AllTables {
		first, err := s.tables.Get(ctx, name)
		if err != nil {
			return err
		}
		second, err := s.tables.Get(ctx, name)
		if err != nil {
			return err
		}
		if first != second {
			return fmt.Errorf("table %v was read twice", name)
		}
	}
	Logger.Infof("finished loading %v tables from %v", len(AllTables), s.settings.DatasetBaseDir())
	return s.runQueries(ctx)
}

func (s *System) runQueries(ctx context.Context) error {
	if s.runner == nil || len(s.queries) == 0 {
		Logger.Infof("no queries to run")
		return nil
	}
	numbers := make([]int, 0, len(s.queries))
	for number := range s.queries {
		numbers = append(numbers, number)
	}
	slices.Sort(numbers)
	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runner.RunQuery(ctx, number, s.queries[number]); err != nil {
			return fmt.Errorf("failed to run %v query %v: %w", s.runner.Name(), number, err)
		}
	}
	return nil
}
