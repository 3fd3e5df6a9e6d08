package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	settings, err := LoadSettings()
	if err != nil {
		Logger.Fatalf("failed to load settings: %v", err)
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		logger, err := NewLogger(level)
		if err != nil {
			Logger.Fatalf("failed to initialize logger: %v", err)
		}
		Logger = logger
	}
	defer Logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	recorders := []Recorder{NewTimingsFile(settings.TimingsPath(), Pool)}
	var storage *Storage
	if settings.Results.URL != "" {
		storage, err = ConnectStorage(settings.Results.URL)
		if err != nil {
			Logger.Fatalf("failed to open results db: %v", err)
		}
		defer storage.Close()
		recorders = append(recorders, storage)
	}

	tables := NewTables(NewReader(&settings, Pool))
	defer tables.Release()

	runner := NewRunnerRapids(tables, NewBenchmark(&settings, recorders...), NewAnswerChecker(&settings, Pool))
	system := NewSystem(&settings, tables, storage, runner, Queries)
	if err := system.Run(ctx); err != nil {
		Logger.Errorf("benchmark failed: %v", err)
		os.Exit(1)
	}
}
