package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage keeps benchmark parameters and measurements in a libsql database.
type Storage struct {
	DB *sql.DB
}

func ConnectStorage(url string) (*Storage, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, err
	}
	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) InitResultsDb(meta map[string]any) error {
	_, err := s.DB.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		parameters = append(parameters, key, fmt.Sprintf("%v", meta[key]))
	}
	placeholders := strings.Join(slices.Repeat([]string{"(?, ?)"}, len(parameters)/2), ", ")
	_, err = s.DB.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		solution TEXT,
		version TEXT,
		io_type TEXT,
		scale_factor REAL,
		name TEXT,
		measurement TEXT,
		value REAL
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized database for benchmark results with meta %v", meta)
	return nil
}

func (s *Storage) Parameters() (map[string]string, error) {
	rows, err := s.DB.Query("SELECT name, value FROM parameters")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make(map[string]string, 0)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		results[name] = value
	}
	return results, rows.Err()
}

func (s *Storage) RecordTiming(timing Timing) error {
	return s.RecordMeasurement(timing, fmt.Sprintf("q%v", timing.QueryNumber))
}

// RecordMeasurement stores the duration of the named step (a query or a table load).
func (s *Storage) RecordMeasurement(timing Timing, name string) error {
	tx, err := s.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		"INSERT INTO measurements VALUES (?, ?, ?, ?, ?, ?, ?)",
		timing.Solution,
		timing.Version,
		string(timing.IOType),
		timing.ScaleFactor,
		name,
		"total_time",
		timing.Duration.Seconds(),
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
