package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RunSettings struct {
	IOType       IOType
	IncludeIO    bool
	LogTimings   bool
	ShowResults  bool
	CheckResults bool
	Warmup       int
	Attempts     int
	Parallel     bool
	Threads      int
	CSVDelimiter rune
	CSVChunk     int
}

type PathSettings struct {
	Tables          string
	Answers         string
	Timings         string
	TimingsFilename string
}

type ResultsSettings struct {
	URL string
}

type Settings struct {
	Run         RunSettings
	Paths       PathSettings
	Results     ResultsSettings
	ScaleFactor float64
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func FloatEnv(key string, def float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func runeEnv(key string, def rune) rune {
	value := []rune(StringEnv(key, ""))
	if len(value) != 1 {
		return def
	}
	return value[0]
}

// LoadSettings reads the optional .env file and then the process environment.
// The io type is taken as is, validation happens when a table is read.
func LoadSettings(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}
	return Settings{
		Run: RunSettings{
			IOType:       IOType(strings.ToLower(StringEnv("RUN_IO_TYPE", string(IOTypeParquet)))),
			IncludeIO:    BoolEnv("RUN_INCLUDE_IO", true),
			LogTimings:   BoolEnv("RUN_LOG_TIMINGS", false),
			ShowResults:  BoolEnv("RUN_SHOW_RESULTS", false),
			CheckResults: BoolEnv("RUN_CHECK_RESULTS", false),
			Warmup:       IntEnv("RUN_WARMUP", 0),
			Attempts:     IntEnv("RUN_ATTEMPTS", 1),
			Parallel:     BoolEnv("RUN_PARALLEL", true),
			Threads:      IntEnv("RUN_THREADS", 0),
			CSVDelimiter: runeEnv("RUN_CSV_DELIMITER", ','),
			CSVChunk:     IntEnv("RUN_CSV_CHUNK", 1<<16),
		},
		Paths: PathSettings{
			Tables:          StringEnv("PATHS_TABLES", filepath.Join("data", "tables")),
			Answers:         StringEnv("PATHS_ANSWERS", filepath.Join("data", "answers")),
			Timings:         StringEnv("PATHS_TIMINGS", filepath.Join("output", "run")),
			TimingsFilename: StringEnv("PATHS_TIMINGS_FILENAME", "timings.csv"),
		},
		Results: ResultsSettings{
			URL: StringEnv("RESULTS_DB_URL", ""),
		},
		ScaleFactor: FloatEnv("SCALE_FACTOR", 1.0),
	}, nil
}

// DatasetBaseDir is the directory holding the tables of the configured scale factor, e.g. data/tables/scale-1.0.
func (s *Settings) DatasetBaseDir() string {
	return filepath.Join(s.Paths.Tables, "scale-"+formatScaleFactor(s.ScaleFactor))
}

func (s *Settings) TimingsPath() string {
	return filepath.Join(s.Paths.Timings, s.Paths.TimingsFilename)
}

func formatScaleFactor(sf float64) string {
	formatted := strconv.FormatFloat(sf, 'f', -1, 64)
	if !strings.ContainsAny(formatted, ".eE") {
		formatted += ".0"
	}
	return formatted
}
