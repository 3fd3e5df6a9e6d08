package main

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported file type")

type IOType string

const (
	IOTypeParquet IOType = "parquet"
	IOTypeCSV     IOType = "csv"
	IOTypeFeather IOType = "feather"
	// IOTypeSkip reads the parquet files; only the timing of IO differs.
	IOTypeSkip IOType = "skip"
)

var IOTypes = []IOType{IOTypeParquet, IOTypeCSV, IOTypeFeather, IOTypeSkip}

func ParseIOType(value string) (IOType, error) {
	ioType := IOType(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range IOTypes {
		if ioType == known {
			return ioType, nil
		}
	}
	return "", unsupportedFormat(value)
}

func unsupportedFormat(value string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
}

// Extension is the file extension of tables stored for the io type.
func (t IOType) Extension() string {
	if t == IOTypeSkip {
		return string(IOTypeParquet)
	}
	return string(t)
}
