package main

import (
	"fmt"
	"path/filepath"
)

// TablePath resolves a table name against the dataset directory and the configured io type.
// Names are not validated: an unknown name resolves to a file that does not exist.
func TablePath(settings *Settings, name TableName) string {
	return filepath.Join(settings.DatasetBaseDir(), fmt.Sprintf("%v.%v", name, settings.Run.IOType.Extension()))
}

func AnswerPath(settings *Settings, queryNumber int) string {
	return filepath.Join(settings.Paths.Answers, fmt.Sprintf("q%v.parquet", queryNumber))
}
