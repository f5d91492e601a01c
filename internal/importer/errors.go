package importer

import (
	"fmt"
	"strings"
)

// RowError is a conversion failure for a single row, 1-based
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// BatchError aggregates every failed row in a batch. Import UIs display its
// message directly, one row per line, so operators can fix an entire
// spreadsheet in one pass.
type BatchError struct {
	Rows []RowError
}

func (e *BatchError) Error() string {
	lines := make([]string, len(e.Rows))
	for i, row := range e.Rows {
		lines[i] = row.Error()
	}
	return strings.Join(lines, "\n")
}
