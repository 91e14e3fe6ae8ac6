package model

import "time"

// RowError records a single failed row in an import batch. Row numbers are
// 1-based spreadsheet rows (data row index + 2, accounting for the header).
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportSummary is the aggregate outcome of one import batch.
type ImportSummary struct {
	Imported     int        `json:"imported"`
	Errors       int        `json:"errors"`
	Skipped      int        `json:"skipped"`
	ErrorDetails []RowError `json:"errorDetails"`
	Total        int        `json:"total"`
}

// ImportRun is the persisted audit record of one import batch.
type ImportRun struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Agent     string        `json:"agent"`
	Summary   ImportSummary `json:"summary"`
	CreatedAt time.Time     `json:"created_at"`
}
