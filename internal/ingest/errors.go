// Package ingest turns uploaded spreadsheets into persisted lead records.
// The pipeline is parse, map headers, normalize rows, then persist, with
// per-row failure isolation: only structural problems (bad file type, no
// data rows, oversized upload) abort a batch.
package ingest

import "github.com/rotisserie/eris"

var (
	// ErrUnsupportedFormat rejects files whose extension is not one of
	// .csv, .tsv, .txt, .xlsx, .xls. Checked before any decoding.
	ErrUnsupportedFormat = eris.New("unsupported file format")

	// ErrEmptyFile signals a file with a header but no data rows (or
	// nothing at all). The message is part of the import endpoint contract.
	ErrEmptyFile = eris.New("File has no data rows")

	// ErrFileTooLarge rejects uploads over MaxUploadBytes before parsing.
	ErrFileTooLarge = eris.New("file exceeds maximum upload size")
)
