package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// MaxUploadBytes caps import file size at 10 MiB.
const MaxUploadBytes = 10 << 20

// Table is the common in-memory representation every supported format
// decodes into. Cells stay strings; typing happens during normalization.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ParseSheet decodes an uploaded file into a Table. The extension decides
// the decoder (.csv/.tsv/.txt text, .xlsx/.xls workbook); unknown
// extensions fail with ErrUnsupportedFormat before any parsing. The first
// non-empty row is the header row, rows where every cell is blank are
// dropped, and a file with no surviving data rows fails with ErrEmptyFile.
func ParseSheet(data []byte, filename string) (*Table, error) {
	if len(data) > MaxUploadBytes {
		return nil, eris.Wrapf(ErrFileTooLarge, "%s (%d bytes)", filename, len(data))
	}

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readDelimited(data, ',')
	case ".tsv":
		records, err = readDelimited(data, '\t')
	case ".txt":
		records, err = readDelimited(data, sniffDelimiter(data))
	case ".xlsx", ".xls":
		records, err = readWorkbook(data)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(records)
}

func buildTable(records [][]string) (*Table, error) {
	// Skip leading blank rows, then take the first non-empty row as header.
	idx := 0
	for idx < len(records) && blankRow(records[idx]) {
		idx++
	}
	if idx >= len(records) {
		return nil, eris.Wrap(ErrEmptyFile, "no header row")
	}

	// Duplicate header names get a numeric suffix so no column shadows
	// another; the renamed copy surfaces as an unmapped column downstream.
	headers := make([]string, len(records[idx]))
	seen := make(map[string]int, len(records[idx]))
	for i, h := range records[idx] {
		h = strings.TrimSpace(h)
		if h != "" {
			seen[h]++
			if n := seen[h]; n > 1 {
				h += " (" + strconv.Itoa(n) + ")"
			}
		}
		headers[i] = h
	}

	var rows []map[string]string
	for _, rec := range records[idx+1:] {
		if blankRow(rec) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, eris.Wrap(ErrEmptyFile, "header only")
	}
	return &Table{Headers: headers, Rows: rows}, nil
}

func blankRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readDelimited(data []byte, delim rune) ([][]string, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read delimited")
		}
		records = append(records, rec)
	}
	return records, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrEmptyFile, "workbook has no sheets")
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return records, nil
}

// decodeText strips a UTF-8 BOM and transcodes non-UTF-8 uploads
// (spreadsheet exports are frequently windows-1252).
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data, nil
	}

	enc, err := htmlindex.Get("windows-1252")
	if err != nil {
		return nil, eris.Wrap(err, "ingest: lookup encoding")
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: decode windows-1252")
	}
	return decoded, nil
}

// sniffDelimiter guesses tab vs comma for .txt uploads from the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}
