package ingest

import (
	"bytes"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestParseSheet_CSV(t *testing.T) {
	t.Parallel()

	data := []byte("Name,Email,Company\nJo Field,jo@acme.test,Acme\n,,\nSam Rowe,sam@bolt.test,Bolt\n")
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Email", "Company"}, table.Headers)
	require.Len(t, table.Rows, 2, "all-blank rows are dropped")
	assert.Equal(t, "Jo Field", table.Rows[0]["Name"])
	assert.Equal(t, "sam@bolt.test", table.Rows[1]["Email"])
}

func TestParseSheet_DuplicateHeaders(t *testing.T) {
	t.Parallel()

	data := []byte("Name,Email,Email\nJo Field,jo@acme.test,jo@home.test\n")
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Email", "Email (2)"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "jo@acme.test", table.Rows[0]["Email"])
	assert.Equal(t, "jo@home.test", table.Rows[0]["Email (2)"], "second column keeps its value")
}

func TestParseSheet_TSV(t *testing.T) {
	t.Parallel()

	data := []byte("Name\tEmail\nJo Field\tjo@acme.test\n")
	table, err := ParseSheet(data, "leads.tsv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "jo@acme.test", table.Rows[0]["Email"])
}

func TestParseSheet_TXTSniffsDelimiter(t *testing.T) {
	t.Parallel()

	tabbed := []byte("Name\tEmail\nJo\tjo@acme.test\n")
	table, err := ParseSheet(tabbed, "export.txt")
	require.NoError(t, err)
	assert.Equal(t, "jo@acme.test", table.Rows[0]["Email"])

	comma := []byte("Name,Email\nJo,jo@acme.test\n")
	table, err = ParseSheet(comma, "export.txt")
	require.NoError(t, err)
	assert.Equal(t, "jo@acme.test", table.Rows[0]["Email"])
}

func TestParseSheet_XLSX(t *testing.T) {
	t.Parallel()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)
	for _, rec := range [][]string{
		{"Name", "Email"},
		{"Jo Field", "jo@acme.test"},
		{"", ""},
		{"Sam Rowe", "sam@bolt.test"},
	} {
		row := sheet.AddRow()
		for _, cell := range rec {
			row.AddCell().SetString(cell)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := ParseSheet(buf.Bytes(), "leads.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Email"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Sam Rowe", table.Rows[1]["Name"])
}

func TestParseSheet_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := ParseSheet([]byte("{}"), "leads.json")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}

func TestParseSheet_EmptyFile(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"nothing":      []byte(""),
		"header only":  []byte("Name,Email\n"),
		"blank rows":   []byte("Name,Email\n,,\n , \n"),
		"blank header": []byte("\n\n"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSheet(data, "leads.csv")
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrEmptyFile))
		})
	}
}

func TestParseSheet_TooLarge(t *testing.T) {
	t.Parallel()

	_, err := ParseSheet(make([]byte, MaxUploadBytes+1), "leads.csv")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrFileTooLarge))
}

func TestParseSheet_StripsBOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name,Email\nJo,jo@acme.test\n")...)
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)
	assert.Equal(t, "Name", table.Headers[0], "BOM must not leak into the first header")
}

func TestParseSheet_Windows1252(t *testing.T) {
	t.Parallel()

	// "Renée" with a latin-1 é (0xE9), invalid as UTF-8.
	data := []byte("Name,Email\nRen\xe9e,renee@acme.test\n")
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)
	assert.Equal(t, "Renée", table.Rows[0]["Name"])
}

func TestParseSheet_SkipsLeadingBlankRows(t *testing.T) {
	t.Parallel()

	data := []byte("\n , \nName,Email\nJo,jo@acme.test\n")
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Email"}, table.Headers)
	require.Len(t, table.Rows, 1)
}

func TestParseSheet_RaggedRows(t *testing.T) {
	t.Parallel()

	data := []byte("Name,Email,Company\nJo,jo@acme.test\n")
	table, err := ParseSheet(data, "leads.csv")
	require.NoError(t, err)
	assert.Equal(t, "", table.Rows[0]["Company"], "short rows pad with empty cells")
}
