package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVToExcelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.csv")
	content := "name,note\nalpha,clean value\nbeta,bad\x01\x0bvalue\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0o600))

	tbl, err := (CSVToExcelParser{}).Parse(src)
	require.NoError(t, err)

	// returned table is already sanitized
	assert.Equal(t, "badvalue", tbl.Column("note").Cells[1])

	outPath := filepath.Join(dir, "data.xlsx")
	_, err = os.Stat(outPath)
	require.NoError(t, err, "sibling workbook must be written")

	again, err := (ExcelParser{}).Parse(outPath)
	require.NoError(t, err)

	require.Equal(t, tbl.Rows(), again.Rows())
	assert.Equal(t, []string{"name", "note"}, again.Headers())
	assert.Equal(t, "clean value", again.Column("note").Cells[0])
	assert.Equal(t, "badvalue", again.Column("note").Cells[1])
}

func TestSanitizeXML(t *testing.T) {
	assert.Equal(t, "plain", sanitizeXML("plain"))
	assert.Equal(t, "ab", sanitizeXML("a\x00\x08\x0b\x0c\x0e\x1fb"))
	assert.Equal(t, "ab", sanitizeXML("a\x7fb"))
	assert.Equal(t, "ab", sanitizeXML("a\ufdd0\ufddf\ufffe\uffffb"))
	// tab, newline and ordinary unicode survive
	assert.Equal(t, "a\tb\ncé", sanitizeXML("a\tb\ncé"))
}

func TestCSVToExcelNonTextCellsUntouched(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "nums.csv")
	require.NoError(t, os.WriteFile(src, []byte("n,f\n1,1.5\n2,2.5\n"), 0o600))

	tbl, err := (CSVToExcelParser{}).Parse(src)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tbl.Column("n").Cells[0])
	assert.Equal(t, 2.5, tbl.Column("f").Cells[1])
}
