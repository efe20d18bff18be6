package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vgrebnev/tabparse/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVParserBooleanNormalization(t *testing.T) {
	path := writeFile(t, "data.csv", "id,active\n1,true\n2,\n3,FALSE\n4,1\n")

	tbl, err := (CSVParser{}).Parse(path)
	require.NoError(t, err)

	col := tbl.Column("active")
	require.NotNil(t, col)
	assert.Equal(t, table.Bool, col.Kind)
	assert.Equal(t, []any{true, false, false, true}, col.Cells)

	// numeric column is not pulled into the boolean vocabulary
	assert.Equal(t, table.Int, tbl.Column("id").Kind)
}

func TestCSVParserNonBooleanColumnsKeepGaps(t *testing.T) {
	path := writeFile(t, "data.csv", "name,qty\nalpha,1\n,2\n")

	tbl, err := (CSVParser{}).Parse(path)
	require.NoError(t, err)

	names := tbl.Column("name")
	assert.Equal(t, table.String, names.Kind)
	assert.Equal(t, "alpha", names.Cells[0])
	assert.Nil(t, names.Cells[1])
}

func TestCSVParserHeaderOnly(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n")

	tbl, err := (CSVParser{}).Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
	assert.Equal(t, 0, tbl.Rows())
}

func TestCSVParserMissingFile(t *testing.T) {
	_, err := (CSVParser{}).Parse(filepath.Join(t.TempDir(), "absent.csv"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestCSVParserMalformed(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n\"unterminated\n")

	_, err := (CSVParser{}).Parse(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestPSVParserNoBooleanCoercion(t *testing.T) {
	path := writeFile(t, "data.psv", "a|b\n1|true\n2|\n")

	tbl, err := (PSVParser{}).Parse(path)
	require.NoError(t, err)

	assert.Equal(t, table.Int, tbl.Column("a").Kind)

	b := tbl.Column("b")
	assert.Equal(t, table.Bool, b.Kind)
	assert.Equal(t, true, b.Cells[0])
	// no null-fill pass on the pipe variant
	assert.Nil(t, b.Cells[1])
}

func TestPSVParserPipeDelimiter(t *testing.T) {
	path := writeFile(t, "data.psv", "city|population\nosaka|2691000\nnagoya|2296000\n")

	tbl, err := (PSVParser{}).Parse(path)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Rows())
	assert.Equal(t, "osaka", tbl.Column("city").Cells[0])
	assert.Equal(t, int64(2296000), tbl.Column("population").Cells[1])
}
