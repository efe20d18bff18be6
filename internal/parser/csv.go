package parser

import (
	"encoding/csv"
	"errors"
	"os"

	"github.com/vgrebnev/tabparse/internal/table"
)

// Boolean vocabulary for the csv variant. The empty string counts as false
// so that sinks with non-nullable boolean fields never see a null.
var (
	csvTrueTokens  = []string{"true", "True", "TRUE", "1"}
	csvFalseTokens = []string{"false", "False", "FALSE", "0", ""}
)

// CSVParser reads comma-delimited text with a header row. Columns inferred
// as boolean are normalized so that every cell is strictly true or false.
type CSVParser struct{}

func (CSVParser) Parse(path string) (*table.Table, error) {
	headers, records, err := readDelimited(path, ',')
	if err != nil {
		return nil, err
	}
	tbl := table.Infer(headers, records, table.Options{
		TrueTokens:  csvTrueTokens,
		FalseTokens: csvFalseTokens,
	})
	tbl.FillMissingBools()
	return tbl, nil
}

// readDelimited reads a delimited text file and splits off the header row.
// Records may be ragged; missing trailing fields surface as absent cells.
func readDelimited(path string, comma rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil, &ParseError{Path: path, Err: errors.New("missing header row")}
	}
	return rows[0], rows[1:], nil
}
