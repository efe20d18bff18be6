package parser

import "github.com/vgrebnev/tabparse/internal/table"

// PSVParser reads pipe-delimited text with a header row. Values pass
// through as inferred; no boolean normalization is applied.
type PSVParser struct{}

func (PSVParser) Parse(path string) (*table.Table, error) {
	headers, records, err := readDelimited(path, '|')
	if err != nil {
		return nil, err
	}
	return table.Infer(headers, records, table.DefaultOptions()), nil
}
