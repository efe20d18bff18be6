package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vgrebnev/tabparse/internal/table"
	"github.com/xuri/excelize/v2"
)

// CSVToExcelParser reads comma-delimited text and, as a side effect, writes
// the same table to a sibling .xlsx file (same base name, headers, no row
// index) before returning it.
type CSVToExcelParser struct{}

func (CSVToExcelParser) Parse(path string) (*table.Table, error) {
	headers, records, err := readDelimited(path, ',')
	if err != nil {
		return nil, err
	}
	tbl := table.Infer(headers, records, table.DefaultOptions())

	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		for j, v := range col.Cells {
			if s, ok := v.(string); ok {
				col.Cells[j] = sanitizeXML(s)
			}
		}
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	if err := writeWorkbook(outPath, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}

// writeWorkbook streams the table into a new workbook row by row.
func writeWorkbook(path string, tbl *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter("Sheet1")
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headerRow := make([]interface{}, len(tbl.Columns))
	for i, col := range tbl.Columns {
		headerRow[i] = col.Name
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i := 0; i < tbl.Rows(); i++ {
		rowData := make([]interface{}, len(tbl.Columns))
		for j := range tbl.Columns {
			rowData[j] = tbl.Columns[j].Cells[i]
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, rowData); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// illegalXMLRune reports runes the xlsx XML serialization cannot carry.
// The ranges are the XML 1.0 restricted set; writing them produces corrupt
// workbooks, so matching cells are stripped before the workbook is written.
func illegalXMLRune(r rune) bool {
	switch {
	case r <= 0x08,
		r == 0x0b, r == 0x0c,
		r >= 0x0e && r <= 0x1f,
		r >= 0x7f && r <= 0x84,
		r >= 0x86 && r <= 0x9f,
		r >= 0xfdd0 && r <= 0xfddf,
		r == 0xfffe, r == 0xffff:
		return true
	}
	return false
}

func sanitizeXML(s string) string {
	if !strings.ContainsFunc(s, illegalXMLRune) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if illegalXMLRune(r) {
			return -1
		}
		return r
	}, s)
}
