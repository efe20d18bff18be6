package parser

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/vgrebnev/tabparse/internal/table"
	"github.com/xuri/excelize/v2"
)

var zipXMLExts = map[string]bool{".xlsx": true, ".xlsm": true, ".xltx": true}

// ZipXML reports whether ext (lowercase, with leading dot) names a
// zipped-XML workbook format.
func ZipXML(ext string) bool {
	return zipXMLExts[ext]
}

// ExcelParser reads the active sheet of a spreadsheet workbook. Workbooks
// with a zipped-XML extension go through excelize; anything else is handed
// to the legacy BIFF reader as a best effort rather than rejected.
type ExcelParser struct{}

func (ExcelParser) Parse(path string) (*table.Table, error) {
	// Extension dispatch is fragile to stray whitespace in caller-supplied paths.
	clean := strings.TrimSpace(path)
	if ZipXML(strings.ToLower(filepath.Ext(clean))) {
		return parseZipXML(clean)
	}
	return parseLegacy(clean)
}

func parseZipXML(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("missing header row")}
	}
	return table.Infer(rows[0], rows[1:], table.DefaultOptions()), nil
}

func parseLegacy(path string) (*table.Table, error) {
	wb, closer, err := xls.OpenWithCloser(path, "utf-8")
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer closer.Close()

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("missing header row")}
	}
	return table.Infer(rows[0], rows[1:], table.DefaultOptions()), nil
}
