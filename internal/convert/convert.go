// Package convert turns spreadsheet workbooks into delimited text files,
// streaming rows from disk when the workbook format allows it.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/vgrebnev/tabparse/internal/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Convert writes the active sheet of the workbook at srcPath to dstPath as
// delimited text. Zipped-XML workbooks are iterated row by row without
// materializing the document; legacy binary workbooks have no streaming
// reader and are loaded whole before serialization. A nil logger suppresses
// progress messages. Any open, parse or write failure propagates to the
// caller; the destination may be left partial on failure.
func Convert(srcPath, dstPath string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	var err error
	if parser.ZipXML(strings.ToLower(filepath.Ext(srcPath))) {
		logger.Info("streaming workbook conversion", zap.String("source", srcPath))
		err = streamRows(srcPath, dstPath)
	} else {
		logger.Info("full-load workbook conversion", zap.String("source", srcPath))
		err = convertLoaded(srcPath, dstPath)
	}
	if err != nil {
		return err
	}

	logger.Info("workbook converted",
		zap.String("source", srcPath),
		zap.String("destination", dstPath),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// streamRows iterates the active sheet lazily and writes one record per
// populated row. Rows with no non-empty cell are dropped: spreadsheet
// exports commonly carry blank trailing rows that would otherwise surface
// as empty records in the destination.
func streamRows(srcPath, dstPath string) error {
	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", srcPath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	dst, err := newDestWriter(dstPath)
	if err != nil {
		return err
	}
	defer dst.file.Close()

	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if blankRow(record) {
			continue
		}
		if err := dst.csv.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	return dst.Close()
}

// convertLoaded is the fallback for legacy binary workbooks: load the whole
// sheet into a table, then serialize it row by row with the same encoding
// policy as the streaming path.
func convertLoaded(srcPath, dstPath string) error {
	tbl, err := parser.ExcelParser{}.Parse(srcPath)
	if err != nil {
		return err
	}

	dst, err := newDestWriter(dstPath)
	if err != nil {
		return err
	}
	defer dst.file.Close()

	if err := dst.csv.Write(tbl.Headers()); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i := 0; i < tbl.Rows(); i++ {
		if err := dst.csv.Write(tbl.Record(i)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	return dst.Close()
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

// destWriter layers a CSV writer over a latin-1 encoder. Runes outside the
// character set are substituted with the encoding's replacement byte.
type destWriter struct {
	file *os.File
	enc  io.WriteCloser
	csv  *csv.Writer
}

func newDestWriter(path string) (*destWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	enc := transform.NewWriter(file, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
	w := csv.NewWriter(enc)
	w.UseCRLF = runtime.GOOS == "windows"
	return &destWriter{file: file, enc: enc, csv: w}, nil
}

// Close flushes buffered records through the encoder and releases the file.
func (d *destWriter) Close() error {
	d.csv.Flush()
	if err := d.csv.Error(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	if err := d.enc.Close(); err != nil {
		return fmt.Errorf("flush encoder: %w", err)
	}
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
