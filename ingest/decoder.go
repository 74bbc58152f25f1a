// Package ingest implements the FieldHQ file ingestion pipeline: decoding
// uploaded tabular files, normalizing free-form rows into contact records,
// and distributing them across the agent roster.
package ingest

import (
	"strings"

	"github.com/fieldhq/fieldhq/errors"
)

// RawRow maps a trimmed column name to its raw cell value for one data row.
type RawRow map[string]string

// RowReader yields RawRows from an uploaded file.
// It is a finite, single-pass sequence: Next returns io.EOF after the last
// row, and the reader cannot be restarted. Close releases the underlying
// file handle and must be called exactly once.
type RowReader interface {
	Next() (RawRow, error)
	Close() error
}

// Extensions accepted by the pipeline. Anything else is rejected before
// decoding starts.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// AllowedExtension reports whether ext (lowercase, dot included) is on the
// ingestion allow-list.
func AllowedExtension(ext string) bool {
	switch ext {
	case ExtCSV, ExtXLSX, ExtXLS:
		return true
	default:
		return false
	}
}

// OpenReader opens a RowReader for the file at path, declared as ext.
// The reader never mutates or deletes the source file.
func OpenReader(path, ext string) (RowReader, error) {
	switch strings.ToLower(ext) {
	case ExtCSV:
		return openCSVReader(path)
	case ExtXLSX, ExtXLS:
		return openSheetReader(path)
	default:
		return nil, errors.Wrapf(ErrInvalidFileType, "extension %q", ext)
	}
}

// trimKeys returns a RawRow built from headers and cells, trimming header
// whitespace (spreadsheet exports routinely pad column names). Cells beyond
// the header width are dropped; missing trailing cells stay absent.
func trimKeys(headers, cells []string) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		key := strings.TrimSpace(h)
		if key == "" {
			continue
		}
		row[key] = cells[i]
	}
	return row
}

// isBlank reports whether every cell in the slice is empty or whitespace.
func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
