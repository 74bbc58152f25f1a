package ingest

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fieldhq/fieldhq/errors"
)

// sheetReader yields rows from the first sheet of a spreadsheet workbook.
// Malformed workbook structure fails on the whole-file open; individual
// cells come back as formatted strings with no type coercion.
type sheetReader struct {
	headers []string
	rows    [][]string
	pos     int
}

func openSheetReader(path string) (RowReader, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "open workbook: %v", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(ErrDecode, "workbook has no sheets")
	}

	// First sheet only; remaining sheets are ignored
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "read sheet %q: %v", sheets[0], err)
	}

	if len(rows) == 0 {
		return &sheetReader{}, nil
	}
	return &sheetReader{headers: rows[0], rows: rows[1:]}, nil
}

func (s *sheetReader) Next() (RawRow, error) {
	for s.pos < len(s.rows) {
		cells := s.rows[s.pos]
		s.pos++
		if isBlank(cells) {
			continue
		}
		return trimKeys(s.headers, cells), nil
	}
	return nil, io.EOF
}

func (s *sheetReader) Close() error {
	// The workbook is fully read at open; nothing is held
	return nil
}
