package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/fieldhq/fieldhq/errors"
)

// csvReader streams rows from a delimited-text file, using the first line
// as column headers. Streaming bounds memory on large uploads.
type csvReader struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
}

func openCSVReader(path string) (RowReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "open csv: %v", err)
	}

	r := csv.NewReader(file)
	// Rows with a different field count than the header are tolerated;
	// normalization decides whether they survive.
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err == io.EOF {
		// Empty file: no headers, no rows. Decoding succeeds with zero rows;
		// the orchestrator reports ErrNoValidRecords.
		return &csvReader{file: file, reader: r}, nil
	}
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(ErrDecode, "read csv header: %v", err)
	}

	return &csvReader{file: file, reader: r, headers: headers}, nil
}

// Next returns the next data row, skipping blank lines and lines that fail
// to parse (malformed delimited text is tolerated row-by-row).
func (c *csvReader) Next() (RawRow, error) {
	if c.headers == nil {
		return nil, io.EOF
	}
	for {
		cells, err := c.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, errors.Wrapf(ErrDecode, "read csv row: %v", err)
		}
		if isBlank(cells) {
			continue
		}
		return trimKeys(c.headers, cells), nil
	}
}

func (c *csvReader) Close() error {
	return c.file.Close()
}
