package core

// streaming.go reads and writes Tables as CSV.
//
// Input goes through a UTF-8 decoder that drops a leading BOM (commonly
// added by spreadsheet programs on Windows) and replaces invalid byte
// sequences with U+FFFD, so a badly encoded upload still parses.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WrapForReading returns r with BOM stripping and UTF-8 sanitisation
// applied.
func WrapForReading(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadTable parses CSV from r. The first record is the header. Records may
// have fewer or more fields than the header; short records read as empty
// cells through Table.Cell.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(WrapForReading(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// WriteCSV writes the header and rows of t to w.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
