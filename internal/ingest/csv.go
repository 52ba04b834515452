// Package ingest reads delimited access-log tables for the HTTP layer.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrNoHeader is returned for tables with no header row.
var ErrNoHeader = errors.New("ingest: table has no header row")

// ReadTable parses a CSV stream into a header row and data rows. Rows may
// have ragged widths; row-level validity is the schema normalizer's
// concern, not the reader's.
func ReadTable(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err = cr.Read()
	if err == io.EOF {
		return nil, nil, ErrNoHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read header: %w", err)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return header, rows, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("ingest: read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
}
