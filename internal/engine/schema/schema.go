// Package schema resolves heterogeneous access-log tables into canonical
// LogRecords. Column names are matched case-insensitively against a fixed
// alias table; there is no fuzzy matching.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/ashvale/logwarden/internal/model"
)

// Canonical field names, in resolution order.
const (
	FieldAddress   = "address"
	FieldTimestamp = "timestamp"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status"
)

// aliases maps each canonical field to the header names that resolve to it.
// The canonical name itself is always accepted. "staus" is a deliberate
// typo alias seen in real-world exports.
var aliases = map[string][]string{
	FieldAddress:   {"address", "ip", "ip_address", "source_ip", "client_ip"},
	FieldTimestamp: {"timestamp", "time", "datetime", "event_time"},
	FieldEndpoint:  {"endpoint", "url", "uri", "path", "request"},
	FieldStatus:    {"status", "staus", "response_code", "status_code"},
}

var requiredFields = []string{FieldAddress, FieldTimestamp, FieldEndpoint, FieldStatus}

// ValidationError reports a required canonical field with no matching header.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: no column resolvable to required field %q", e.Field)
}

// Result carries the normalized records plus the count of rows excluded
// for row-level parse failures.
type Result struct {
	Records []model.LogRecord
	Dropped int
}

// Normalizer maps raw tables onto the canonical record shape.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize resolves the header against the alias table and converts each
// row into a LogRecord. A header that cannot satisfy every required field
// fails with ValidationError. Rows whose timestamp or status cannot be
// parsed, or whose address or endpoint is empty, are dropped and counted.
func (n *Normalizer) Normalize(header []string, rows [][]string) (Result, error) {
	cols, err := resolveColumns(header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Records: make([]model.LogRecord, 0, len(rows))}
	for _, row := range rows {
		rec, ok := parseRow(row, cols)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// columns holds the resolved index of each canonical field within a row.
type columns struct {
	address, timestamp, endpoint, status int
}

func resolveColumns(header []string) (columns, error) {
	fold := cases.Fold()
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := fold.String(strings.TrimSpace(h))
		if _, exists := byName[name]; !exists {
			byName[name] = i
		}
	}

	resolved := make(map[string]int, len(requiredFields))
	for _, field := range requiredFields {
		idx := -1
		for _, alias := range aliases[field] {
			if i, ok := byName[alias]; ok {
				idx = i
				break
			}
		}
		if idx < 0 {
			return columns{}, &ValidationError{Field: field}
		}
		resolved[field] = idx
	}

	return columns{
		address:   resolved[FieldAddress],
		timestamp: resolved[FieldTimestamp],
		endpoint:  resolved[FieldEndpoint],
		status:    resolved[FieldStatus],
	}, nil
}

func parseRow(row []string, cols columns) (model.LogRecord, bool) {
	max := cols.address
	for _, i := range []int{cols.timestamp, cols.endpoint, cols.status} {
		if i > max {
			max = i
		}
	}
	if len(row) <= max {
		return model.LogRecord{}, false
	}

	addr := strings.TrimSpace(row[cols.address])
	endpoint := strings.TrimSpace(row[cols.endpoint])
	if addr == "" || endpoint == "" {
		return model.LogRecord{}, false
	}

	ts, err := ParseTimestamp(strings.TrimSpace(row[cols.timestamp]))
	if err != nil {
		return model.LogRecord{}, false
	}

	status, err := parseStatus(strings.TrimSpace(row[cols.status]))
	if err != nil {
		return model.LogRecord{}, false
	}

	return model.LogRecord{
		Address:   addr,
		Timestamp: ts,
		Endpoint:  endpoint,
		Status:    status,
	}, true
}

// timestampLayouts are tried in order after RFC 3339.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses a timestamp cell. Accepts RFC 3339, common
// date-time layouts (interpreted as UTC), and unix seconds. Negative unix
// timestamps are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("schema: empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs < 0 {
			return time.Time{}, fmt.Errorf("schema: negative unix timestamp %d", secs)
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("schema: unparsable timestamp %q", s)
}

// parseStatus parses an HTTP-style status code cell. Codes outside
// [100,599] are treated as unparsable.
func parseStatus(s string) (int, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("schema: unparsable status %q", s)
	}
	if code < 100 || code > 599 {
		return 0, fmt.Errorf("schema: status %d outside HTTP range", code)
	}
	return code, nil
}
