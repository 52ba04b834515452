package model

import "time"

// LogRecord is the canonical per-request record produced by schema
// normalization and consumed by the feature aggregator.
// All four fields are resolved and populated; Status is an HTTP-style code.
type LogRecord struct {
	Address   string
	Timestamp time.Time
	Endpoint  string
	Status    int
}

// Failed reports whether the request is counted as a failure.
func (r LogRecord) Failed() bool {
	return r.Status >= 400
}
