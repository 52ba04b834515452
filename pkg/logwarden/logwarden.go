package logwarden

import (
	"io"

	"github.com/ashvale/logwarden/internal/engine"
	"github.com/ashvale/logwarden/internal/engine/schema"
	"github.com/ashvale/logwarden/internal/ingest"
)

// ErrEmptyBatch is returned when a table yields no valid records.
var ErrEmptyBatch = engine.ErrEmptyBatch

// SchemaValidationError reports a required column that could not be
// resolved from the table header.
type SchemaValidationError = schema.ValidationError

// Analyzer scores access-log batches for behavioral risk.
// It holds only configuration; every Analyze call trains a fresh model on
// its own batch, so a single Analyzer is safe for concurrent use.
type Analyzer struct {
	engine *engine.Engine
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Analyzer{engine: engine.New(engine.Config{
		Window: o.window,
		Trees:  o.trees,
		Seed:   o.seed,
		Seeded: o.seeded,
	})}
}

// Analyze scores one batch given a header row and data rows.
// Results come back sorted by risk score descending.
func (a *Analyzer) Analyze(header []string, rows [][]string) (Report, error) {
	report, err := a.engine.Analyze(header, rows)
	if err != nil {
		return Report{}, err
	}
	return reportFromInternal(report), nil
}

// AnalyzeCSV reads a CSV table (header row first) and scores it.
func (a *Analyzer) AnalyzeCSV(r io.Reader) (Report, error) {
	header, rows, err := ingest.ReadTable(r)
	if err != nil {
		return Report{}, err
	}
	return a.Analyze(header, rows)
}
