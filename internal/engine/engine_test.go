package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ashvale/logwarden/internal/engine/schema"
	"github.com/ashvale/logwarden/internal/engine/testdata"
	"github.com/ashvale/logwarden/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seededEngine() *Engine {
	return New(Config{Seed: 42, Seeded: true})
}

// busyPlusAttacker builds the canonical two-address batch: one busy,
// healthy address over several windows, and one sparse address issuing
// only failing requests.
func busyPlusAttacker() [][]string {
	endpoints := []string{"/", "/api/v1/items", "/static/app.js"}
	var rows [][]string
	for w := 0; w < 6; w++ {
		start := t0.Add(time.Duration(w) * 5 * time.Minute)
		// Slight jitter in volume so no feature column is constant.
		count := 100 + w%3
		rows = append(rows, testdata.SteadyTraffic("198.51.100.7", start, count, 2*time.Second, endpoints, 200)...)
	}
	// Two failing requests, 300 seconds apart, single endpoint.
	rows = append(rows, testdata.SteadyTraffic("203.0.113.66", t0.Add(90*time.Second), 2, 300*time.Second, []string{"/admin"}, 500)...)
	return rows
}

func TestAnalyzeEndToEnd(t *testing.T) {
	report, err := seededEngine().Analyze(testdata.Header(), busyPlusAttacker())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 8 {
		t.Fatalf("expected 8 scored windows, got %d", len(report.Results))
	}

	var attackerMin, busyMax float64
	attackerMin = 101
	for _, r := range report.Results {
		if r.RiskScore < 0 || r.RiskScore > 100 {
			t.Fatalf("risk score out of bounds: %v", r.RiskScore)
		}
		if r.Features.SuccessRatio < 0 || r.Features.SuccessRatio > 1 {
			t.Fatalf("success ratio out of bounds: %v", r.Features.SuccessRatio)
		}
		switch r.Address {
		case "203.0.113.66":
			if r.RiskScore < attackerMin {
				attackerMin = r.RiskScore
			}
		case "198.51.100.7":
			if r.RiskScore > busyMax {
				busyMax = r.RiskScore
			}
		default:
			t.Fatalf("unexpected address %q", r.Address)
		}
	}
	if attackerMin <= busyMax {
		t.Fatalf("attacker windows must outscore busy address: attacker min %v, busy max %v", attackerMin, busyMax)
	}

	// Results are sorted by risk descending.
	for i := 1; i < len(report.Results); i++ {
		if report.Results[i-1].RiskScore < report.Results[i].RiskScore {
			t.Fatal("results not sorted by risk score descending")
		}
	}
}

func TestAnalyzeSeedIdempotent(t *testing.T) {
	rows := busyPlusAttacker()

	a, err := seededEngine().Analyze(testdata.Header(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := seededEngine().Analyze(testdata.Header(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same batch and seed produced different reports")
	}
}

func TestAnalyzeDegenerateBatch(t *testing.T) {
	rows := testdata.SteadyTraffic("10.0.0.1", t0, 3, 10*time.Second, []string{"/x"}, 200)

	report, err := seededEngine().Analyze(testdata.Header(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(report.Results))
	}
	r := report.Results[0]
	if r.RiskScore != 0 {
		t.Fatalf("single-window batch must score 0, got %v", r.RiskScore)
	}
	if r.RiskLevel != model.RiskLow {
		t.Fatalf("expected LOW, got %s", r.RiskLevel)
	}
}

func TestAnalyzeSchemaTolerance(t *testing.T) {
	header := []string{"IP", "Time", "URL", "staus"}
	rows := [][]string{
		{"10.0.0.1", "2026-03-01T12:00:00Z", "/a", "200"},
		{"10.0.0.2", "2026-03-01T12:00:10Z", "/b", "500"},
	}

	report, err := New(Config{Seeded: true}).Analyze(header, rows)
	if err != nil {
		t.Fatalf("expected aliased header to normalize, got %v", err)
	}
	if report.Summary.TotalAddresses != 2 {
		t.Fatalf("expected 2 addresses, got %d", report.Summary.TotalAddresses)
	}
}

func TestAnalyzeMissingColumn(t *testing.T) {
	header := []string{"ip", "timestamp", "endpoint"}

	_, err := seededEngine().Analyze(header, nil)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != schema.FieldStatus {
		t.Fatalf("expected missing field %q, got %q", schema.FieldStatus, verr.Field)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	header := testdata.Header()

	if _, err := seededEngine().Analyze(header, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch for zero rows, got %v", err)
	}

	// All rows invalid counts the same as none.
	rows := [][]string{
		{"10.0.0.1", "garbage", "/a", "200"},
		{"10.0.0.1", "2026-03-01T12:00:00Z", "/a", "garbage"},
	}
	if _, err := seededEngine().Analyze(header, rows); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch for all-dropped rows, got %v", err)
	}
}

func TestAnalyzeCountsDroppedRows(t *testing.T) {
	rows := testdata.SteadyTraffic("10.0.0.1", t0, 4, time.Second, []string{"/x"}, 200)
	rows = append(rows, []string{"10.0.0.1", "not-a-time", "/x", "200"})

	report, err := seededEngine().Analyze(testdata.Header(), rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.DroppedRows != 1 {
		t.Fatalf("expected 1 dropped row, got %d", report.Summary.DroppedRows)
	}
}

func TestAnalyzeSummary(t *testing.T) {
	report, err := seededEngine().Analyze(testdata.Header(), busyPlusAttacker())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := report.Summary
	if s.TotalAddresses != 2 {
		t.Fatalf("expected 2 distinct addresses, got %d", s.TotalAddresses)
	}
	if s.MeanRiskScore < 0 || s.MeanRiskScore > 100 {
		t.Fatalf("mean risk score out of bounds: %v", s.MeanRiskScore)
	}
	var binned int
	for _, c := range s.Distribution {
		binned += c
	}
	if binned != len(report.Results) {
		t.Fatalf("distribution bins account for %d of %d results", binned, len(report.Results))
	}
}
