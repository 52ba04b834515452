package logwarden

import (
	"time"

	"github.com/ashvale/logwarden/internal/engine"
	"github.com/ashvale/logwarden/internal/model"
)

// Level is the discrete risk classification of one result.
type Level string

const (
	Low    Level = "LOW"
	Medium Level = "MEDIUM"
	High   Level = "HIGH"
)

// Result is the scored assessment for one address within one time window.
//
// RawScore keeps the isolation-forest sign convention (smaller = more
// anomalous); RiskScore is its batch-relative inversion onto [0,100]
// (higher = more anomalous).
type Result struct {
	Address     string    `json:"address"`
	WindowStart time.Time `json:"window_start"`

	TotalRequests   int     `json:"total_requests"`
	FailedRequests  int     `json:"failed_requests"`
	SuccessRatio    float64 `json:"success_ratio"`
	UniqueEndpoints int     `json:"unique_endpoints"`
	RequestRate     float64 `json:"request_rate_per_minute"`
	AvgGapSeconds   float64 `json:"avg_time_gap_seconds"`

	RawScore  float64 `json:"raw_score"`
	RiskScore float64 `json:"risk_score"`
	RiskLevel Level   `json:"risk_level"`
}

// Summary aggregates one analyzed batch.
type Summary struct {
	TotalAddresses int     `json:"total_addresses"`
	HighRiskCount  int     `json:"high_risk_count"`
	MeanRiskScore  float64 `json:"mean_risk_score"`
	DroppedRows    int     `json:"dropped_rows"`
	Distribution   [5]int  `json:"risk_distribution"`
}

// Report is the complete outcome of one batch analysis.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

func reportFromInternal(r engine.Report) Report {
	results := make([]Result, len(r.Results))
	for i, res := range r.Results {
		results[i] = resultFromInternal(res)
	}
	return Report{
		Results: results,
		Summary: Summary{
			TotalAddresses: r.Summary.TotalAddresses,
			HighRiskCount:  r.Summary.HighRiskCount,
			MeanRiskScore:  r.Summary.MeanRiskScore,
			DroppedRows:    r.Summary.DroppedRows,
			Distribution:   r.Summary.Distribution,
		},
	}
}

func resultFromInternal(r model.AnomalyResult) Result {
	return Result{
		Address:         r.Address,
		WindowStart:     r.WindowStart,
		TotalRequests:   r.Features.TotalCount,
		FailedRequests:  r.Features.FailedCount,
		SuccessRatio:    r.Features.SuccessRatio,
		UniqueEndpoints: r.Features.UniqueEndpointCount,
		RequestRate:     r.Features.RequestRatePerMinute,
		AvgGapSeconds:   r.Features.AvgGapSeconds,
		RawScore:        r.RawScore,
		RiskScore:       r.RiskScore,
		RiskLevel:       Level(r.RiskLevel),
	}
}
