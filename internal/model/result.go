package model

import "time"

// FeatureVector summarizes one address's behavior within a single
// fixed-width time window.
type FeatureVector struct {
	Address     string    `json:"address"`
	WindowStart time.Time `json:"window_start"`

	TotalCount           int     `json:"total_requests"`
	FailedCount          int     `json:"failed_requests"`
	SuccessRatio         float64 `json:"success_ratio"`
	UniqueEndpointCount  int     `json:"unique_endpoints"`
	RequestRatePerMinute float64 `json:"request_rate_per_minute"`
	AvgGapSeconds        float64 `json:"avg_time_gap_seconds"`
}

// Row returns the numeric feature columns in scoring order.
func (v FeatureVector) Row() []float64 {
	return []float64{
		float64(v.TotalCount),
		float64(v.FailedCount),
		v.SuccessRatio,
		float64(v.UniqueEndpointCount),
		v.RequestRatePerMinute,
		v.AvgGapSeconds,
	}
}

// NumFeatures is the width of FeatureVector.Row.
const NumFeatures = 6

// RiskLevel is the discrete classification of a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// AnomalyResult is the scored assessment for one (address, window) pair.
// RawScore follows the isolation-forest convention: smaller = more anomalous.
// RiskScore inverts and rescales it to [0,100]: higher = more anomalous.
type AnomalyResult struct {
	Address     string        `json:"address"`
	WindowStart time.Time     `json:"window_start"`
	Features    FeatureVector `json:"features"`
	RawScore    float64       `json:"raw_score"`
	RiskScore   float64       `json:"risk_score"`
	RiskLevel   RiskLevel     `json:"risk_level"`
}

// BatchSummary aggregates all results from one analyzed upload.
type BatchSummary struct {
	TotalAddresses int     `json:"total_addresses"`
	HighRiskCount  int     `json:"high_risk_count"`
	MeanRiskScore  float64 `json:"mean_risk_score"`
	DroppedRows    int     `json:"dropped_rows"`

	// Distribution counts risk scores into five equal bands:
	// [0,20], (20,40], (40,60], (60,80], (80,100].
	Distribution [5]int `json:"risk_distribution"`
}
