// Package engine orchestrates the normalize → aggregate → score → rank
// pipeline over one uploaded batch of access-log rows.
package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/ashvale/logwarden/internal/engine/feature"
	"github.com/ashvale/logwarden/internal/engine/forest"
	"github.com/ashvale/logwarden/internal/engine/risk"
	"github.com/ashvale/logwarden/internal/engine/schema"
	"github.com/ashvale/logwarden/internal/model"
)

// ErrEmptyBatch is returned when no valid records remain after
// normalization and row-level filtering. It is distinct from a batch that
// legitimately scores everything LOW.
var ErrEmptyBatch = errors.New("engine: no valid records in batch")

// Config controls pipeline behavior.
type Config struct {
	Window time.Duration // feature window width; 0 = 5 minutes
	Trees  int           // ensemble size; 0 = 100
	Seed   int64         // ensemble seed, used when Seeded
	Seeded bool          // false = time-seeded, non-reproducible
}

// Report is the complete outcome of analyzing one batch: results sorted by
// risk score descending, plus the batch summary.
type Report struct {
	Results []model.AnomalyResult `json:"results"`
	Summary model.BatchSummary    `json:"summary"`
}

// Engine runs the analysis pipeline. All fitted state — scaler statistics,
// the tree ensemble, normalization bounds — is local to a single Analyze
// call, so concurrent batches never observe each other.
type Engine struct {
	cfg        Config
	normalizer *schema.Normalizer
	aggregator *feature.Aggregator
}

// New creates an Engine with the given config.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		normalizer: schema.New(),
		aggregator: feature.New(cfg.Window),
	}
}

// Analyze runs the full pipeline over one raw table. Structural failures
// (unresolvable column, empty batch) return an error with no partial
// output; row-level parse failures are dropped and counted in the summary.
func (e *Engine) Analyze(header []string, rows [][]string) (Report, error) {
	normalized, err := e.normalizer.Normalize(header, rows)
	if err != nil {
		return Report{}, err
	}
	if len(normalized.Records) == 0 {
		return Report{}, ErrEmptyBatch
	}

	vectors := e.aggregator.Aggregate(normalized.Records)

	matrix := make([][]float64, len(vectors))
	for i, v := range vectors {
		matrix[i] = v.Row()
	}

	seed := e.cfg.Seed
	if !e.cfg.Seeded {
		seed = time.Now().UnixNano()
	}
	rawScores := forest.New(e.cfg.Trees, seed).Score(matrix)
	riskScores := risk.Normalize(rawScores)

	results := make([]model.AnomalyResult, len(vectors))
	for i, v := range vectors {
		results[i] = model.AnomalyResult{
			Address:     v.Address,
			WindowStart: v.WindowStart,
			Features:    v,
			RawScore:    rawScores[i],
			RiskScore:   riskScores[i],
			RiskLevel:   risk.Classify(riskScores[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RiskScore != results[j].RiskScore {
			return results[i].RiskScore > results[j].RiskScore
		}
		if results[i].Address != results[j].Address {
			return results[i].Address < results[j].Address
		}
		return results[i].WindowStart.Before(results[j].WindowStart)
	})

	return Report{
		Results: results,
		Summary: summarize(results, normalized.Dropped),
	}, nil
}

func summarize(results []model.AnomalyResult, dropped int) model.BatchSummary {
	summary := model.BatchSummary{DroppedRows: dropped}

	addresses := make(map[string]struct{})
	var total float64
	for _, r := range results {
		addresses[r.Address] = struct{}{}
		total += r.RiskScore
		if r.RiskLevel == model.RiskHigh {
			summary.HighRiskCount++
		}
		summary.Distribution[bin(r.RiskScore)]++
	}

	summary.TotalAddresses = len(addresses)
	if len(results) > 0 {
		summary.MeanRiskScore = total / float64(len(results))
	}
	return summary
}

func bin(score float64) int {
	switch {
	case score <= 20:
		return 0
	case score <= 40:
		return 1
	case score <= 60:
		return 2
	case score <= 80:
		return 3
	default:
		return 4
	}
}
