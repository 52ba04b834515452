// Package feature turns normalized log records into per-address,
// per-window behavioral feature vectors.
package feature

import (
	"sort"
	"time"

	"github.com/ashvale/logwarden/internal/model"
)

// DefaultWindow is the fixed bucket width used when none is configured.
const DefaultWindow = 5 * time.Minute

// Aggregator groups records into fixed-width, epoch-aligned time windows
// per source address and computes one FeatureVector per populated window.
type Aggregator struct {
	window time.Duration
}

// New creates an Aggregator with the given window width.
// Non-positive widths fall back to DefaultWindow.
func New(window time.Duration) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{window: window}
}

// Window returns the configured bucket width.
func (a *Aggregator) Window() time.Duration {
	return a.window
}

type groupKey struct {
	address string
	start   int64 // window start, unix seconds
}

// Aggregate partitions records by (address, window) and computes features
// for each non-empty group. Every record maps to exactly one window
// regardless of input order; empty windows are never emitted. Output is
// sorted by address, then window start.
func (a *Aggregator) Aggregate(records []model.LogRecord) []model.FeatureVector {
	groups := make(map[groupKey][]model.LogRecord)
	for _, rec := range records {
		start := rec.Timestamp.UTC().Truncate(a.window)
		key := groupKey{address: rec.Address, start: start.Unix()}
		groups[key] = append(groups[key], rec)
	}

	vectors := make([]model.FeatureVector, 0, len(groups))
	for key, group := range groups {
		vectors = append(vectors, a.featurize(key, group))
	}

	sort.Slice(vectors, func(i, j int) bool {
		if vectors[i].Address != vectors[j].Address {
			return vectors[i].Address < vectors[j].Address
		}
		return vectors[i].WindowStart.Before(vectors[j].WindowStart)
	})
	return vectors
}

func (a *Aggregator) featurize(key groupKey, group []model.LogRecord) model.FeatureVector {
	sort.Slice(group, func(i, j int) bool {
		return group[i].Timestamp.Before(group[j].Timestamp)
	})

	total := len(group)
	failed := 0
	endpoints := make(map[string]struct{}, total)
	for _, rec := range group {
		if rec.Failed() {
			failed++
		}
		endpoints[rec.Endpoint] = struct{}{}
	}

	// Mean gap between consecutive requests; a singleton group carries no
	// internal gap information and is defined as 0.
	avgGap := 0.0
	if total > 1 {
		var sum float64
		for i := 1; i < total; i++ {
			sum += group[i].Timestamp.Sub(group[i-1].Timestamp).Seconds()
		}
		avgGap = sum / float64(total-1)
	}

	return model.FeatureVector{
		Address:              key.address,
		WindowStart:          time.Unix(key.start, 0).UTC(),
		TotalCount:           total,
		FailedCount:          failed,
		SuccessRatio:         float64(total-failed) / float64(total),
		UniqueEndpointCount:  len(endpoints),
		RequestRatePerMinute: float64(total) / a.window.Minutes(),
		AvgGapSeconds:        avgGap,
	}
}
