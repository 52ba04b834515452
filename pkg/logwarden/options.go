package logwarden

import "time"

type options struct {
	window time.Duration
	trees  int
	seed   int64
	seeded bool
}

// Option configures an Analyzer.
type Option func(*options)

// WithWindow sets the feature window width. Default: 5 minutes.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		o.window = d
	}
}

// WithTrees sets the isolation-forest ensemble size. Default: 100.
func WithTrees(n int) Option {
	return func(o *options) {
		o.trees = n
	}
}

// WithSeed fixes the ensemble's random seed, making analysis a
// deterministic function of the batch. Without it, every run is
// independently time-seeded.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

func defaultOptions() options {
	return options{}
}
