// Package forest scores feature vectors with an isolation forest: an
// ensemble of randomized partitioning trees where points isolated in few
// splits are outliers. The emitted raw score follows the standard
// decision-function convention — smaller raw score = more anomalous — and
// that sign must be preserved by every downstream consumer.
package forest

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTrees is the ensemble size.
	DefaultTrees = 100

	// maxSubsample caps the per-tree training sample.
	maxSubsample = 256
)

// Scorer trains a fresh isolation forest per batch and scores every vector
// in it. The ensemble is a pure function of (batch, seed); nothing is
// retained between calls.
type Scorer struct {
	trees int
	seed  int64
}

// New creates a Scorer with the given ensemble size and seed.
// Non-positive tree counts fall back to DefaultTrees.
func New(trees int, seed int64) *Scorer {
	if trees <= 0 {
		trees = DefaultTrees
	}
	return &Scorer{trees: trees, seed: seed}
}

// Score standardizes the batch, builds the ensemble over it, and returns
// one raw score per input row, aligned by index. Tree construction runs in
// parallel but the result depends only on the batch and the seed.
func (s *Scorer) Score(rows [][]float64) []float64 {
	n := len(rows)
	if n == 0 {
		return nil
	}

	scaled := Standardize(rows)
	psi := n
	if psi > maxSubsample {
		psi = maxSubsample
	}
	depthLimit := 0
	if psi > 1 {
		depthLimit = int(math.Ceil(math.Log2(float64(psi))))
	}

	trees := make([]*node, s.trees)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(deriveSeed(s.seed, i)))
			sample := rng.Perm(n)[:psi]
			trees[i] = build(scaled, sample, 0, depthLimit, rng)
			return nil
		})
	}
	// Build funcs never fail; Wait is only a join point.
	_ = g.Wait()

	norm := avgPathLength(psi)
	if norm == 0 {
		norm = 1
	}

	scores := make([]float64, n)
	for i, row := range scaled {
		var sum float64
		for _, t := range trees {
			sum += pathLength(t, row)
		}
		mean := sum / float64(len(trees))
		// s(x) = 2^(-E[h(x)]/c(psi)) in (0,1]; higher = more anomalous.
		anomaly := math.Exp2(-mean / norm)
		scores[i] = 0.5 - anomaly
	}
	return scores
}

// node is one split (internal) or one termination (external) of a tree.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	size      int // external node only
	external  bool
}

// build recursively partitions sample (indices into rows) on a random
// feature and a uniform random threshold between that feature's observed
// bounds, until isolation or the depth limit.
func build(rows [][]float64, sample []int, depth, limit int, rng *rand.Rand) *node {
	if len(sample) <= 1 || depth >= limit {
		return &node{external: true, size: len(sample)}
	}

	dims := len(rows[sample[0]])
	// Features with spread left in this partition.
	candidates := make([]int, 0, dims)
	for j := 0; j < dims; j++ {
		lo, hi := bounds(rows, sample, j)
		if hi > lo {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		// All points identical; cannot split further.
		return &node{external: true, size: len(sample)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	lo, hi := bounds(rows, sample, feature)
	threshold := lo + rng.Float64()*(hi-lo)

	var left, right []int
	for _, idx := range sample {
		if rows[idx][feature] < threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      build(rows, left, depth+1, limit, rng),
		right:     build(rows, right, depth+1, limit, rng),
	}
}

func bounds(rows [][]float64, sample []int, feature int) (lo, hi float64) {
	lo, hi = rows[sample[0]][feature], rows[sample[0]][feature]
	for _, idx := range sample[1:] {
		v := rows[idx][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// pathLength is the number of edges from the root to the external node
// reached by row, plus the expected remaining depth for that node's size.
func pathLength(t *node, row []float64) float64 {
	var depth float64
	for !t.external {
		if row[t.feature] < t.threshold {
			t = t.left
		} else {
			t = t.right
		}
		depth++
	}
	return depth + avgPathLength(t.size)
}

const eulerGamma = 0.5772156649015329

// avgPathLength is c(n): the expected path length of an unsuccessful
// search in a binary search tree over n points.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	harmonic := math.Log(float64(n-1)) + eulerGamma
	return 2*harmonic - 2*float64(n-1)/float64(n)
}

// deriveSeed gives each tree its own deterministic random stream.
func deriveSeed(base int64, tree int) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(tree))
	_, _ = h.Write(buf[:])
	return int64(h.Sum64()) ^ base
}
