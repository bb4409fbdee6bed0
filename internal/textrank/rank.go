package textrank

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrRanking is returned when scores cannot be computed.
var ErrRanking = errors.New("ranking failed")

const (
	// DefaultDamping is the share of a vertex score that flows along edges.
	// The remaining share is spread uniformly over all vertices.
	DefaultDamping = 0.1

	// DefaultMaxIterations bounds the power iteration.
	DefaultMaxIterations = 100

	// DefaultTolerance stops the iteration once the L1 change of the score
	// vector falls below it.
	DefaultTolerance = 0.0001
)

// Option configures Rank.
type Option func(*rankConfig)

type rankConfig struct {
	damping       float64
	maxIterations int
	tolerance     float64
}

// WithDamping sets the damping factor.
func WithDamping(d float64) Option {
	return func(c *rankConfig) {
		c.damping = d
	}
}

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) Option {
	return func(c *rankConfig) {
		c.maxIterations = n
	}
}

// WithTolerance sets the convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(c *rankConfig) {
		c.tolerance = tol
	}
}

// Rank scores every vertex with weighted PageRank.
//
// Each iteration computes
//
//	score'(i) = (1-d)/n + d * (sum over neighbours j of score(j)*w(j,i)/strength(j) + dangling/n)
//
// where dangling is the total score held by vertices without edges. Isolated
// vertices therefore keep a baseline score and the scores always sum to 1.
func Rank(g *Graph, opts ...Option) ([]float64, error) {
	cfg := rankConfig{
		damping:       DefaultDamping,
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.damping < 0 || cfg.damping > 1 || math.IsNaN(cfg.damping) {
		return nil, fmt.Errorf("%w: damping %v outside [0, 1]", ErrRanking, cfg.damping)
	}
	if cfg.maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be positive", ErrRanking)
	}

	n := g.Len()
	if n == 0 {
		return []float64{}, nil
	}

	strength := make([]float64, n)
	for i := range n {
		strength[i] = g.Strength(i)
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	base := (1 - cfg.damping) / float64(n)

	for range cfg.maxIterations {
		var dangling float64
		for i := range n {
			if strength[i] == 0 {
				dangling += scores[i]
			}
		}
		share := cfg.damping * dangling / float64(n)

		for i := range n {
			var inflow float64
			for _, e := range g.Neighbors(i) {
				inflow += scores[e.To] * e.Weight / strength[e.To]
			}
			next[i] = base + share + cfg.damping*inflow
		}

		var delta float64
		for i := range n {
			delta += math.Abs(next[i] - scores[i])
		}
		scores, next = next, scores
		if delta < cfg.tolerance {
			break
		}
	}

	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: vertex %d has non-finite score", ErrRanking, i)
		}
	}
	return scores, nil
}

// Order returns vertex indexes by descending score.
// Equal scores keep the smaller index first.
func Order(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		default:
			return a - b
		}
	})
	return idx
}

// TopK returns the k best vertex indexes in ascending index order.
func TopK(scores []float64, k int) []int {
	order := Order(scores)
	k = max(0, min(k, len(order)))
	top := slices.Clone(order[:k])
	slices.Sort(top)
	return top
}
