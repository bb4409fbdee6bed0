package textrank

import (
	"errors"
	"math"
	"slices"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// TestCosine tests cosine similarity edge cases.
func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "scaled", a: []float64{1, 2}, b: []float64{2, 4}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "both empty", a: nil, b: nil, want: 0},
		{name: "half overlap", a: []float64{1, 1}, b: []float64{1, 0}, want: 1 / math.Sqrt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Cosine(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestSimilarity tests similarity over token lists.
func TestSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("sentence with itself is one", func(t *testing.T) {
		t.Parallel()

		s := []string{"jane", "doe", "won", "the", "debate", "the"}
		if got := Similarity(s, s); !almostEqual(got, 1) {
			t.Errorf("got %v, expected 1", got)
		}
	})

	t.Run("disjoint vocabularies are zero", func(t *testing.T) {
		t.Parallel()

		a := []string{"budget", "vote"}
		b := []string{"river", "bridge"}
		if got := Similarity(a, b); got != 0 {
			t.Errorf("got %v, expected 0", got)
		}
	})

	t.Run("empty sentence is zero", func(t *testing.T) {
		t.Parallel()

		if got := Similarity(nil, []string{"a"}); got != 0 {
			t.Errorf("got %v, expected 0", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()

		a := []string{"the", "mayor", "spoke", "today"}
		b := []string{"the", "council", "spoke", "yesterday", "the"}
		if !almostEqual(Similarity(a, b), Similarity(b, a)) {
			t.Error("similarity is not symmetric")
		}
	})
}

// TestTermVectors tests the local vocabulary construction.
func TestTermVectors(t *testing.T) {
	t.Parallel()

	va, vb := TermVectors([]string{"a", "b", "a"}, []string{"b", "c"})
	if !slices.Equal(va, []float64{2, 1, 0}) {
		t.Errorf("got %v", va)
	}
	if !slices.Equal(vb, []float64{0, 1, 1}) {
		t.Errorf("got %v", vb)
	}
}

// TestGraphAddEdge tests edge validation.
func TestGraphAddEdge(t *testing.T) {
	t.Parallel()

	g := NewGraph(3)
	if err := g.AddEdge(0, 1, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("got %d edges, expected 1", g.EdgeCount())
	}
	if len(g.Neighbors(1)) != 1 || g.Neighbors(1)[0].To != 0 {
		t.Error("expected edge in both directions")
	}

	invalid := []struct {
		name string
		i, j int
		w    float64
	}{
		{name: "self loop", i: 1, j: 1, w: 0.5},
		{name: "out of range", i: 0, j: 3, w: 0.5},
		{name: "negative index", i: -1, j: 0, w: 0.5},
		{name: "zero weight", i: 0, j: 2, w: 0},
		{name: "NaN weight", i: 0, j: 2, w: math.NaN()},
	}
	for _, tt := range invalid {
		if err := g.AddEdge(tt.i, tt.j, tt.w); !errors.Is(err, ErrRanking) {
			t.Errorf("%s: expected ErrRanking, got %v", tt.name, err)
		}
	}
	if g.Neighbors(5) != nil {
		t.Error("expected nil neighbours for unknown vertex")
	}
}

// TestBuildSimilarityGraph tests threshold filtering.
func TestBuildSimilarityGraph(t *testing.T) {
	t.Parallel()

	tokens := [][]string{
		{"jane", "doe", "debate"},
		{"jane", "doe", "rally"},
		{"weather", "forecast", "rain"},
	}

	g, err := BuildSimilarityGraph(tokens, DefaultSimilarityThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("got %d vertices, expected 3", g.Len())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("got %d edges, expected 1", g.EdgeCount())
	}
	if len(g.Neighbors(2)) != 0 {
		t.Error("unrelated sentence must stay isolated")
	}

	strict, err := BuildSimilarityGraph(tokens, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strict.EdgeCount() != 0 {
		t.Errorf("got %d edges above 0.9, expected 0", strict.EdgeCount())
	}
}

// TestRank tests PageRank scoring.
func TestRank(t *testing.T) {
	t.Parallel()

	t.Run("empty graph", func(t *testing.T) {
		t.Parallel()

		scores, err := Rank(NewGraph(0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(scores) != 0 {
			t.Errorf("got %d scores, expected 0", len(scores))
		}
	})

	t.Run("isolated vertices share equally", func(t *testing.T) {
		t.Parallel()

		scores, err := Rank(NewGraph(4))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, s := range scores {
			if !almostEqual(s, 0.25) {
				t.Errorf("vertex %d: got %v, expected 0.25", i, s)
			}
		}
	})

	t.Run("hub scores highest and total is one", func(t *testing.T) {
		t.Parallel()

		g := NewGraph(5)
		for _, leaf := range []int{1, 2, 3} {
			if err := g.AddEdge(0, leaf, 0.5); err != nil {
				t.Fatal(err)
			}
		}
		// Vertex 4 stays isolated.
		scores, err := Rank(g, WithDamping(0.85))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var total float64
		for _, s := range scores {
			total += s
		}
		if math.Abs(total-1) > 1e-6 {
			t.Errorf("scores sum to %v, expected 1", total)
		}
		for i := 1; i < 5; i++ {
			if scores[0] <= scores[i] {
				t.Errorf("hub score %v not above vertex %d score %v", scores[0], i, scores[i])
			}
		}
		if scores[4] <= 0 {
			t.Error("isolated vertex must keep a positive baseline")
		}
	})

	t.Run("score flows in proportion to edge weight", func(t *testing.T) {
		t.Parallel()

		g := NewGraph(3)
		if err := g.AddEdge(0, 1, 0.9); err != nil {
			t.Fatal(err)
		}
		if err := g.AddEdge(0, 2, 0.1); err != nil {
			t.Fatal(err)
		}
		scores, err := Rank(g, WithDamping(0.85))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Splitting by out-degree would give the two leaves equal scores.
		if scores[1] <= scores[2] {
			t.Errorf("heavy neighbour %v not above light neighbour %v", scores[1], scores[2])
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()

		if _, err := Rank(NewGraph(2), WithDamping(1.5)); !errors.Is(err, ErrRanking) {
			t.Errorf("expected ErrRanking for damping, got %v", err)
		}
		if _, err := Rank(NewGraph(2), WithMaxIterations(0)); !errors.Is(err, ErrRanking) {
			t.Errorf("expected ErrRanking for iterations, got %v", err)
		}
	})

	t.Run("tolerance stops early", func(t *testing.T) {
		t.Parallel()

		g := NewGraph(2)
		if err := g.AddEdge(0, 1, 1); err != nil {
			t.Fatal(err)
		}
		scores, err := Rank(g, WithTolerance(1), WithMaxIterations(1000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(scores[0], scores[1]) {
			t.Errorf("symmetric pair must score equally: %v", scores)
		}
	})
}

// TestOrderAndTopK tests deterministic selection.
func TestOrderAndTopK(t *testing.T) {
	t.Parallel()

	scores := []float64{0.1, 0.3, 0.3, 0.05, 0.25}

	if got := Order(scores); !slices.Equal(got, []int{1, 2, 4, 0, 3}) {
		t.Errorf("got order %v", got)
	}
	if got := TopK(scores, 3); !slices.Equal(got, []int{1, 2, 4}) {
		t.Errorf("got top 3 %v", got)
	}
	if got := TopK(scores, 10); len(got) != len(scores) {
		t.Errorf("got %d indexes, expected %d", len(got), len(scores))
	}
	if got := TopK(scores, -1); len(got) != 0 {
		t.Errorf("expected no indexes, got %v", got)
	}

	ties := []float64{0.2, 0.2, 0.2, 0.2}
	if got := TopK(ties, 2); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("ties must prefer smaller index, got %v", got)
	}
}
