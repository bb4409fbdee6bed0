package textrank

import "math"

// Cosine returns dot(a, b) / (|a| * |b|).
// It returns 0 when either vector has zero norm. Vectors of different length
// are compared over their common prefix.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := range n {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	// Rounding can push identical vectors a hair above one.
	return math.Min(sim, 1)
}

// TermVectors builds term-frequency vectors for two token lists over their
// shared local vocabulary (the union of both lists, in first-seen order).
func TermVectors(a, b []string) ([]float64, []float64) {
	index := make(map[string]int, len(a)+len(b))
	for _, tok := range a {
		if _, ok := index[tok]; !ok {
			index[tok] = len(index)
		}
	}
	for _, tok := range b {
		if _, ok := index[tok]; !ok {
			index[tok] = len(index)
		}
	}

	va := make([]float64, len(index))
	vb := make([]float64, len(index))
	for _, tok := range a {
		va[index[tok]]++
	}
	for _, tok := range b {
		vb[index[tok]]++
	}
	return va, vb
}

// Similarity is the cosine similarity of two token lists.
func Similarity(a, b []string) float64 {
	va, vb := TermVectors(a, b)
	return Cosine(va, vb)
}
