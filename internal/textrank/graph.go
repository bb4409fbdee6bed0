package textrank

import (
	"fmt"
	"math"
)

// DefaultSimilarityThreshold is the minimum similarity for two sentences to
// be connected.
const DefaultSimilarityThreshold = 0.2

// Edge is a weighted link to another vertex.
type Edge struct {
	// To is the neighbour's vertex index.
	To int

	// Weight is the similarity between the two vertices.
	Weight float64
}

// Graph is an undirected weighted graph over vertices 0..n-1.
// Every vertex exists even when it has no edges.
type Graph struct {
	adj [][]Edge
}

// NewGraph creates a graph with n isolated vertices.
func NewGraph(n int) *Graph {
	return &Graph{adj: make([][]Edge, max(n, 0))}
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.adj)
}

// AddEdge links i and j in both directions.
// Self loops and non-positive or non-finite weights are rejected.
func (g *Graph) AddEdge(i, j int, weight float64) error {
	if i < 0 || j < 0 || i >= len(g.adj) || j >= len(g.adj) {
		return fmt.Errorf("%w: edge %d-%d out of range for %d vertices", ErrRanking, i, j, len(g.adj))
	}
	if i == j {
		return fmt.Errorf("%w: self loop on vertex %d", ErrRanking, i)
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: invalid weight %v on edge %d-%d", ErrRanking, weight, i, j)
	}
	g.adj[i] = append(g.adj[i], Edge{To: j, Weight: weight})
	g.adj[j] = append(g.adj[j], Edge{To: i, Weight: weight})
	return nil
}

// Neighbors returns the edges leaving vertex i.
func (g *Graph) Neighbors(i int) []Edge {
	if i < 0 || i >= len(g.adj) {
		return nil
	}
	return g.adj[i]
}

// Strength returns the sum of edge weights leaving vertex i.
func (g *Graph) Strength(i int) float64 {
	var total float64
	for _, e := range g.Neighbors(i) {
		total += e.Weight
	}
	return total
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n / 2
}

// BuildSimilarityGraph connects every pair of token lists whose similarity
// is at least threshold.
func BuildSimilarityGraph(tokens [][]string, threshold float64) (*Graph, error) {
	g := NewGraph(len(tokens))
	for i := range tokens {
		for j := i + 1; j < len(tokens); j++ {
			w := Similarity(tokens[i], tokens[j])
			if w <= 0 || w < threshold {
				continue
			}
			if err := g.AddEdge(i, j, w); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
