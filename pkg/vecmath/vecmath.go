// Package vecmath provides similarity math over float32 embedding vectors.
package vecmath

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns an error if the vectors have different dimensions or are empty.
// Zero-magnitude vectors yield 0 without an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors must not be empty")
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// EuclideanDistance computes the L2 distance between two vectors.
func EuclideanDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors must not be empty")
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Normalize returns a unit-length copy of v. A zero-magnitude vector is
// returned unchanged rather than divided by zero.
func Normalize(v []float32) []float32 {
	var mag float64
	for _, x := range v {
		mag += float64(x) * float64(x)
	}
	if mag == 0 {
		return v
	}
	mag = math.Sqrt(mag)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / mag)
	}
	return out
}

// MostSimilar scans candidates linearly and returns the index and cosine
// similarity of the best match. An empty candidate set yields (-1, 0) with
// no error; candidates with mismatched dimensions are skipped.
func MostSimilar(query []float32, candidates [][]float32) (int, float64, error) {
	if len(query) == 0 {
		return -1, 0, fmt.Errorf("query vector must not be empty")
	}
	if len(candidates) == 0 {
		return -1, 0, nil
	}

	best := -1
	bestScore := math.Inf(-1)
	for i, c := range candidates {
		score, err := CosineSimilarity(query, c)
		if err != nil {
			continue
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return -1, 0, nil
	}
	return best, bestScore, nil
}

// BatchCosineSimilarity computes the similarity of query against every
// vector. Mismatched entries contribute 0.
func BatchCosineSimilarity(query []float32, vectors [][]float32) ([]float64, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("query vector must not be empty")
	}

	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		score, err := CosineSimilarity(query, v)
		if err != nil {
			continue
		}
		scores[i] = score
	}
	return scores, nil
}
