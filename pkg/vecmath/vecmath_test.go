package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 2}, []float32{-1, -2})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, score, 1e-9)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("empty vectors", func(t *testing.T) {
		_, err := CosineSimilarity(nil, nil)
		assert.Error(t, err)
	})

	t.Run("zero magnitude yields zero without error", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{0, 0}, []float32{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})

	t.Run("symmetry", func(t *testing.T) {
		a := []float32{0.3, -1.2, 4.5}
		b := []float32{2.1, 0.4, -0.7}
		ab, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		ba, err := CosineSimilarity(b, a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-12)
	})
}

func TestEuclideanDistance(t *testing.T) {
	d, err := EuclideanDistance([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-9)

	_, err = EuclideanDistance([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Run("unit magnitude", func(t *testing.T) {
		out := Normalize([]float32{3, 4})
		var mag float64
		for _, x := range out {
			mag += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		in := []float32{0, 0, 0}
		out := Normalize(in)
		assert.Equal(t, in, out)
	})
}

func TestMostSimilar(t *testing.T) {
	t.Run("picks closest candidate", func(t *testing.T) {
		query := []float32{1, 0}
		candidates := [][]float32{
			{0, 1},
			{0.9, 0.1},
			{-1, 0},
		}
		idx, score, err := MostSimilar(query, candidates)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Greater(t, score, 0.9)
	})

	t.Run("empty candidates", func(t *testing.T) {
		idx, score, err := MostSimilar([]float32{1, 0}, nil)
		require.NoError(t, err)
		assert.Equal(t, -1, idx)
		assert.Equal(t, 0.0, score)
	})

	t.Run("skips mismatched dimensions", func(t *testing.T) {
		idx, _, err := MostSimilar([]float32{1, 0}, [][]float32{
			{1, 2, 3},
			{1, 0},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})
}

func TestBatchCosineSimilarity(t *testing.T) {
	scores, err := BatchCosineSimilarity([]float32{1, 0}, [][]float32{
		{1, 0},
		{0, 1},
		{1, 2, 3}, // mismatched, contributes zero
	})
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	assert.Equal(t, 0.0, scores[2])
}
