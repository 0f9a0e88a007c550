package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records := []Record{
		{ID: "a", Document: "first", Embedding: []float32{1, 0, 0}, Metadata: Metadata{"n": Int(1)}},
		{ID: "b", Document: "second", Embedding: []float32{0, 1, 0}},
		{ID: "c", Document: "third", Embedding: []float32{0.9, 0.1, 0}},
	}
	require.NoError(t, store.Add(ctx, "docs", records))

	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	matches, err := store.Query(ctx, "docs", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
	assert.Equal(t, "c", matches[1].ID)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
	require.NotNil(t, matches[0].Metadata)
	assert.Equal(t, int64(1), matches[0].Metadata["n"].Value())
}

func TestLocalStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, "docs", []Record{
		{ID: "a", Document: "old", Embedding: []float32{1, 0}},
	}))
	require.NoError(t, store.Add(ctx, "docs", []Record{
		{ID: "a", Document: "new", Embedding: []float32{1, 0}},
	}))

	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	matches, err := store.Query(ctx, "docs", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Document)
}

func TestLocalStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, "docs", []Record{
		{ID: "a", Document: "first", Embedding: []float32{1, 0}},
		{ID: "b", Document: "second", Embedding: []float32{0, 1}},
	}))

	require.NoError(t, store.Delete(ctx, "docs", []string{"a"}))
	count, err := store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.DeleteCollection(ctx, "docs"))
	count, err = store.Count(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLocalStoreEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	matches, err := store.Query(ctx, "missing", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	count, err := store.Count(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLocalStoreSkipsMismatchedDimensions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Add(ctx, "docs", []Record{
		{ID: "a", Document: "two dims", Embedding: []float32{1, 0}},
		{ID: "b", Document: "three dims", Embedding: []float32{1, 0, 0}},
	}))

	matches, err := store.Query(ctx, "docs", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestEmbeddingCodec(t *testing.T) {
	in := []float32{0.25, -1.5, 3.75}
	out, err := decodeEmbedding(encodeEmbedding(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = decodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)
}
