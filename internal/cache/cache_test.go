package cache

import (
	"context"
	"errors"
	"testing"

	"nlsql/internal/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *QueryCache {
	t.Helper()
	store, err := vectorstore.NewLocalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c, err := New(context.Background(), store, "query_cache", zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	// [3,4] has an exact magnitude, so self-similarity is exactly 1.0 and
	// survives the strictest threshold.
	vec := []float32{3, 4}
	id, err := c.Add(ctx, "how many users are there", "SELECT COUNT(*) FROM users", vec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	match, err := c.FindSimilar(ctx, vec, 1.0)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "how many users are there", match.Question)
	assert.Equal(t, "SELECT COUNT(*) FROM users", match.SQL)
	assert.GreaterOrEqual(t, match.Similarity, 0.999)
}

func TestCacheThresholdBoundary(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.Add(ctx, "q", "SELECT 1", []float32{1, 0})
	require.NoError(t, err)

	t.Run("similarity equal to threshold hits", func(t *testing.T) {
		// orthogonal vectors give exactly 0.0 similarity
		match, err := c.FindSimilar(ctx, []float32{0, 1}, 0.0)
		require.NoError(t, err)
		assert.NotNil(t, match)
	})

	t.Run("similarity strictly below threshold misses", func(t *testing.T) {
		match, err := c.FindSimilar(ctx, []float32{0, 1}, 0.1)
		require.NoError(t, err)
		assert.Nil(t, match)

		match, err = c.FindSimilar(ctx, []float32{-1, 0}, 0.0)
		require.NoError(t, err)
		assert.Nil(t, match)
	})
}

func TestCacheReturnsNearestEntry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.Add(ctx, "first", "SELECT 1", []float32{1, 0, 0})
	require.NoError(t, err)
	_, err = c.Add(ctx, "second", "SELECT 2", []float32{0, 1, 0})
	require.NoError(t, err)

	match, err := c.FindSimilar(ctx, []float32{0.1, 0.9, 0}, 0.5)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "SELECT 2", match.SQL)
}

func TestCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.Add(ctx, "a", "SELECT 1", []float32{1, 0})
	require.NoError(t, err)
	_, err = c.Add(ctx, "b", "SELECT 2", []float32{0, 1})
	require.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, "query_cache", stats.Collection)
	assert.Equal(t, "local", stats.Backend)

	require.NoError(t, c.Clear(ctx))

	stats, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	match, err := c.FindSimilar(ctx, []float32{1, 0}, 0.0)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestCacheEntriesAndRemove(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	id, err := c.Add(ctx, "list users", "SELECT * FROM users", []float32{1, 0})
	require.NoError(t, err)
	_, err = c.Add(ctx, "count users", "SELECT COUNT(*) FROM users", []float32{0, 1})
	require.NoError(t, err)

	entries, err := c.Entries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.Question)
		assert.NotEmpty(t, e.SQL)
	}

	require.NoError(t, c.Remove(ctx, id))
	entries, err = c.Entries(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

var errStore = errors.New("store down")

type failingStore struct{}

func (failingStore) EnsureCollection(context.Context, string) error { return nil }
func (failingStore) Add(context.Context, string, []vectorstore.Record) error {
	return errStore
}
func (failingStore) Query(context.Context, string, []float32, int) ([]vectorstore.Match, error) {
	return nil, errStore
}
func (failingStore) List(context.Context, string, int) ([]vectorstore.Record, error) {
	return nil, errStore
}
func (failingStore) Count(context.Context, string) (int, error)  { return 0, errStore }
func (failingStore) Delete(context.Context, string, []string) error {
	return errStore
}
func (failingStore) DeleteCollection(context.Context, string) error { return errStore }
func (failingStore) Backend() string                                { return "test" }
func (failingStore) Close() error                                   { return nil }

func TestCacheDegradesToMissOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, failingStore{}, "query_cache", zap.NewNop())
	require.NoError(t, err)

	match, err := c.FindSimilar(ctx, []float32{1, 0}, 0.0)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestCacheAddSurfacesStoreFailure(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, failingStore{}, "query_cache", zap.NewNop())
	require.NoError(t, err)

	_, err = c.Add(ctx, "q", "SELECT 1", []float32{1, 0})
	assert.Error(t, err)
}
