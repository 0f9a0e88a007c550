package service

import (
	"context"
	"errors"
	"testing"

	"nlsql/internal/cache"
	"nlsql/internal/models"
	"nlsql/internal/sqlguard"
	"nlsql/internal/vectorstore"
	"nlsql/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	sql         string
	sqlErr      error
	explanation string
	explainErr  error
	corrected   string
	validateErr error

	generateCalls int
}

func (f *fakeGenerator) GenerateSQL(ctx context.Context, question, schemaInfo string, readonly bool) (string, error) {
	f.generateCalls++
	return f.sql, f.sqlErr
}

func (f *fakeGenerator) ExplainSQL(ctx context.Context, sql string) (string, error) {
	return f.explanation, f.explainErr
}

func (f *fakeGenerator) ValidateSQL(ctx context.Context, sql string, readonly bool) (string, error) {
	return f.corrected, f.validateErr
}

func (f *fakeGenerator) Ping(ctx context.Context) error { return nil }
func (f *fakeGenerator) Close() error                   { return nil }

// fakeEmbedder maps every text to the same unit vector so any two questions
// look identical to the cache.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := f.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 2 }
func (f *fakeEmbedder) ModelName() string { return "fake" }
func (f *fakeEmbedder) Close() error      { return nil }

func newTestService(t *testing.T, gen *fakeGenerator, emb *fakeEmbedder, cacheEnabled bool) *TextToSQLService {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{MaxResultRows: 100},
		Cache: config.CacheConfig{
			Enabled:             cacheEnabled,
			Collection:          "query_cache",
			SimilarityThreshold: 0.8,
		},
	}

	var qcache *cache.QueryCache
	if cacheEnabled {
		store, err := vectorstore.NewLocalStore(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })

		qcache, err = cache.New(context.Background(), store, cfg.Cache.Collection, zap.NewNop())
		require.NoError(t, err)
	}

	return NewTextToSQLService(gen, emb, qcache, sqlguard.New(), nil, nil, nil, cfg, zap.NewNop())
}

func TestProcessQuestionRejectsEmpty(t *testing.T) {
	s := newTestService(t, &fakeGenerator{}, &fakeEmbedder{}, false)

	_, err := s.ProcessQuestion(context.Background(), "   \n ", true)
	assert.ErrorIs(t, err, models.ErrEmptyQuestion)
}

func TestProcessQuestionGeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{sql: "```sql\nSELECT * FROM users\n```"}
	s := newTestService(t, gen, &fakeEmbedder{}, true)

	first, err := s.ProcessQuestion(ctx, "show me all users", true)
	require.NoError(t, err)
	assert.True(t, first.IsValid)
	assert.False(t, first.FromCache)
	assert.Equal(t, "SELECT * FROM users", first.SQL)
	assert.Equal(t, 1, gen.generateCalls)

	second, err := s.ProcessQuestion(ctx, "list every user", true)
	require.NoError(t, err)
	assert.True(t, second.IsValid)
	assert.True(t, second.FromCache)
	assert.Equal(t, "SELECT * FROM users", second.SQL)
	assert.Equal(t, "show me all users", second.CachedQuestion)
	assert.GreaterOrEqual(t, second.Similarity, 0.999)
	require.NotNil(t, second.CacheStats)
	assert.Equal(t, 1, second.CacheStats.Entries)
	// the hit must not reach the model
	assert.Equal(t, 1, gen.generateCalls)
}

func TestProcessQuestionInvalidGeneration(t *testing.T) {
	gen := &fakeGenerator{sql: "DROP TABLE users"}
	s := newTestService(t, gen, &fakeEmbedder{}, false)

	res, err := s.ProcessQuestion(context.Background(), "remove the users table", true)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Empty(t, res.SQL)
}

func TestProcessQuestionCacheDisabledSkipsEmbedding(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT 1"}
	emb := &fakeEmbedder{}
	s := newTestService(t, gen, emb, false)

	res, err := s.ProcessQuestion(context.Background(), "ping", true)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Zero(t, emb.calls)
}

func TestProcessQuestionEmbedFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT 1"}
	emb := &fakeEmbedder{err: errors.New("embedding service down")}
	s := newTestService(t, gen, emb, true)

	res, err := s.ProcessQuestion(context.Background(), "ping", true)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.False(t, res.FromCache)
	assert.Equal(t, "SELECT 1", res.SQL)
}

func TestProcessQuestionRevalidatesCachedSQL(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{sql: "SELECT name FROM users"}
	s := newTestService(t, gen, &fakeEmbedder{}, true)

	// Poison the cache with a statement readonly mode must reject.
	vec, err := s.embedder.Embed(ctx, "list users")
	require.NoError(t, err)
	_, err = s.qcache.Add(ctx, "list users", "DELETE FROM users", vec)
	require.NoError(t, err)

	res, err := s.ProcessQuestion(ctx, "list users", true)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.False(t, res.FromCache)
	assert.Equal(t, "SELECT name FROM users", res.SQL)
	assert.Equal(t, 1, gen.generateCalls)
}

func TestProcessQuestionGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{sqlErr: errors.New("model unavailable")}
	s := newTestService(t, gen, &fakeEmbedder{}, false)

	_, err := s.ProcessQuestion(context.Background(), "anything", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate SQL")
}

func TestExecuteSQLRejectsInvalid(t *testing.T) {
	s := newTestService(t, &fakeGenerator{}, &fakeEmbedder{}, false)

	res, err := s.ExecuteSQL(context.Background(), uuid.New(), "DROP TABLE users", true)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "SQL failed validation", res.Error)
	assert.Equal(t, "DROP TABLE users", res.Query)
}

func TestExplainSQL(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{}, &fakeEmbedder{}, false)
		got, err := s.ExplainSQL(context.Background(), "  ")
		require.NoError(t, err)
		assert.Equal(t, "No SQL query provided.", got)
	})

	t.Run("model failure degrades", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{explainErr: errors.New("boom")}, &fakeEmbedder{}, false)
		got, err := s.ExplainSQL(context.Background(), "SELECT 1")
		require.NoError(t, err)
		assert.Equal(t, "Error generating explanation.", got)
	})

	t.Run("passthrough", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{explanation: "Counts the users."}, &fakeEmbedder{}, false)
		got, err := s.ExplainSQL(context.Background(), "SELECT COUNT(*) FROM users")
		require.NoError(t, err)
		assert.Equal(t, "Counts the users.", got)
	})
}

func TestValidateWithLLM(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{}, &fakeEmbedder{}, false)
		res, err := s.ValidateWithLLM(ctx, "", true)
		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Equal(t, "Empty SQL query provided.", res.Explanation)
	})

	t.Run("locally valid skips the model", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{corrected: "should not be used"}, &fakeEmbedder{}, false)
		res, err := s.ValidateWithLLM(ctx, "```sql\nSELECT 1\n```", true)
		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, "SELECT 1", res.CorrectedSQL)
		assert.Equal(t, "SQL query is valid.", res.Explanation)
	})

	t.Run("model corrects", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{corrected: "SELECT id FROM users"}, &fakeEmbedder{}, false)
		res, err := s.ValidateWithLLM(ctx, "DELETE FROM users", true)
		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.Equal(t, "SELECT id FROM users", res.CorrectedSQL)
		assert.Equal(t, "SQL corrected by LLM.", res.Explanation)
	})

	t.Run("uncorrectable", func(t *testing.T) {
		s := newTestService(t, &fakeGenerator{corrected: "UPDATE users SET x = 1"}, &fakeEmbedder{}, false)
		res, err := s.ValidateWithLLM(ctx, "DELETE FROM users", true)
		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Empty(t, res.CorrectedSQL)
		assert.Equal(t, "SQL could not be corrected.", res.Explanation)
	})
}

func TestCacheAdminRequiresCache(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &fakeGenerator{}, &fakeEmbedder{}, false)

	_, err := s.CacheStats(ctx)
	assert.ErrorIs(t, err, models.ErrCacheDisabled)

	_, err = s.CacheEntries(ctx, 10)
	assert.ErrorIs(t, err, models.ErrCacheDisabled)

	assert.ErrorIs(t, s.RemoveCacheEntry(ctx, "x"), models.ErrCacheDisabled)
	assert.ErrorIs(t, s.ClearCache(ctx), models.ErrCacheDisabled)
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{sql: "SELECT 1"}
	s := newTestService(t, gen, &fakeEmbedder{}, true)

	_, err := s.ProcessQuestion(ctx, "ping", true)
	require.NoError(t, err)

	stats, err := s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)

	require.NoError(t, s.ClearCache(ctx))

	stats, err = s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}
