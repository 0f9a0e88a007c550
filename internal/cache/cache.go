// Package cache reuses previously generated SQL for semantically similar
// questions, keyed by question embeddings.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nlsql/internal/vectorstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Match is a cache hit above the similarity threshold.
type Match struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	SQL        string  `json:"sql"`
	Similarity float64 `json:"similarity"`
}

// Stats is a read-only cache summary.
type Stats struct {
	Entries    int    `json:"entries"`
	Collection string `json:"collection"`
	Backend    string `json:"backend"`
}

// Entry is a stored question/SQL pair, as exposed by the admin listing.
type Entry struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	SQL       string `json:"sql"`
	CreatedAt string `json:"created_at"`
}

// QueryCache wraps a vector store collection with question/SQL pair
// semantics. Entries are immutable once written; only Clear and Remove
// delete them. Clear is exclusive against concurrent lookups and inserts.
type QueryCache struct {
	store      vectorstore.Store
	collection string
	logger     *zap.Logger

	mu sync.RWMutex
}

func New(ctx context.Context, store vectorstore.Store, collection string, logger *zap.Logger) (*QueryCache, error) {
	if err := store.EnsureCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to prepare cache collection: %w", err)
	}
	return &QueryCache{
		store:      store,
		collection: collection,
		logger:     logger,
	}, nil
}

// FindSimilar returns the nearest cached entry when its cosine similarity
// reaches threshold (boundary inclusive). Store failures degrade to a miss:
// the caller regenerates, it cannot act on a broken cache.
func (c *QueryCache) FindSimilar(ctx context.Context, vector []float32, threshold float64) (*Match, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches, err := c.store.Query(ctx, c.collection, vector, 1)
	if err != nil {
		c.logger.Warn("Cache lookup failed, treating as miss", zap.Error(err))
		return nil, nil
	}
	if len(matches) == 0 {
		return nil, nil
	}

	best := matches[0]
	similarity := 1 - best.Distance
	if similarity < threshold {
		return nil, nil
	}

	question := best.Document
	if question == "" {
		question = best.Metadata["question"].AsString()
	}
	return &Match{
		ID:         best.ID,
		Question:   question,
		SQL:        best.Metadata["sql"].AsString(),
		Similarity: similarity,
	}, nil
}

// Add stores a new entry unconditionally; near-duplicate questions are not
// deduplicated. A store failure is returned to the caller and leaves
// previously cached entries untouched.
func (c *QueryCache) Add(ctx context.Context, question, sqlText string, vector []float32) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id := uuid.New().String()
	rec := vectorstore.Record{
		ID:        id,
		Document:  question,
		Embedding: vector,
		Metadata: vectorstore.Metadata{
			"question":   vectorstore.String(question),
			"sql":        vectorstore.String(sqlText),
			"created_at": vectorstore.String(time.Now().UTC().Format(time.RFC3339)),
		},
	}
	if err := c.store.Add(ctx, c.collection, []vectorstore.Record{rec}); err != nil {
		return "", fmt.Errorf("failed to cache query: %w", err)
	}
	return id, nil
}

// Stats reports the entry count and backing store.
func (c *QueryCache) Stats(ctx context.Context) (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count, err := c.store.Count(ctx, c.collection)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return Stats{
		Entries:    count,
		Collection: c.collection,
		Backend:    c.store.Backend(),
	}, nil
}

// Entries lists stored pairs for inspection, newest first.
func (c *QueryCache) Entries(ctx context.Context, limit int) ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, err := c.store.List(ctx, c.collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		question := rec.Document
		if question == "" {
			question = rec.Metadata["question"].AsString()
		}
		entries = append(entries, Entry{
			ID:        rec.ID,
			Question:  question,
			SQL:       rec.Metadata["sql"].AsString(),
			CreatedAt: rec.Metadata["created_at"].AsString(),
		})
	}
	return entries, nil
}

// Remove deletes a single entry by id.
func (c *QueryCache) Remove(ctx context.Context, id string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.store.Delete(ctx, c.collection, []string{id}); err != nil {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// Clear destroys and recreates the backing collection. It takes the write
// lock so in-flight lookups never see a half-deleted collection.
func (c *QueryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteCollection(ctx, c.collection); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if err := c.store.EnsureCollection(ctx, c.collection); err != nil {
		return fmt.Errorf("failed to recreate cache collection: %w", err)
	}
	c.logger.Info("Query cache cleared", zap.String("collection", c.collection))
	return nil
}
