// Package vectorstore provides a collection-per-namespace embedding store
// with interchangeable remote and local backends.
package vectorstore

import (
	"context"
	"fmt"

	"nlsql/pkg/config"

	"go.uber.org/zap"
)

// Record is one embedded document to upsert. Re-adding an existing ID
// overwrites rather than duplicates.
type Record struct {
	ID        string
	Document  string
	Embedding []float32
	Metadata  Metadata
}

// Match is a single query hit. Distance is cosine distance; callers convert
// with similarity = 1 - distance.
type Match struct {
	ID       string
	Document string
	Metadata Metadata
	Distance float64
}

// Store is the backend contract shared by the query cache and the
// vectorization pipeline. Callers depend on this contract only, never on
// deployment topology.
type Store interface {
	EnsureCollection(ctx context.Context, name string) error
	Add(ctx context.Context, collection string, records []Record) error
	Query(ctx context.Context, collection string, embedding []float32, limit int) ([]Match, error)
	// List returns stored records without their embeddings, newest first.
	List(ctx context.Context, collection string, limit int) ([]Record, error)
	Count(ctx context.Context, collection string) (int, error)
	Delete(ctx context.Context, collection string, ids []string) error
	DeleteCollection(ctx context.Context, name string) error
	Backend() string
	Close() error
}

// Connect establishes the vector store backend. The remote store is tried
// first; when it does not answer, the local persistent store takes over.
// The fallback decision is made once here, not per call.
func Connect(ctx context.Context, cfg *config.VectorStoreConfig, logger *zap.Logger) (Store, error) {
	if cfg.RemoteURL != "" {
		remote := NewHTTPStore(cfg.RemoteURL, cfg.RequestTimeout)
		err := remote.Ping(ctx)
		if err == nil {
			logger.Info("Vector store connected",
				zap.String("backend", remote.Backend()),
				zap.String("url", cfg.RemoteURL),
			)
			return remote, nil
		}
		logger.Warn("Remote vector store unreachable, falling back to local store",
			zap.String("url", cfg.RemoteURL),
			zap.Error(err),
		)
	}

	local, err := NewLocalStore(cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local vector store: %w", err)
	}
	logger.Info("Vector store connected",
		zap.String("backend", local.Backend()),
		zap.String("path", cfg.LocalPath),
	)
	return local, nil
}
