package llm

import (
	"context"
	"fmt"

	"nlsql/pkg/config"

	"go.uber.org/zap"
)

// Generator turns natural language questions into SQL text and back. The
// returned text is raw model output; callers are expected to run it through
// the SQL validator before trusting it.
type Generator interface {
	GenerateSQL(ctx context.Context, question, schemaInfo string, readonly bool) (string, error)
	ExplainSQL(ctx context.Context, sql string) (string, error)
	ValidateSQL(ctx context.Context, sql string, readonly bool) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Embedder produces vector embeddings for arbitrary text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
	Close() error
}

// New constructs the generation and embedding clients for the configured
// provider. Both interfaces are served by the same underlying client.
func New(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (Generator, Embedder, error) {
	switch cfg.Provider {
	case "gigachat":
		client, err := NewGigaChat(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create GigaChat client: %w", err)
		}
		return client, client, nil
	case "openai":
		client, err := NewOpenAI(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
