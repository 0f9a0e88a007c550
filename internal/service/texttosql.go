package service

import (
	"context"
	"fmt"
	"strings"

	"nlsql/internal/cache"
	"nlsql/internal/llm"
	"nlsql/internal/models"
	"nlsql/internal/repository"
	"nlsql/internal/sourcedb"
	"nlsql/internal/sqlguard"
	"nlsql/pkg/config"
	"nlsql/pkg/secrets"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TextToSQLService is the question-to-SQL core: cache lookup, LLM
// generation, validation, and optional execution against a registered
// source database. qcache is nil when the semantic cache is disabled.
type TextToSQLService struct {
	generator   llm.Generator
	embedder    llm.Embedder
	qcache      *cache.QueryCache
	guard       *sqlguard.Validator
	connections *repository.ConnectionRepository
	cipher      *secrets.Cipher
	metaDB      *pgxpool.Pool
	cfg         *config.Config
	logger      *zap.Logger
}

func NewTextToSQLService(
	generator llm.Generator,
	embedder llm.Embedder,
	qcache *cache.QueryCache,
	guard *sqlguard.Validator,
	connections *repository.ConnectionRepository,
	cipher *secrets.Cipher,
	metaDB *pgxpool.Pool,
	cfg *config.Config,
	logger *zap.Logger,
) *TextToSQLService {
	return &TextToSQLService{
		generator:   generator,
		embedder:    embedder,
		qcache:      qcache,
		guard:       guard,
		connections: connections,
		cipher:      cipher,
		metaDB:      metaDB,
		cfg:         cfg,
		logger:      logger,
	}
}

// QueryResult is the outcome of one text-to-SQL request. IsValid false with
// an empty SQL means the model produced nothing that survived validation.
type QueryResult struct {
	SQL            string       `json:"sql_query"`
	IsValid        bool         `json:"is_valid"`
	FromCache      bool         `json:"from_cache"`
	Similarity     float64      `json:"similarity_score,omitempty"`
	CachedQuestion string       `json:"cached_question,omitempty"`
	CacheStats     *cache.Stats `json:"cache_stats,omitempty"`
}

// ExecResult is the outcome of executing validated SQL against a source
// database. Execution failures are results, not errors: the statement was
// legal to try.
type ExecResult struct {
	Success bool             `json:"success"`
	Rows    []map[string]any `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
	Query   string           `json:"query"`
}

// LLMValidation is the outcome of LLM-assisted validation and correction.
type LLMValidation struct {
	IsValid      bool   `json:"is_valid"`
	CorrectedSQL string `json:"corrected_sql,omitempty"`
	Explanation  string `json:"explanation"`
}

// HealthReport aggregates per-component probes. Status is healthy only when
// every enabled component is.
type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// ProcessQuestion converts a natural language question into validated SQL.
// The semantic cache is consulted first when enabled; a cached statement is
// re-validated against the request's readonly mode, so a cache entry written
// under looser policy never leaks past a stricter request.
func (s *TextToSQLService) ProcessQuestion(ctx context.Context, question string, readonly bool) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrEmptyQuestion
	}

	var vector []float32
	if s.cacheEnabled() {
		v, err := s.embedder.Embed(ctx, question)
		if err != nil {
			// Cache is an optimization; generation must not depend on it.
			s.logger.Warn("Failed to embed question, skipping cache", zap.Error(err))
		} else {
			vector = v
		}
	}

	if vector != nil {
		match, err := s.qcache.FindSimilar(ctx, vector, s.cfg.Cache.SimilarityThreshold)
		if err != nil {
			s.logger.Warn("Cache lookup failed", zap.Error(err))
		}
		if match != nil {
			cleaned := s.guard.ValidateAndClean(match.SQL, readonly)
			if cleaned != "" {
				s.logger.Info("Cache hit",
					zap.Float64("similarity", match.Similarity),
					zap.String("cached_question", match.Question),
				)
				return &QueryResult{
					SQL:            cleaned,
					IsValid:        true,
					FromCache:      true,
					Similarity:     match.Similarity,
					CachedQuestion: match.Question,
					CacheStats:     s.cacheStatsBestEffort(ctx),
				}, nil
			}
			// Stored under a different policy, or stale. Regenerate.
			s.logger.Warn("Cached SQL rejected by validator, regenerating",
				zap.String("cached_question", match.Question))
		}
	}

	raw, err := s.generator.GenerateSQL(ctx, question, "", readonly)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SQL: %w", err)
	}

	cleaned := s.guard.ValidateAndClean(raw, readonly)
	if cleaned == "" {
		s.logger.Warn("Generated SQL failed validation", zap.String("question", question))
		return &QueryResult{IsValid: false}, nil
	}

	if vector != nil {
		if _, err := s.qcache.Add(ctx, question, cleaned, vector); err != nil {
			s.logger.Warn("Failed to cache generated SQL", zap.Error(err))
		}
	}
	return &QueryResult{SQL: cleaned, IsValid: true}, nil
}

// ExecuteSQL validates the statement and runs it against the registered
// connection. Rows are capped at the configured maximum.
func (s *TextToSQLService) ExecuteSQL(ctx context.Context, connectionID uuid.UUID, sqlText string, readonly bool) (*ExecResult, error) {
	cleaned := s.guard.ValidateAndClean(sqlText, readonly)
	if cleaned == "" {
		return &ExecResult{Success: false, Error: "SQL failed validation", Query: sqlText}, nil
	}

	conn, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	db, err := openSource(s.cipher, conn)
	if err != nil {
		return &ExecResult{Success: false, Error: sanitizeUTF8(err.Error()), Query: cleaned}, nil
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, cleaned)
	if err != nil {
		return &ExecResult{Success: false, Error: sanitizeUTF8(err.Error()), Query: cleaned}, nil
	}
	defer rows.Close()

	records, err := sourcedb.ScanRows(rows, s.cfg.Server.MaxResultRows)
	if err != nil {
		return &ExecResult{Success: false, Error: sanitizeUTF8(err.Error()), Query: cleaned}, nil
	}
	return &ExecResult{Success: true, Rows: records, Query: cleaned}, nil
}

// ExplainSQL asks the model for a plain-language explanation. Failures
// degrade to a fixed message instead of an error.
func (s *TextToSQLService) ExplainSQL(ctx context.Context, sqlText string) (string, error) {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return "No SQL query provided.", nil
	}

	explanation, err := s.generator.ExplainSQL(ctx, sqlText)
	if err != nil {
		s.logger.Warn("Failed to explain SQL", zap.Error(err))
		return "Error generating explanation.", nil
	}
	return explanation, nil
}

// ValidateWithLLM runs local validation first and only consults the model
// when the statement fails, asking it for a corrected form. The correction
// is re-validated locally; the model never gets the last word on policy.
func (s *TextToSQLService) ValidateWithLLM(ctx context.Context, sqlText string, readonly bool) (*LLMValidation, error) {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return &LLMValidation{IsValid: false, Explanation: "Empty SQL query provided."}, nil
	}

	if cleaned := s.guard.ValidateAndClean(sqlText, readonly); cleaned != "" {
		return &LLMValidation{IsValid: true, CorrectedSQL: cleaned, Explanation: "SQL query is valid."}, nil
	}

	corrected, err := s.generator.ValidateSQL(ctx, sqlText, readonly)
	if err != nil {
		return nil, fmt.Errorf("failed to validate SQL with LLM: %w", err)
	}
	if cleaned := s.guard.ValidateAndClean(corrected, readonly); cleaned != "" {
		return &LLMValidation{IsValid: true, CorrectedSQL: cleaned, Explanation: "SQL corrected by LLM."}, nil
	}
	return &LLMValidation{IsValid: false, Explanation: "SQL could not be corrected."}, nil
}

// Validate runs the local validator only. No model calls, no I/O.
func (s *TextToSQLService) Validate(sqlText string, readonly bool) sqlguard.ValidationResult {
	return s.guard.Validate(sqlText, readonly)
}

// Health probes each component independently so one outage does not mask
// another.
func (s *TextToSQLService) Health(ctx context.Context) HealthReport {
	components := make(map[string]string, 4)

	probe := func(name string, err error) {
		if err != nil {
			s.logger.Warn("Health probe failed", zap.String("component", name), zap.Error(err))
			components[name] = "unhealthy"
			return
		}
		components[name] = "healthy"
	}

	probe("llm", s.generator.Ping(ctx))

	_, embedErr := s.embedder.Embed(ctx, "health check")
	probe("embeddings", embedErr)

	if s.cacheEnabled() {
		_, cacheErr := s.qcache.Stats(ctx)
		probe("cache", cacheErr)
	} else {
		components["cache"] = "disabled"
	}

	probe("metadata_db", s.metaDB.Ping(ctx))

	status := "healthy"
	for _, state := range components {
		if state == "unhealthy" {
			status = "degraded"
			break
		}
	}
	return HealthReport{Status: status, Components: components}
}

// CacheStats reports the semantic cache summary.
func (s *TextToSQLService) CacheStats(ctx context.Context) (cache.Stats, error) {
	if !s.cacheEnabled() {
		return cache.Stats{}, models.ErrCacheDisabled
	}
	return s.qcache.Stats(ctx)
}

// CacheEntries lists stored question/SQL pairs for inspection.
func (s *TextToSQLService) CacheEntries(ctx context.Context, limit int) ([]cache.Entry, error) {
	if !s.cacheEnabled() {
		return nil, models.ErrCacheDisabled
	}
	return s.qcache.Entries(ctx, limit)
}

// RemoveCacheEntry deletes a single cached pair by id.
func (s *TextToSQLService) RemoveCacheEntry(ctx context.Context, id string) error {
	if !s.cacheEnabled() {
		return models.ErrCacheDisabled
	}
	if err := s.qcache.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Cache entry removed", zap.String("id", id))
	return nil
}

// ClearCache empties the semantic cache.
func (s *TextToSQLService) ClearCache(ctx context.Context) error {
	if !s.cacheEnabled() {
		return models.ErrCacheDisabled
	}
	if err := s.qcache.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Cache cleared")
	return nil
}

func (s *TextToSQLService) cacheEnabled() bool {
	return s.cfg.Cache.Enabled && s.qcache != nil
}

func (s *TextToSQLService) cacheStatsBestEffort(ctx context.Context) *cache.Stats {
	if !s.cacheEnabled() {
		return nil
	}
	stats, err := s.qcache.Stats(ctx)
	if err != nil {
		return nil
	}
	return &stats
}
