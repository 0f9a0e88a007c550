package service

import (
	"context"
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"nlsql/internal/llm"
	"nlsql/internal/models"
	"nlsql/internal/repository"
	"nlsql/internal/sourcedb"
	"nlsql/internal/vectorstore"
	"nlsql/pkg/config"
	"nlsql/pkg/secrets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VectorizationService struct {
	jobs        *repository.JobRepository
	tables      *repository.TableConfigRepository
	connections *repository.ConnectionRepository
	store       vectorstore.Store
	embedder    llm.Embedder
	cipher      *secrets.Cipher
	cfg         *config.VectorizationConfig
	logger      *zap.Logger
}

func NewVectorizationService(
	jobs *repository.JobRepository,
	tables *repository.TableConfigRepository,
	connections *repository.ConnectionRepository,
	store vectorstore.Store,
	embedder llm.Embedder,
	cipher *secrets.Cipher,
	cfg *config.VectorizationConfig,
	logger *zap.Logger,
) *VectorizationService {
	return &VectorizationService{
		jobs:        jobs,
		tables:      tables,
		connections: connections,
		store:       store,
		embedder:    embedder,
		cipher:      cipher,
		cfg:         cfg,
		logger:      logger,
	}
}

// StartJob registers a pending job for the table config. The partial unique
// index on active jobs turns concurrent starts into ErrJobConflict instead of
// duplicate work.
func (s *VectorizationService) StartJob(ctx context.Context, tableConfigID uuid.UUID) (*models.VectorizationJob, error) {
	cfg, err := s.tables.GetByID(ctx, tableConfigID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsEnabled {
		return nil, fmt.Errorf("table config %s: %w", cfg.ID, models.ErrConfigDisabled)
	}

	now := time.Now()
	job := &models.VectorizationJob{
		ID:             uuid.New(),
		TableConfigID:  cfg.ID,
		Status:         models.JobStatusPending,
		CollectionName: cfg.CollectionName(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Vectorization job created",
		zap.String("job_id", job.ID.String()),
		zap.String("table", cfg.TableName),
	)
	return job, nil
}

// ProcessJob drives one pending job to a terminal state. It is synchronous;
// callers wanting fire-and-forget run it on their own goroutine. Partial
// progress survives failure: vectors already stored stay stored.
func (s *VectorizationService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != models.JobStatusPending {
		return fmt.Errorf("job %s is %s, expected pending", job.ID, job.Status)
	}

	if err := s.jobs.MarkRunning(ctx, job.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// A cancel won the race; nothing to do.
			s.logger.Info("Job no longer pending, skipping", zap.String("job_id", job.ID.String()))
			return nil
		}
		return err
	}

	cfg, err := s.tables.GetByID(ctx, job.TableConfigID)
	if err != nil {
		return s.fail(ctx, job.ID, fmt.Errorf("failed to load table config: %w", err))
	}
	columns, err := s.tables.ListColumns(ctx, cfg.ID)
	if err != nil {
		return s.fail(ctx, job.ID, fmt.Errorf("failed to load column configs: %w", err))
	}

	var vectorizable []*models.ColumnConfig
	var metaColumns []string
	for _, col := range columns {
		switch {
		case col.ShouldVectorize:
			vectorizable = append(vectorizable, col)
		case col.IsMetadata && col.ColumnName != cfg.PrimaryKeyColumn:
			metaColumns = append(metaColumns, col.ColumnName)
		}
	}

	if len(vectorizable) == 0 {
		// Nothing to embed is a legal no-op, not a failure.
		if err := s.jobs.MarkCompleted(ctx, job.ID); err != nil {
			return err
		}
		s.logger.Info("Vectorization job completed with no vectorizable columns",
			zap.String("job_id", job.ID.String()))
		return nil
	}

	conn, err := s.connections.GetByID(ctx, cfg.DatabaseConnectionID)
	if err != nil {
		return s.fail(ctx, job.ID, fmt.Errorf("failed to load connection: %w", err))
	}
	db, err := openSource(s.cipher, conn)
	if err != nil {
		return s.fail(ctx, job.ID, err)
	}
	defer db.Close()

	intro, err := sourcedb.NewIntrospector(db, conn.DBType, cfg.SchemaName)
	if err != nil {
		return s.fail(ctx, job.ID, err)
	}
	total := intro.RowEstimate(ctx, cfg.TableName)
	if total < 0 {
		// Unknown size: progress stays at zero until completion.
		total = 0
	}
	if err := s.jobs.SetTotalRows(ctx, job.ID, total); err != nil {
		s.logger.Warn("Failed to record row total",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	if err := s.store.EnsureCollection(ctx, job.CollectionName); err != nil {
		return s.fail(ctx, job.ID, fmt.Errorf("failed to prepare collection: %w", err))
	}

	totals, err := s.run(ctx, db, conn, cfg, job, vectorizable, metaColumns, total)
	if err != nil {
		return s.fail(ctx, job.ID, err)
	}
	if totals.cancelled {
		s.logger.Info("Vectorization job cancelled",
			zap.String("job_id", job.ID.String()),
			zap.Int64("processed", totals.processed),
		)
		return nil
	}

	if err := s.jobs.MarkCompleted(ctx, job.ID); err != nil {
		return err
	}
	s.logger.Info("Vectorization job completed",
		zap.String("job_id", job.ID.String()),
		zap.String("table", cfg.TableName),
		zap.Int64("processed", totals.processed),
		zap.Int64("successful", totals.successful),
		zap.Int64("failed", totals.failed),
	)
	return nil
}

type runTotals struct {
	processed  int64
	successful int64
	failed     int64
	cancelled  bool
}

// run streams the table in primary-key order and embeds batch by batch.
// Batch-level embedding or store failures count the batch as failed and move
// on; only fetch and bookkeeping errors abort the job.
func (s *VectorizationService) run(
	ctx context.Context,
	db *sql.DB,
	conn *models.DatabaseConnection,
	cfg *models.TableConfig,
	job *models.VectorizationJob,
	vectorizable []*models.ColumnConfig,
	metaColumns []string,
	total int64,
) (runTotals, error) {
	var totals runTotals

	fetchCols := fetchColumns(cfg, vectorizable, metaColumns)
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}

	var offset uint64
	for {
		if err := ctx.Err(); err != nil {
			return totals, err
		}

		// Cancellation is advisory and honored between batches.
		current, err := s.jobs.GetByID(ctx, job.ID)
		if err != nil {
			return totals, fmt.Errorf("failed to check job status: %w", err)
		}
		if current.Status == models.JobStatusCancelled {
			totals.cancelled = true
			return totals, nil
		}

		records, err := sourcedb.FetchBatch(ctx, db, conn.DBType, cfg.TableName,
			cfg.PrimaryKeyColumn, fetchCols, uint64(batchSize), offset)
		if err != nil {
			return totals, fmt.Errorf("failed to fetch batch at offset %d: %w", offset, err)
		}
		if len(records) == 0 {
			break
		}
		offset += uint64(len(records))
		totals.processed += int64(len(records))

		docs := make([]vectorstore.Record, 0, len(records))
		for _, record := range records {
			content := buildContent(cfg.VectorizationStrategy, vectorizable, record, s.cfg.MaxTextLength)
			if strings.TrimSpace(content) == "" {
				totals.failed++
				continue
			}
			docs = append(docs, vectorstore.Record{
				ID:       recordID(cfg.TableName, cfg.PrimaryKeyColumn, record),
				Document: content,
				Metadata: recordMetadata(cfg, conn.ID, metaColumns, record),
			})
		}

		if len(docs) > 0 {
			if err := s.embedAndStore(ctx, job.CollectionName, docs); err != nil {
				s.logger.Warn("Batch lost, continuing with next",
					zap.String("job_id", job.ID.String()),
					zap.Int("batch_size", len(docs)),
					zap.Error(err),
				)
				totals.failed += int64(len(docs))
			} else {
				totals.successful += int64(len(docs))
			}
		}

		var progress float64
		if total > 0 {
			progress = float64(totals.processed) / float64(total) * 100
			if progress > 100 {
				progress = 100
			}
		}
		if err := s.jobs.UpdateProgress(ctx, job.ID,
			totals.processed, totals.successful, totals.failed, progress); err != nil {
			s.logger.Warn("Failed to persist progress",
				zap.String("job_id", job.ID.String()), zap.Error(err))
		}

		if len(records) < batchSize {
			break
		}
	}
	return totals, nil
}

// embedAndStore embeds one batch of documents and upserts them. Embedding is
// retried per config before the batch is given up.
func (s *VectorizationService) embedAndStore(ctx context.Context, collection string, docs []vectorstore.Record) error {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Document
	}

	vectors, err := s.embedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	for i := range docs {
		docs[i].Embedding = vectors[i]
	}

	if err := s.store.Add(ctx, collection, docs); err != nil {
		return fmt.Errorf("vector store rejected batch: %w", err)
	}
	return nil
}

func (s *VectorizationService) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	attempts := s.cfg.EmbedRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			if len(vectors) != len(texts) {
				return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
			}
			return vectors, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// fail records the cause on the job row and hands the error back.
func (s *VectorizationService) fail(ctx context.Context, jobID uuid.UUID, cause error) error {
	if err := s.jobs.MarkFailed(ctx, jobID, sanitizeUTF8(cause.Error())); err != nil {
		s.logger.Error("Failed to mark job failed",
			zap.String("job_id", jobID.String()), zap.Error(err))
	}
	return cause
}

// JobStatus returns the job row. A missing job is ErrNotFound, which callers
// must keep distinct from a job that simply has not started.
func (s *VectorizationService) JobStatus(ctx context.Context, jobID uuid.UUID) (*models.VectorizationJob, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// RecentJobs lists the latest jobs across all tables.
func (s *VectorizationService) RecentJobs(ctx context.Context, limit int) ([]*models.VectorizationJob, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.jobs.ListRecent(ctx, limit)
}

// CancelJob requests cancellation. Only pending and in_progress jobs can be
// cancelled; a running worker observes the new status between batches.
func (s *VectorizationService) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	if err := s.jobs.MarkCancelled(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info("Vectorization job cancellation requested", zap.String("job_id", jobID.String()))
	return nil
}

// Search embeds the query and scans the table's collection for similar rows.
func (s *VectorizationService) Search(ctx context.Context, tableConfigID uuid.UUID, query string, limit int) ([]models.SearchResult, error) {
	cfg, err := s.tables.GetByID(ctx, tableConfigID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.SearchLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	collection := cfg.CollectionName()
	matches, err := s.store.Query(ctx, collection, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", collection, err)
	}

	results := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.SearchResult{
			Content:    m.Document,
			Metadata:   m.Metadata.Plain(),
			Similarity: 1 - m.Distance,
			Collection: collection,
		})
	}
	return results, nil
}

// fetchColumns is the deduplicated SELECT list: vectorizable columns first,
// then the primary key and metadata columns.
func fetchColumns(cfg *models.TableConfig, vectorizable []*models.ColumnConfig, metaColumns []string) []string {
	cols := make([]string, 0, len(vectorizable)+len(metaColumns)+1)
	seen := make(map[string]bool, cap(cols))
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}

	for _, col := range vectorizable {
		add(col.ColumnName)
	}
	add(cfg.PrimaryKeyColumn)
	for _, name := range metaColumns {
		add(name)
	}
	return cols
}

// buildContent renders one source row into the text that gets embedded.
// Unknown strategies fall back to concatenated. Missing and null values are
// skipped; the result is truncated to maxLen runes.
func buildContent(strategy models.Strategy, columns []*models.ColumnConfig, record map[string]any, maxLen int) string {
	switch strategy {
	case models.StrategySingleColumn:
		if len(columns) == 0 {
			return ""
		}
		v, ok := record[columns[0].ColumnName]
		if !ok || v == nil {
			return ""
		}
		return truncate(sanitizeUTF8(stringify(v)), maxLen)

	case models.StrategyWeighted:
		var parts []string
		for _, col := range columns {
			if col.EmbeddingWeight <= 0 {
				continue
			}
			text := recordText(record, col.ColumnName)
			if text == "" {
				continue
			}
			// Repetition coarsely biases the averaged embedding toward
			// heavier columns.
			repeats := int(col.EmbeddingWeight * 3)
			if repeats < 1 {
				repeats = 1
			}
			repeated := strings.TrimSpace(strings.Repeat(text+" ", repeats))
			parts = append(parts, col.ColumnName+": "+repeated)
		}
		return truncate(strings.Join(parts, " | "), maxLen)

	default: // StrategyConcatenated
		var parts []string
		for _, col := range columns {
			text := recordText(record, col.ColumnName)
			if text == "" {
				continue
			}
			parts = append(parts, col.ColumnName+": "+text)
		}
		return truncate(strings.Join(parts, " | "), maxLen)
	}
}

func recordText(record map[string]any, column string) string {
	v, ok := record[column]
	if !ok || v == nil {
		return ""
	}
	return sanitizeUTF8(stringify(v))
}

// recordID derives a stable identity so re-vectorization overwrites rather
// than duplicates. Without a primary key the sorted row content is hashed.
func recordID(table, pkColumn string, record map[string]any) string {
	if pkColumn != "" {
		if v, ok := record[pkColumn]; ok && v != nil {
			return fmt.Sprintf("%s_%v", table, v)
		}
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := md5.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v;", k, record[k])
	}
	return fmt.Sprintf("%s_%x", table, h.Sum(nil))
}

// recordMetadata builds the scalar metadata stored alongside each vector.
// The primary key is kept as text so identifiers survive round trips intact;
// extra metadata columns keep their native scalar kind.
func recordMetadata(cfg *models.TableConfig, connectionID uuid.UUID, metaColumns []string, record map[string]any) vectorstore.Metadata {
	md := vectorstore.Metadata{
		"table_name":             vectorstore.String(cfg.TableName),
		"database_id":            vectorstore.String(connectionID.String()),
		"vectorization_strategy": vectorstore.String(string(cfg.VectorizationStrategy)),
		"vectorized_at":          vectorstore.String(time.Now().UTC().Format(time.RFC3339)),
	}
	if cfg.PrimaryKeyColumn != "" {
		if v, ok := record[cfg.PrimaryKeyColumn]; ok && v != nil {
			md["primary_key"] = vectorstore.String(stringify(v))
		}
	}
	for _, col := range metaColumns {
		v, ok := record[col]
		if !ok || v == nil {
			continue
		}
		md["meta_"+col] = vectorstore.Coerce(v)
	}
	return md
}
