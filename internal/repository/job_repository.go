package repository

import (
	"context"
	"errors"

	"nlsql/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// uniqueViolation is the SQLSTATE raised when the single-active-job index
// rejects a second pending or running job for the same table config.
const uniqueViolation = "23505"

type JobRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewJobRepository(db *pgxpool.Pool, logger *zap.Logger) *JobRepository {
	return &JobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new pending job. Returns models.ErrJobConflict when the
// table config already has an active job; the database index is the single
// arbiter, so concurrent starts race safely.
func (r *JobRepository) Create(ctx context.Context, job *models.VectorizationJob) error {
	query := squirrel.Insert("vectorization_jobs").
		Columns("id", "table_config_id", "status", "progress_percentage", "total_rows", "processed_rows", "successful_rows", "failed_rows", "collection_name", "error_message", "started_at", "completed_at", "created_at", "updated_at").
		Values(job.ID, job.TableConfigID, job.Status, job.Progress, job.TotalRows, job.ProcessedRows, job.SuccessfulRows, job.FailedRows, job.CollectionName, job.ErrorMessage, job.StartedAt, job.CompletedAt, job.CreatedAt, job.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrJobConflict
		}
		return err
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VectorizationJob, error) {
	query := squirrel.Select("id", "table_config_id", "status", "progress_percentage", "total_rows", "processed_rows", "successful_rows", "failed_rows", "collection_name", "error_message", "started_at", "completed_at", "created_at", "updated_at").
		From("vectorization_jobs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return job, err
}

// Active returns the pending or running job for a table config, or
// models.ErrNotFound when the slot is free.
func (r *JobRepository) Active(ctx context.Context, tableConfigID uuid.UUID) (*models.VectorizationJob, error) {
	query := squirrel.Select("id", "table_config_id", "status", "progress_percentage", "total_rows", "processed_rows", "successful_rows", "failed_rows", "collection_name", "error_message", "started_at", "completed_at", "created_at", "updated_at").
		From("vectorization_jobs").
		Where(squirrel.Eq{"table_config_id": tableConfigID}).
		Where(squirrel.Eq{"status": []models.JobStatus{models.JobStatusPending, models.JobStatusInProgress}}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	job, err := scanJob(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return job, err
}

func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]*models.VectorizationJob, error) {
	query := squirrel.Select("id", "table_config_id", "status", "progress_percentage", "total_rows", "processed_rows", "successful_rows", "failed_rows", "collection_name", "error_message", "started_at", "completed_at", "created_at", "updated_at").
		From("vectorization_jobs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.VectorizationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// MarkRunning transitions pending -> in_progress. The status guard makes each
// transition idempotent: a second worker or a cancel that raced ahead leaves
// the row untouched and gets ErrNotFound.
func (r *JobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("vectorization_jobs").
		Set("status", models.JobStatusInProgress).
		Set("started_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": models.JobStatusPending}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execGuarded(ctx, query)
}

// SetTotalRows records the row estimate once the source table has been
// opened. Like UpdateProgress it does not report a guard miss.
func (r *JobRepository) SetTotalRows(ctx context.Context, id uuid.UUID, totalRows int64) error {
	query := squirrel.Update("vectorization_jobs").
		Set("total_rows", totalRows).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": models.JobStatusInProgress}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *JobRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("vectorization_jobs").
		Set("status", models.JobStatusCompleted).
		Set("progress_percentage", 100.0).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": models.JobStatusInProgress}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execGuarded(ctx, query)
}

func (r *JobRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := squirrel.Update("vectorization_jobs").
		Set("status", models.JobStatusFailed).
		Set("error_message", message).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": models.JobStatusInProgress}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execGuarded(ctx, query)
}

func (r *JobRepository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("vectorization_jobs").
		Set("status", models.JobStatusCancelled).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": []models.JobStatus{models.JobStatusPending, models.JobStatusInProgress}}).
		PlaceholderFormat(squirrel.Dollar)

	return r.execGuarded(ctx, query)
}

// UpdateProgress persists per-batch counters. The in_progress guard means a
// cancellation that landed first silently wins; the worker notices on its
// next status check.
func (r *JobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed, successful, failed int64, progress float64) error {
	query := squirrel.Update("vectorization_jobs").
		Set("processed_rows", processed).
		Set("successful_rows", successful).
		Set("failed_rows", failed).
		Set("progress_percentage", progress).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": models.JobStatusInProgress}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *JobRepository) execGuarded(ctx context.Context, query squirrel.UpdateBuilder) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.VectorizationJob, error) {
	var job models.VectorizationJob
	err := row.Scan(
		&job.ID, &job.TableConfigID, &job.Status, &job.Progress, &job.TotalRows, &job.ProcessedRows, &job.SuccessfulRows, &job.FailedRows, &job.CollectionName, &job.ErrorMessage, &job.StartedAt, &job.CompletedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
