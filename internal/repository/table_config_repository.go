package repository

import (
	"context"
	"errors"

	"nlsql/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TableConfigRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTableConfigRepository(db *pgxpool.Pool, logger *zap.Logger) *TableConfigRepository {
	return &TableConfigRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the config or updates the existing one for the same
// connection and table. The stored row's id is written back into cfg so
// repeated auto-configuration keeps collection names stable.
func (r *TableConfigRepository) Upsert(ctx context.Context, cfg *models.TableConfig) error {
	query := squirrel.Insert("table_configs").
		Columns("id", "database_connection_id", "table_name", "schema_name", "vectorization_strategy", "primary_key_column", "batch_size", "embedding_model", "is_enabled", "created_at", "updated_at").
		Values(cfg.ID, cfg.DatabaseConnectionID, cfg.TableName, cfg.SchemaName, cfg.VectorizationStrategy, cfg.PrimaryKeyColumn, cfg.BatchSize, cfg.EmbeddingModel, cfg.IsEnabled, cfg.CreatedAt, cfg.UpdatedAt).
		Suffix(`ON CONFLICT (database_connection_id, table_name) DO UPDATE SET
			schema_name = EXCLUDED.schema_name,
			vectorization_strategy = EXCLUDED.vectorization_strategy,
			primary_key_column = EXCLUDED.primary_key_column,
			batch_size = EXCLUDED.batch_size,
			embedding_model = EXCLUDED.embedding_model,
			is_enabled = EXCLUDED.is_enabled,
			updated_at = EXCLUDED.updated_at
		RETURNING id`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&cfg.ID)
}

func (r *TableConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TableConfig, error) {
	query := squirrel.Select("id", "database_connection_id", "table_name", "schema_name", "vectorization_strategy", "primary_key_column", "batch_size", "embedding_model", "is_enabled", "created_at", "updated_at").
		From("table_configs").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	cfg, err := scanTableConfig(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return cfg, err
}

func (r *TableConfigRepository) GetByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.TableConfig, error) {
	query := squirrel.Select("id", "database_connection_id", "table_name", "schema_name", "vectorization_strategy", "primary_key_column", "batch_size", "embedding_model", "is_enabled", "created_at", "updated_at").
		From("table_configs").
		Where(squirrel.Eq{"database_connection_id": connectionID}).
		OrderBy("table_name ASC").
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

	var configs []*models.TableConfig
	for rows.Next() {
		cfg, err := scanTableConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

func (r *TableConfigRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	query := squirrel.Update("table_configs").
		Set("is_enabled", enabled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

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

// ReplaceColumns swaps a table config's column set atomically.
func (r *TableConfigRepository) ReplaceColumns(ctx context.Context, tableConfigID uuid.UUID, columns []*models.ColumnConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	delQuery := squirrel.Delete("column_configs").
		Where(squirrel.Eq{"table_config_id": tableConfigID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := delQuery.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return err
	}

	if len(columns) > 0 {
		builder := squirrel.Insert("column_configs").
			Columns("id", "table_config_id", "column_name", "column_type", "should_vectorize", "embedding_weight", "is_metadata", "created_at").
			PlaceholderFormat(squirrel.Dollar)

		for _, col := range columns {
			builder = builder.Values(col.ID, col.TableConfigID, col.ColumnName, col.ColumnType, col.ShouldVectorize, col.EmbeddingWeight, col.IsMetadata, col.CreatedAt)
		}

		sql, args, err = builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *TableConfigRepository) ListColumns(ctx context.Context, tableConfigID uuid.UUID) ([]*models.ColumnConfig, error) {
	query := squirrel.Select("id", "table_config_id", "column_name", "column_type", "should_vectorize", "embedding_weight", "is_metadata", "created_at").
		From("column_configs").
		Where(squirrel.Eq{"table_config_id": tableConfigID}).
		OrderBy("column_name ASC").
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

	var columns []*models.ColumnConfig
	for rows.Next() {
		var col models.ColumnConfig
		if err := rows.Scan(
			&col.ID, &col.TableConfigID, &col.ColumnName, &col.ColumnType, &col.ShouldVectorize, &col.EmbeddingWeight, &col.IsMetadata, &col.CreatedAt,
		); err != nil {
			return nil, err
		}
		columns = append(columns, &col)
	}

	return columns, rows.Err()
}

func scanTableConfig(row pgx.Row) (*models.TableConfig, error) {
	var cfg models.TableConfig
	err := row.Scan(
		&cfg.ID, &cfg.DatabaseConnectionID, &cfg.TableName, &cfg.SchemaName, &cfg.VectorizationStrategy, &cfg.PrimaryKeyColumn, &cfg.BatchSize, &cfg.EmbeddingModel, &cfg.IsEnabled, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
