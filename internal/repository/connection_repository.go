package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nlsql/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ConnectionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewConnectionRepository(db *pgxpool.Pool, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *models.DatabaseConnection) error {
	params := conn.ConnectionParams
	if params == nil {
		params = map[string]string{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return err
	}

	query := squirrel.Insert("database_connections").
		Columns("id", "name", "db_type", "host", "port", "database_name", "username", "encrypted_password", "connection_params", "is_active", "last_tested", "test_status", "created_at", "updated_at").
		Values(conn.ID, conn.Name, conn.DBType, conn.Host, conn.Port, conn.DatabaseName, conn.Username, conn.EncryptedPassword, paramsJSON, conn.IsActive, conn.LastTested, conn.TestStatus, conn.CreatedAt, conn.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DatabaseConnection, error) {
	query := squirrel.Select("id", "name", "db_type", "host", "port", "database_name", "username", "encrypted_password", "connection_params", "is_active", "last_tested", "test_status", "created_at", "updated_at").
		From("database_connections").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	conn, err := scanConnection(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return conn, err
}

func (r *ConnectionRepository) List(ctx context.Context, includeInactive bool) ([]*models.DatabaseConnection, error) {
	query := squirrel.Select("id", "name", "db_type", "host", "port", "database_name", "username", "encrypted_password", "connection_params", "is_active", "last_tested", "test_status", "created_at", "updated_at").
		From("database_connections").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if !includeInactive {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []*models.DatabaseConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, conn)
	}

	return connections, rows.Err()
}

// Deactivate soft-deletes a connection. Rows are never removed so table
// configs and job history stay resolvable.
func (r *ConnectionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("database_connections").
		Set("is_active", false).
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

func (r *ConnectionRepository) UpdateTestStatus(ctx context.Context, id uuid.UUID, status string, testedAt time.Time) error {
	query := squirrel.Update("database_connections").
		Set("test_status", status).
		Set("last_tested", testedAt).
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

func scanConnection(row pgx.Row) (*models.DatabaseConnection, error) {
	var conn models.DatabaseConnection
	var paramsJSON []byte

	err := row.Scan(
		&conn.ID, &conn.Name, &conn.DBType, &conn.Host, &conn.Port, &conn.DatabaseName, &conn.Username, &conn.EncryptedPassword, &paramsJSON, &conn.IsActive, &conn.LastTested, &conn.TestStatus, &conn.CreatedAt, &conn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &conn.ConnectionParams); err != nil {
			return nil, err
		}
	}

	return &conn, nil
}
