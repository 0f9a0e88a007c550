package sourcedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nlsql/internal/models"
)

// rowEstimateCap bounds the fallback COUNT(*) scan so discovery never walks a
// huge table end to end.
const rowEstimateCap = 100000

// TableInfo identifies one base table in the source database.
type TableInfo struct {
	Name   string
	Schema string
}

// ColumnInfo is the declared shape of one column as the catalog reports it.
type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
}

// Introspector reads table structure and size without modifying the source
// database. RowEstimate never fails: it returns -1 when no answer could be
// obtained, which is distinct from an empty table's 0.
type Introspector interface {
	Tables(ctx context.Context) ([]TableInfo, error)
	Columns(ctx context.Context, table string) ([]ColumnInfo, error)
	PrimaryKey(ctx context.Context, table string) (string, error)
	RowEstimate(ctx context.Context, table string) int64
}

// NewIntrospector returns the dialect implementation for the database type.
// schema is only meaningful for Postgres and defaults to "public".
func NewIntrospector(db *sql.DB, dbType models.DBType, schema string) (Introspector, error) {
	switch dbType {
	case models.DBTypePostgres:
		if schema == "" {
			schema = "public"
		}
		return &postgresIntrospector{db: db, schema: schema}, nil
	case models.DBTypeMySQL:
		return &mysqlIntrospector{db: db}, nil
	case models.DBTypeSQLite:
		return &sqliteIntrospector{db: db}, nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", dbType)
}

// boundedCount counts rows while capping the scanned range. Failures collapse
// to -1 so discovery can keep going with an unknown size.
func boundedCount(ctx context.Context, db *sql.DB, quotedTable string) int64 {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM (SELECT 1 FROM %s LIMIT %d) AS bounded",
		quotedTable, rowEstimateCap,
	)
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return -1
	}
	return n
}

type postgresIntrospector struct {
	db     *sql.DB
	schema string
}

func (p *postgresIntrospector) Tables(ctx context.Context) ([]TableInfo, error) {
	query := `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := p.db.QueryContext(ctx, query, p.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Columns reports udt_name as the type: information_schema's data_type spells
// varchar as "character varying", which the column scoring vocabularies would
// not recognize.
func (p *postgresIntrospector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := `
		SELECT column_name, udt_name, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := p.db.QueryContext(ctx, query, p.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var isNullable string
		if err := rows.Scan(&col.Name, &col.Type, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (p *postgresIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
		LIMIT 1
	`

	var column string
	err := p.db.QueryRowContext(ctx, query, p.schema, table).Scan(&column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query primary key: %w", err)
	}
	return column, nil
}

func (p *postgresIntrospector) RowEstimate(ctx context.Context, table string) int64 {
	query := `
		SELECT reltuples::BIGINT
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		  AND c.relname = $2
	`

	var estimate int64
	err := p.db.QueryRowContext(ctx, query, p.schema, table).Scan(&estimate)
	if err == nil && estimate > 0 {
		return estimate
	}
	// reltuples is -1 or 0 until the table has been analyzed.
	return boundedCount(ctx, p.db, quoteIdent(models.DBTypePostgres, table))
}

type mysqlIntrospector struct {
	db *sql.DB
}

func (m *mysqlIntrospector) Tables(ctx context.Context) ([]TableInfo, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (m *mysqlIntrospector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := m.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var isNullable string
		if err := rows.Scan(&col.Name, &col.Type, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = isNullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (m *mysqlIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
		LIMIT 1
	`

	var column string
	err := m.db.QueryRowContext(ctx, query, table).Scan(&column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query primary key: %w", err)
	}
	return column, nil
}

func (m *mysqlIntrospector) RowEstimate(ctx context.Context, table string) int64 {
	query := `
		SELECT table_rows
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
	`

	var estimate sql.NullInt64
	err := m.db.QueryRowContext(ctx, query, table).Scan(&estimate)
	if err == nil && estimate.Valid && estimate.Int64 > 0 {
		return estimate.Int64
	}
	return boundedCount(ctx, m.db, quoteIdent(models.DBTypeMySQL, table))
}

type sqliteIntrospector struct {
	db *sql.DB
}

func (s *sqliteIntrospector) Tables(ctx context.Context) ([]TableInfo, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *sqliteIntrospector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	columns, _, err := s.tableInfo(ctx, table)
	return columns, err
}

func (s *sqliteIntrospector) PrimaryKey(ctx context.Context, table string) (string, error) {
	_, pk, err := s.tableInfo(ctx, table)
	return pk, err
}

// tableInfo reads PRAGMA table_info once; it carries both the column list and
// the primary key flags.
func (s *sqliteIntrospector) tableInfo(ctx context.Context, table string) ([]ColumnInfo, string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(models.DBTypeSQLite, table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	var primaryKey string
	for rows.Next() {
		var (
			cid       int
			col       ColumnInfo
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dfltValue, &pk); err != nil {
			return nil, "", fmt.Errorf("failed to scan column: %w", err)
		}
		col.Nullable = notNull == 0
		if pk == 1 {
			primaryKey = col.Name
		}
		columns = append(columns, col)
	}
	return columns, primaryKey, rows.Err()
}

func (s *sqliteIntrospector) RowEstimate(ctx context.Context, table string) int64 {
	// SQLite keeps no usable row statistics without ANALYZE.
	return boundedCount(ctx, s.db, quoteIdent(models.DBTypeSQLite, table))
}
