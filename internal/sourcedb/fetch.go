package sourcedb

import (
	"context"
	"database/sql"
	"fmt"

	"nlsql/internal/models"

	"github.com/Masterminds/squirrel"
)

// FetchBatch reads one page of rows as generic records. Pages are ordered by
// orderBy when set (the configured primary key) so pagination is deterministic
// and resumable; without it the database's natural order applies and paging is
// best-effort. []byte values are normalized to string so content building and
// metadata coercion always see text.
func FetchBatch(ctx context.Context, db *sql.DB, dbType models.DBType, table, orderBy string, columns []string, limit, offset uint64) ([]map[string]any, error) {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(dbType, c)
	}

	builder := squirrel.Select(quoted...).
		From(quoteIdent(dbType, table)).
		Limit(limit).
		Offset(offset)
	if orderBy != "" {
		builder = builder.OrderBy(quoteIdent(dbType, orderBy))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch batch: %w", err)
	}
	defer rows.Close()

	return ScanRows(rows, 0)
}

// ScanRows decodes a result set into generic records without knowing its
// shape. max > 0 caps how many rows are read; the rest of the cursor is
// discarded.
func ScanRows(rows *sql.Rows, max int) ([]map[string]any, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	var records []map[string]any
	for rows.Next() {
		if max > 0 && len(records) >= max {
			break
		}
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(map[string]any, len(names))
		for i, name := range names {
			record[name] = normalizeValue(values[i])
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// normalizeValue flattens driver-specific representations. MySQL in
// particular returns text columns as []byte.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
