// Package sourcedb opens and introspects the external databases whose content
// gets discovered and vectorized. Everything here is read-only with respect to
// the source database; the service's own metadata lives elsewhere.
package sourcedb

import (
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"nlsql/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open builds a *sql.DB for the registered connection. The password arrives
// decrypted from the caller; it is never stored on the model. Open does not
// dial, callers ping when they need proof of connectivity.
func Open(conn *models.DatabaseConnection, password string) (*sql.DB, error) {
	var driver, dsn string

	switch conn.DBType {
	case models.DBTypePostgres:
		driver = "pgx"
		dsn = postgresDSN(conn, password)
	case models.DBTypeMySQL:
		driver = "mysql"
		dsn = mysqlDSN(conn, password)
	case models.DBTypeSQLite:
		driver = "sqlite"
		dsn = conn.DatabaseName
	default:
		return nil, fmt.Errorf("unsupported database type: %s", conn.DBType)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", conn.DBType, err)
	}

	if conn.DBType == models.DBTypeSQLite {
		// A single connection keeps the file handle serialized and makes
		// in-memory databases behave.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	return db, nil
}

func postgresDSN(conn *models.DatabaseConnection, password string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(conn.Username, password),
		Host:   fmt.Sprintf("%s:%d", conn.Host, conn.Port),
		Path:   "/" + conn.DatabaseName,
	}
	if len(conn.ConnectionParams) > 0 {
		q := url.Values{}
		for k, v := range conn.ConnectionParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func mysqlDSN(conn *models.DatabaseConnection, password string) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		conn.Username, password, conn.Host, conn.Port, conn.DatabaseName)

	// Deterministic parameter order keeps DSNs comparable in logs and tests.
	keys := make([]string, 0, len(conn.ConnectionParams))
	for k := range conn.ConnectionParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += "&" + url.QueryEscape(k) + "=" + url.QueryEscape(conn.ConnectionParams[k])
	}
	return dsn
}

// quoteIdent wraps an identifier in the dialect's quoting characters so
// reserved words and mixed-case names survive interpolation. Table and column
// names come from introspection, not user input, but quoting keeps them exact.
func quoteIdent(dbType models.DBType, ident string) string {
	if dbType == models.DBTypeMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
