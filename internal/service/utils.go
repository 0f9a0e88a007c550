package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"nlsql/internal/models"
	"nlsql/internal/sourcedb"
	"nlsql/pkg/secrets"
)

// pingWithTimeout bounds connectivity probes so a dead host fails fast
// instead of holding a request for the driver's full dial timeout.
func pingWithTimeout(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// openSource resolves a stored connection into a live handle by decrypting
// its credentials. Callers own the returned *sql.DB and must close it.
func openSource(cipher *secrets.Cipher, conn *models.DatabaseConnection) (*sql.DB, error) {
	password := ""
	if conn.EncryptedPassword != "" {
		var err error
		password, err = cipher.Decrypt(conn.EncryptedPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
		}
	}
	return sourcedb.Open(conn, password)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// stringify renders a source value the way it should read inside embedded
// content and metadata. Timestamps use RFC 3339.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truncate cuts to at most max runes without splitting a multibyte character.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// sanitizeUTF8 removes invalid UTF-8 sequences from string
// This prevents PostgreSQL encoding errors when saving text
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	// Remove invalid UTF-8 sequences
	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8 sequence, skip this byte
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
