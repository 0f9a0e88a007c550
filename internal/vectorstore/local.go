package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"nlsql/pkg/vecmath"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS collections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS embeddings (
	collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	id TEXT NOT NULL,
	document TEXT NOT NULL,
	embedding BLOB NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection_id, id)
);
`

// LocalStore is a persistent SQLite-backed vector store. Queries scan the
// collection brute-force, which is fine at the scale a single service
// instance caches or vectorizes.
type LocalStore struct {
	db *sql.DB
}

func NewLocalStore(path string) (*LocalStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Backend() string { return "local" }

func (s *LocalStore) Close() error { return s.db.Close() }

func (s *LocalStore) EnsureCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to ensure collection %q: %w", name, err)
	}
	return nil
}

func (s *LocalStore) collectionID(ctx context.Context, name string) (int64, error) {
	if err := s.EnsureCollection(ctx, name); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM collections WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve collection %q: %w", name, err)
	}
	return id, nil
}

func (s *LocalStore) Add(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	collID, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		meta := []byte("{}")
		if rec.Metadata != nil {
			meta, err = json.Marshal(rec.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode metadata for %q: %w", rec.ID, err)
			}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO embeddings (collection_id, id, document, embedding, metadata)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(collection_id, id) DO UPDATE SET
				document = excluded.document,
				embedding = excluded.embedding,
				metadata = excluded.metadata`,
			collID, rec.ID, rec.Document, encodeEmbedding(rec.Embedding), string(meta))
		if err != nil {
			return fmt.Errorf("failed to store record %q: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *LocalStore) Query(ctx context.Context, collection string, embedding []float32, limit int) ([]Match, error) {
	collID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, embedding, metadata FROM embeddings WHERE collection_id = ?`, collID)
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection %q: %w", collection, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			id, document, metaText string
			blob                   []byte
		)
		if err := rows.Scan(&id, &document, &blob, &metaText); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		vec, err := decodeEmbedding(blob)
		if err != nil {
			continue
		}
		sim, err := vecmath.CosineSimilarity(embedding, vec)
		if err != nil {
			continue
		}

		var meta Metadata
		_ = json.Unmarshal([]byte(metaText), &meta)

		matches = append(matches, Match{
			ID:       id,
			Document: document,
			Metadata: meta,
			Distance: 1 - sim,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection %q: %w", collection, err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *LocalStore) List(ctx context.Context, collection string, limit int) ([]Record, error) {
	collID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, document, metadata FROM embeddings WHERE collection_id = ? ORDER BY created_at DESC`
	args := []any{collID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %q: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var metaText string
		if err := rows.Scan(&rec.ID, &rec.Document, &metaText); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		_ = json.Unmarshal([]byte(metaText), &rec.Metadata)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection %q: %w", collection, err)
	}
	return records, nil
}

func (s *LocalStore) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM embeddings e
		JOIN collections c ON c.id = e.collection_id
		WHERE c.name = ?`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection %q: %w", collection, err)
	}
	return count, nil
}

func (s *LocalStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	collID, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, collID)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM embeddings WHERE collection_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete records from %q: %w", collection, err)
	}
	return nil
}

func (s *LocalStore) DeleteCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}
	return nil
}

// encodeEmbedding packs a vector as little-endian float32 bytes.
func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding reverses encodeEmbedding.
func decodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d (not multiple of 4)", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}
