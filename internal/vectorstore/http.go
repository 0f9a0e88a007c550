package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HTTPStore talks to a Chroma-compatible vector database over its REST API.
type HTTPStore struct {
	baseURL string
	client  *http.Client

	mu  sync.Mutex
	ids map[string]string // collection name -> server-side id
}

func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		ids:     make(map[string]string),
	}
}

// Ping checks the heartbeat endpoint.
func (s *HTTPStore) Ping(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodGet, "/api/v1/heartbeat", nil, nil)
}

func (s *HTTPStore) Backend() string { return "remote" }

func (s *HTTPStore) EnsureCollection(ctx context.Context, name string) error {
	_, err := s.collectionID(ctx, name)
	return err
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *HTTPStore) collectionID(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	if id, ok := s.ids[name]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	body := map[string]any{"name": name, "get_or_create": true}
	var coll collectionResponse
	if err := s.doJSON(ctx, http.MethodPost, "/api/v1/collections", body, &coll); err != nil {
		return "", fmt.Errorf("failed to ensure collection %q: %w", name, err)
	}

	s.mu.Lock()
	s.ids[name] = coll.ID
	s.mu.Unlock()
	return coll.ID, nil
}

func (s *HTTPStore) Add(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	documents := make([]string, len(records))
	metadatas := make([]Metadata, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		embeddings[i] = rec.Embedding
		documents[i] = rec.Document
		metadatas[i] = rec.Metadata
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	if err := s.doJSON(ctx, http.MethodPost, "/api/v1/collections/"+id+"/upsert", body, nil); err != nil {
		return fmt.Errorf("failed to add records to %q: %w", collection, err)
	}
	return nil
}

type queryResponse struct {
	IDs       [][]string   `json:"ids"`
	Documents [][]*string  `json:"documents"`
	Metadatas [][]Metadata `json:"metadatas"`
	Distances [][]float64  `json:"distances"`
}

func (s *HTTPStore) Query(ctx context.Context, collection string, embedding []float32, limit int) ([]Match, error) {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        limit,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp queryResponse
	if err := s.doJSON(ctx, http.MethodPost, "/api/v1/collections/"+id+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", collection, err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(resp.IDs[0]))
	for i, matchID := range resp.IDs[0] {
		m := Match{ID: matchID}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) && resp.Documents[0][i] != nil {
			m.Document = *resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			m.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			m.Distance = resp.Distances[0][i]
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type getResponse struct {
	IDs       []string   `json:"ids"`
	Documents []*string  `json:"documents"`
	Metadatas []Metadata `json:"metadatas"`
}

func (s *HTTPStore) List(ctx context.Context, collection string, limit int) ([]Record, error) {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"include": []string{"documents", "metadatas"},
	}
	if limit > 0 {
		body["limit"] = limit
	}
	var resp getResponse
	if err := s.doJSON(ctx, http.MethodPost, "/api/v1/collections/"+id+"/get", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", collection, err)
	}

	records := make([]Record, 0, len(resp.IDs))
	for i, recID := range resp.IDs {
		rec := Record{ID: recID}
		if i < len(resp.Documents) && resp.Documents[i] != nil {
			rec.Document = *resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			rec.Metadata = resp.Metadatas[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *HTTPStore) Count(ctx context.Context, collection string) (int, error) {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.doJSON(ctx, http.MethodGet, "/api/v1/collections/"+id+"/count", nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count %q: %w", collection, err)
	}
	return count, nil
}

func (s *HTTPStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	body := map[string]any{"ids": ids}
	if err := s.doJSON(ctx, http.MethodPost, "/api/v1/collections/"+id+"/delete", body, nil); err != nil {
		return fmt.Errorf("failed to delete records from %q: %w", collection, err)
	}
	return nil
}

func (s *HTTPStore) DeleteCollection(ctx context.Context, name string) error {
	if err := s.doJSON(ctx, http.MethodDelete, "/api/v1/collections/"+name, nil, nil); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}

	s.mu.Lock()
	delete(s.ids, name)
	s.mu.Unlock()
	return nil
}

func (s *HTTPStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *HTTPStore) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vector store returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
