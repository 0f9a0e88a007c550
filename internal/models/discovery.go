package models

import (
	"time"

	"github.com/google/uuid"
)

// ColumnProfile is the per-column result of schema analysis.
type ColumnProfile struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	IsText         bool    `json:"is_text"`
	IsNumeric      bool    `json:"is_numeric"`
	Vectorizable   bool    `json:"vectorizable"`
	PotentialScore float64 `json:"potential_score"`
	Recommended    bool    `json:"recommended_for_embedding"`
}

// TableProfile aggregates column profiles into a vectorization verdict.
type TableProfile struct {
	Name                string          `json:"name"`
	Schema              string          `json:"schema,omitempty"`
	RowEstimate         int64           `json:"row_estimate"`
	PrimaryKey          string          `json:"primary_key,omitempty"`
	Columns             []ColumnProfile `json:"columns"`
	TextColumns         int             `json:"text_columns"`
	VectorizableColumns int             `json:"vectorizable_columns"`
	Potential           float64         `json:"vectorization_potential"`
	Recommended         bool            `json:"recommended"`
	RecommendedStrategy Strategy        `json:"recommended_strategy"`
}

// SchemaReport is the full discovery output for one connection.
type SchemaReport struct {
	ConnectionID uuid.UUID      `json:"connection_id"`
	DatabaseName string         `json:"database_name"`
	Tables       []TableProfile `json:"tables"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// SearchResult is one similarity match from a vectorized table collection.
type SearchResult struct {
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	Similarity float64        `json:"similarity"`
	Collection string         `json:"collection"`
}
