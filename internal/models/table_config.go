package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Strategy string

const (
	StrategyNone         Strategy = "none"
	StrategySingleColumn Strategy = "single_column"
	StrategyConcatenated Strategy = "concatenated"
	StrategyWeighted     Strategy = "weighted_combination"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyNone, StrategySingleColumn, StrategyConcatenated, StrategyWeighted:
		return true
	}
	return false
}

// TableConfig describes how one source table is vectorized. It owns its
// ColumnConfigs and VectorizationJobs (cascade delete).
type TableConfig struct {
	ID                    uuid.UUID `db:"id"`
	DatabaseConnectionID  uuid.UUID `db:"database_connection_id"`
	TableName             string    `db:"table_name"`
	SchemaName            string    `db:"schema_name"`
	VectorizationStrategy Strategy  `db:"vectorization_strategy"`
	PrimaryKeyColumn      string    `db:"primary_key_column"`
	BatchSize             int       `db:"batch_size"`
	EmbeddingModel        string    `db:"embedding_model"`
	IsEnabled             bool      `db:"is_enabled"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// CollectionName is the vector store namespace for this table's embeddings.
func (c *TableConfig) CollectionName() string {
	return fmt.Sprintf("table_%s_%s", c.ID, c.TableName)
}

// ColumnConfig controls how one column participates in vectorization.
// EmbeddingWeight is only meaningful when ShouldVectorize is set.
type ColumnConfig struct {
	ID              uuid.UUID `db:"id"`
	TableConfigID   uuid.UUID `db:"table_config_id"`
	ColumnName      string    `db:"column_name"`
	ColumnType      string    `db:"column_type"`
	ShouldVectorize bool      `db:"should_vectorize"`
	EmbeddingWeight float64   `db:"embedding_weight"`
	IsMetadata      bool      `db:"is_metadata"`
	CreatedAt       time.Time `db:"created_at"`
}
