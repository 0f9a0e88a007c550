package dto

import (
	"time"

	"nlsql/internal/models"
)

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty"`
}

type JobResponse struct {
	ID             string     `json:"id"`
	TableConfigID  string     `json:"table_config_id"`
	Status         string     `json:"status"`
	Progress       float64    `json:"progress_percentage"`
	TotalRows      int64      `json:"total_rows"`
	ProcessedRows  int64      `json:"processed_rows"`
	SuccessfulRows int64      `json:"successful_rows"`
	FailedRows     int64      `json:"failed_rows"`
	CollectionName string     `json:"collection_name"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func JobFromModel(job *models.VectorizationJob) JobResponse {
	return JobResponse{
		ID:             job.ID.String(),
		TableConfigID:  job.TableConfigID.String(),
		Status:         string(job.Status),
		Progress:       job.Progress,
		TotalRows:      job.TotalRows,
		ProcessedRows:  job.ProcessedRows,
		SuccessfulRows: job.SuccessfulRows,
		FailedRows:     job.FailedRows,
		CollectionName: job.CollectionName,
		ErrorMessage:   job.ErrorMessage,
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func JobsFromModels(jobs []*models.VectorizationJob) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobFromModel(j))
	}
	return out
}

type TableConfigResponse struct {
	ID                    string    `json:"id"`
	DatabaseConnectionID  string    `json:"database_connection_id"`
	TableName             string    `json:"table_name"`
	SchemaName            string    `json:"schema_name,omitempty"`
	VectorizationStrategy string    `json:"vectorization_strategy"`
	PrimaryKeyColumn      string    `json:"primary_key_column,omitempty"`
	BatchSize             int       `json:"batch_size"`
	EmbeddingModel        string    `json:"embedding_model"`
	IsEnabled             bool      `json:"is_enabled"`
	CollectionName        string    `json:"collection_name"`
	CreatedAt             time.Time `json:"created_at"`
}

func TableConfigFromModel(cfg *models.TableConfig) TableConfigResponse {
	return TableConfigResponse{
		ID:                    cfg.ID.String(),
		DatabaseConnectionID:  cfg.DatabaseConnectionID.String(),
		TableName:             cfg.TableName,
		SchemaName:            cfg.SchemaName,
		VectorizationStrategy: string(cfg.VectorizationStrategy),
		PrimaryKeyColumn:      cfg.PrimaryKeyColumn,
		BatchSize:             cfg.BatchSize,
		EmbeddingModel:        cfg.EmbeddingModel,
		IsEnabled:             cfg.IsEnabled,
		CollectionName:        cfg.CollectionName(),
		CreatedAt:             cfg.CreatedAt,
	}
}
