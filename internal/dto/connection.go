package dto

import (
	"time"

	"nlsql/internal/models"
)

type CreateConnectionRequest struct {
	Name             string            `json:"name" validate:"required"`
	DBType           string            `json:"db_type" validate:"required,oneof=postgresql mysql sqlite"`
	Host             string            `json:"host"`
	Port             int               `json:"port"`
	DatabaseName     string            `json:"database_name" validate:"required"`
	Username         string            `json:"username"`
	Password         string            `json:"password"`
	ConnectionParams map[string]string `json:"connection_params,omitempty"`
}

// ConnectionResponse never carries credentials, encrypted or otherwise.
type ConnectionResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	DBType       string     `json:"db_type"`
	Host         string     `json:"host"`
	Port         int        `json:"port"`
	DatabaseName string     `json:"database_name"`
	Username     string     `json:"username"`
	IsActive     bool       `json:"is_active"`
	LastTested   *time.Time `json:"last_tested,omitempty"`
	TestStatus   string     `json:"test_status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ConnectionFromModel(conn *models.DatabaseConnection) ConnectionResponse {
	return ConnectionResponse{
		ID:           conn.ID.String(),
		Name:         conn.Name,
		DBType:       string(conn.DBType),
		Host:         conn.Host,
		Port:         conn.Port,
		DatabaseName: conn.DatabaseName,
		Username:     conn.Username,
		IsActive:     conn.IsActive,
		LastTested:   conn.LastTested,
		TestStatus:   conn.TestStatus,
		CreatedAt:    conn.CreatedAt,
	}
}

func ConnectionsFromModels(conns []*models.DatabaseConnection) []ConnectionResponse {
	out := make([]ConnectionResponse, 0, len(conns))
	for _, c := range conns {
		out = append(out, ConnectionFromModel(c))
	}
	return out
}
