package dto

import "nlsql/internal/service"

// ReadonlyMode is optional on every query request; nil falls back to the
// server-wide READONLY_MODE setting.

type TextToSQLRequest struct {
	Question     string `json:"question" validate:"required"`
	ReadonlyMode *bool  `json:"readonly_mode,omitempty"`
}

type ExecuteSQLRequest struct {
	ConnectionID string `json:"connection_id" validate:"required,uuid"`
	SQL          string `json:"sql_query" validate:"required"`
	ReadonlyMode *bool  `json:"readonly_mode,omitempty"`
}

type TextToSQLExecuteRequest struct {
	Question     string `json:"question" validate:"required"`
	ConnectionID string `json:"connection_id" validate:"required,uuid"`
	ReadonlyMode *bool  `json:"readonly_mode,omitempty"`
}

type ExplainSQLRequest struct {
	SQL string `json:"sql_query" validate:"required"`
}

type ValidateSQLRequest struct {
	SQL          string `json:"sql_query" validate:"required"`
	ReadonlyMode *bool  `json:"readonly_mode,omitempty"`
}

type ExplainSQLResponse struct {
	SQL         string `json:"sql_query"`
	Explanation string `json:"explanation"`
}

// TextToSQLExecuteResponse pairs the generation outcome with the execution
// outcome. Execution is absent when the generated SQL failed validation.
type TextToSQLExecuteResponse struct {
	Generation *service.QueryResult `json:"generation"`
	Execution  *service.ExecResult  `json:"execution,omitempty"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}
