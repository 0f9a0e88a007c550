package models

import (
	"time"

	"github.com/google/uuid"
)

type DBType string

const (
	DBTypePostgres DBType = "postgresql"
	DBTypeMySQL    DBType = "mysql"
	DBTypeSQLite   DBType = "sqlite"
)

func (t DBType) Valid() bool {
	switch t {
	case DBTypePostgres, DBTypeMySQL, DBTypeSQLite:
		return true
	}
	return false
}

const (
	TestStatusUntested = "untested"
	TestStatusSuccess  = "success"
	TestStatusFailed   = "failed"
)

// DatabaseConnection is a registered source database. Connections are
// deactivated instead of hard-deleted so job history stays intact.
type DatabaseConnection struct {
	ID                uuid.UUID         `db:"id"`
	Name              string            `db:"name"`
	DBType            DBType            `db:"db_type"`
	Host              string            `db:"host"`
	Port              int               `db:"port"`
	DatabaseName      string            `db:"database_name"`
	Username          string            `db:"username"`
	EncryptedPassword string            `db:"encrypted_password"`
	ConnectionParams  map[string]string `db:"connection_params"`
	IsActive          bool              `db:"is_active"`
	LastTested        *time.Time        `db:"last_tested"`
	TestStatus        string            `db:"test_status"`
	CreatedAt         time.Time         `db:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at"`
}
