package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AuditAction constants represent actions to be logged.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditEntityUsers names the users table in audit entries.
const AuditEntityUsers = "users"

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"user_id"`
	Action     string          `db:"action" json:"action"`
	EntityName string          `db:"entity_name" json:"entity_name"`
	EntityID   string          `db:"entity_id" json:"entity_id"`
	OldValues  *types.JSONText `db:"old_values" json:"old_values"`
	NewValues  *types.JSONText `db:"new_values" json:"new_values"`
	IPAddress  *string         `db:"ip_address" json:"ip_address"`
	UserAgent  *string         `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// AuditFilter paginates audit listings.
type AuditFilter struct {
	Skip  int
	Limit int
}
