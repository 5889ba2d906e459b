package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
)

const auditColumns = `id, user_id, action, entity_name, entity_id, old_values, new_values, ip_address, user_agent, created_at`

// AuditRepository appends and reads audit trail entries.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create stores an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (` + auditColumns + `) VALUES (:id, :user_id, :action, :entity_name, :entity_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit entries newest first together with the total count.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	skip, limit := models.NormalizePage(filter.Skip, filter.Limit)
	query := fmt.Sprintf("SELECT %s FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", auditColumns, limit, skip)

	conn := database.Conn(ctx, r.db)
	logs := make([]models.AuditLog, 0)
	if err := sqlx.SelectContext(ctx, conn, &logs, query); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, conn, &total, `SELECT COUNT(*) FROM audit_logs`); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	return logs, total, nil
}
