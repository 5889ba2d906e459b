package service

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// Snapshot is a partial view of an entity captured before or after a change.
type Snapshot map[string]interface{}

// AuditEntry describes one mutating action to persist.
type AuditEntry struct {
	ActorID    string
	Action     string
	EntityName string
	EntityID   string
	OldValues  Snapshot
	NewValues  Snapshot
	Meta       models.RequestMeta
}

var sensitiveFields = map[string]struct{}{
	"password":        {},
	"hashed_password": {},
}

// AuditService writes and reads the audit trail.
type AuditService struct {
	repo    auditRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditRepository, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger, metrics: metrics}
}

// Record persists an audit entry using the caller's transaction, if any.
// Sensitive fields are redacted before the snapshots are encoded.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) error {
	oldValues, err := encodeSnapshot(entry.OldValues)
	if err != nil {
		return appErrors.Internal(err, "failed to encode audit snapshot")
	}
	newValues, err := encodeSnapshot(entry.NewValues)
	if err != nil {
		return appErrors.Internal(err, "failed to encode audit snapshot")
	}

	log := &models.AuditLog{
		UserID:     entry.ActorID,
		Action:     entry.Action,
		EntityName: entry.EntityName,
		EntityID:   entry.EntityID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  optionalString(entry.Meta.IP),
		UserAgent:  optionalString(entry.Meta.UserAgent),
	}
	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("failed to write audit log",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return appErrors.Internal(err, "failed to record audit log")
	}
	s.metrics.RecordAuditWrite(entry.Action)
	return nil
}

// List returns audit entries newest first.
func (s *AuditService) List(ctx context.Context, skip, limit int) ([]models.AuditLog, int, error) {
	skip, limit = models.NormalizePage(skip, limit)
	logs, total, err := s.repo.List(ctx, models.AuditFilter{Skip: skip, Limit: limit})
	if err != nil {
		s.logger.Error("failed to list audit logs", zap.Error(err))
		return nil, 0, appErrors.Internal(err, "failed to list audit logs")
	}
	return logs, total, nil
}

// Redact returns a copy of snapshot with sensitive values masked.
func (s Snapshot) Redact() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for key, value := range s {
		if _, secret := sensitiveFields[key]; secret {
			out[key] = redactedValue
			continue
		}
		out[key] = value
	}
	return out
}

func encodeSnapshot(snapshot Snapshot) (*types.JSONText, error) {
	if snapshot == nil {
		return nil, nil
	}
	raw, err := json.Marshal(snapshot.Redact())
	if err != nil {
		return nil, err
	}
	text := types.JSONText(raw)
	return &text, nil
}
