package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inventory-admin-api/internal/models"
)

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	newValues := types.JSONText(`{"email":"a@b.c","role_id":5}`)
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "actor", models.AuditActionCreate, models.AuditEntityUsers, "u1", nil, []byte(newValues), nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.AuditLog{UserID: "actor", Action: models.AuditActionCreate, EntityName: models.AuditEntityUsers, EntityID: "u1", NewValues: &newValues}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.AuditLog{UserID: "actor", Action: models.AuditActionDelete})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create audit log")
}

func TestListAuditLogs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	cols := []string{"id", "user_id", "action", "entity_name", "entity_id", "old_values", "new_values", "ip_address", "user_agent", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a1", "actor", "DELETE", "users", "u1", []byte(`{"is_active":true}`), []byte(`{"is_active":false}`), "127.0.0.1", "go-test", now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	logs, total, err := repo.List(context.Background(), models.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, logs[0].NewValues)
	assert.JSONEq(t, `{"is_active":false}`, string(*logs[0].NewValues))
	assert.NoError(t, mock.ExpectationsWereMet())
}
