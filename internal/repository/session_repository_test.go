package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inventory-admin-api/internal/models"
)

var sessionColumnNames = []string{"id", "user_id", "refresh_token", "device_info", "ip_address", "expires_at", "is_revoked", "created_at"}

func TestCreateSession(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("INSERT INTO user_sessions").WillReturnResult(sqlmock.NewResult(0, 1))

	session := &models.Session{UserID: "u1", RefreshToken: "rt", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSessionByRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_sessions WHERE refresh_token = $1")).
		WithArgs("rt").
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).AddRow("s1", "u1", "rt", "curl/8", "10.0.0.1", now.Add(time.Hour), false, now))

	session, err := repo.FindByRefreshToken(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	require.NotNil(t, session.DeviceInfo)
	assert.Equal(t, "curl/8", *session.DeviceInfo)
	assert.True(t, session.IsValid(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSessionForOtherUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs("s1", "intruder").
		WillReturnRows(sqlmock.NewRows(sessionColumnNames))

	_, err := repo.FindByIDForUser(context.Background(), "s1", "intruder")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveSessions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND is_revoked = FALSE ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).
			AddRow("s2", "u1", "rt2", nil, nil, now.Add(time.Hour), false, now).
			AddRow("s1", "u1", "rt1", nil, nil, now.Add(time.Hour), false, now.Add(-time.Hour)))

	sessions, err := repo.ListActiveByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeSession(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_sessions SET is_revoked = TRUE WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
