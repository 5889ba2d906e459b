package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
)

const sessionColumns = `id, user_id, refresh_token, device_info, ip_address, expires_at, is_revoked, created_at`

// SessionRepository persists refresh token sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a session entry.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_sessions (` + sessionColumns + `) VALUES (:id, :user_id, :refresh_token, :device_info, :ip_address, :expires_at, :is_revoked, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByRefreshToken returns the session holding the given refresh token.
func (r *SessionRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM user_sessions WHERE refresh_token = $1 LIMIT 1`
	var session models.Session
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &session, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session by token: %w", err)
	}
	return &session, nil
}

// FindByIDForUser returns a session only when it belongs to userID.
func (r *SessionRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM user_sessions WHERE id = $1 AND user_id = $2 LIMIT 1`
	var session models.Session
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &session, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// ListActiveByUser returns the non-revoked sessions of a user, newest first.
func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM user_sessions WHERE user_id = $1 AND is_revoked = FALSE ORDER BY created_at DESC`
	sessions := make([]models.Session, 0)
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Revoke marks a session as revoked.
func (r *SessionRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE user_sessions SET is_revoked = TRUE WHERE id = $1`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
