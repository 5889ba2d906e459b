package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
)

// RoleRepository reads and seeds authorization roles.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns every role ordered by level.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, level, description FROM roles ORDER BY level ASC, id ASC`
	roles := make([]models.Role, 0)
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// CreateIfMissing inserts the role unless one with the same id exists. It
// reports whether a row was inserted.
func (r *RoleRepository) CreateIfMissing(ctx context.Context, role models.Role) (bool, error) {
	const query = `INSERT INTO roles (id, name, level, description) VALUES (:id, :name, :level, :description) ON CONFLICT (id) DO NOTHING`
	res, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, role)
	if err != nil {
		return false, fmt.Errorf("create role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create role: %w", err)
	}
	return affected > 0, nil
}
