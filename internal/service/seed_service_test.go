package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/inventory-admin-api/internal/models"
)

type mockRoleRepo struct {
	roles   map[int]models.Role
	listErr error
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: make(map[int]models.Role)}
}

func (m *mockRoleRepo) CreateIfMissing(ctx context.Context, role models.Role) (bool, error) {
	if _, ok := m.roles[role.ID]; ok {
		return false, nil
	}
	m.roles[role.ID] = role
	return true, nil
}

func (m *mockRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Role
	for _, role := range models.DefaultRoles() {
		if r, ok := m.roles[role.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestSeedServiceIsIdempotent(t *testing.T) {
	roles := newMockRoleRepo()
	users := newMockUserRepo()
	tx := &passthroughTx{}
	svc := NewSeedService(roles, users, tx, zap.NewNop(), SeedConfig{AdminEmail: "admin@empresa.com", AdminPassword: "AdminSystem_2024!"})

	first, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, first.RolesCreated)
	assert.True(t, first.AdminCreated)
	require.Len(t, users.users, 1)

	var admin *models.User
	for _, u := range users.users {
		admin = u
	}
	assert.Equal(t, models.RoleSuperAdmin, admin.RoleID)
	assert.True(t, admin.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte("AdminSystem_2024!")))

	second, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, second)
	assert.Len(t, users.users, 1)
	assert.Len(t, roles.roles, 5)
	assert.Equal(t, 2, tx.calls)
}

func TestSeedServiceRequiresCredentials(t *testing.T) {
	svc := NewSeedService(newMockRoleRepo(), newMockUserRepo(), &passthroughTx{}, nil, SeedConfig{AdminEmail: "admin@empresa.com"})

	_, err := svc.Seed(context.Background())
	require.Error(t, err)
}

func TestSeedServicePropagatesLookupFailure(t *testing.T) {
	users := newMockUserRepo()
	users.findErr = errors.New("connection reset")
	svc := NewSeedService(newMockRoleRepo(), users, &passthroughTx{}, nil, SeedConfig{AdminEmail: "a@b.com", AdminPassword: "secret123"})

	_, err := svc.Seed(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, users.findErr)
}

func TestRoleServiceList(t *testing.T) {
	roles := newMockRoleRepo()
	for _, role := range models.DefaultRoles() {
		roles.roles[role.ID] = role
	}
	svc := NewRoleService(roles, zap.NewNop())

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, models.RoleSuperAdmin, list[0].ID)
	assert.Equal(t, models.RoleVisitor, list[4].ID)

	roles.listErr = errors.New("boom")
	_, err = svc.List(context.Background())
	assertAppError(t, err, http.StatusInternalServerError, "failed to list roles")
}
