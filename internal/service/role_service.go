package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

type roleRepository interface {
	List(ctx context.Context) ([]models.Role, error)
}

// RoleService exposes the seeded authorization ranks.
type RoleService struct {
	repo   roleRepository
	logger *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(repo roleRepository, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, logger: logger}
}

// List returns every role ordered by level.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list roles")
	}
	return roles, nil
}
