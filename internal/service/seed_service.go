package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/models"
)

type seedRoleRepository interface {
	CreateIfMissing(ctx context.Context, role models.Role) (bool, error)
}

type seedUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// SeedConfig identifies the bootstrap super administrator.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// SeedResult reports what a seed run inserted.
type SeedResult struct {
	RolesCreated int
	AdminCreated bool
}

// SeedService inserts the base roles and the first super administrator.
type SeedService struct {
	roles  seedRoleRepository
	users  seedUserRepository
	tx     transactor
	logger *zap.Logger
	config SeedConfig
}

// NewSeedService constructs a SeedService.
func NewSeedService(roles seedRoleRepository, users seedUserRepository, tx transactor, logger *zap.Logger, config SeedConfig) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{roles: roles, users: users, tx: tx, logger: logger, config: config}
}

// Seed is idempotent: existing roles and an existing admin email are left untouched.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return SeedResult{}, errors.New("seed admin email and password are required")
	}

	var result SeedResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		result = SeedResult{}
		for _, role := range models.DefaultRoles() {
			created, err := s.roles.CreateIfMissing(ctx, role)
			if err != nil {
				return err
			}
			if created {
				result.RolesCreated++
				s.logger.Info("role created", zap.Int("role_id", role.ID), zap.String("name", role.Name))
			}
		}

		err := ensureEmailAvailable(ctx, s.users, s.config.AdminEmail, "")
		if err != nil {
			if isConflict(err) {
				s.logger.Info("super admin already exists", zap.String("email", s.config.AdminEmail))
				return nil
			}
			return err
		}

		hash, err := hashPassword(s.config.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &models.User{
			Email:          s.config.AdminEmail,
			HashedPassword: hash,
			FirstName:      "Super",
			LastName:       "Admin",
			RoleID:         models.RoleSuperAdmin,
			IsActive:       true,
		}
		if err := s.users.Create(ctx, admin); err != nil {
			return err
		}
		result.AdminCreated = true
		s.logger.Info("super admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed: %w", err)
	}
	return result, nil
}
