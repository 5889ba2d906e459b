package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/dto"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

const (
	userNotFoundMessage     = "Usuario no encontrado"
	createSuperAdminMessage = "Un Admin no puede crear un Super Admin"
	modifySuperAdminMessage = "No tienes permiso para modificar a un Super Admin"
	assignSuperAdminMessage = "No tienes permiso para asignar el rol de Super Admin"
	deleteSuperAdminMessage = "No tienes permiso para eliminar a un Super Admin"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id string, at time.Time) error
}

type emailLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userCreator interface {
	Create(ctx context.Context, user *models.User) error
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	audit     auditRecorder
	tx        transactor
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, audit auditRecorder, tx transactor, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &UserService{repo: repo, audit: audit, tx: tx, validator: validate, logger: logger}
}

// List returns users in insertion order. Admins never see super admins.
func (s *UserService) List(ctx context.Context, actor *models.User, skip, limit int) ([]models.User, int, error) {
	skip, limit = models.NormalizePage(skip, limit)
	filter := models.UserFilter{Skip: skip, Limit: limit}
	if actor != nil && actor.RoleID == models.RoleAdmin {
		excluded := models.RoleSuperAdmin
		filter.ExcludeRoleID = &excluded
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, 0, appErrors.Internal(err, "failed to list users")
	}
	return users, total, nil
}

// Get returns a user by ID, active or not.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load user")
	}
	return user, nil
}

// Create adds a new user on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid create user payload")
	}

	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ensureEmailAvailable(ctx, s.repo, req.Email, ""); err != nil {
			return err
		}
		if actor.RoleID == models.RoleAdmin && req.RoleID != nil && *req.RoleID == models.RoleSuperAdmin {
			return appErrors.Clone(appErrors.ErrForbidden, createSuperAdminMessage)
		}

		created, err := newUserFromRequest(req)
		if err != nil {
			return appErrors.Internal(err, "failed to hash password")
		}
		if err := createUser(ctx, s.repo, created); err != nil {
			return err
		}

		user = created
		return s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.ID,
			Action:     models.AuditActionCreate,
			EntityName: models.AuditEntityUsers,
			EntityID:   created.ID,
			NewValues:  createdSnapshot(created),
			Meta:       meta,
		})
	})
	if err != nil {
		return nil, s.translate(err, "failed to create user")
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("actor_id", actor.ID))
	return user, nil
}

// Update applies a partial update to any user, subject to role hierarchy.
func (s *UserService) Update(ctx context.Context, actor *models.User, id string, req dto.UpdateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid update payload")
	}

	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if actor.RoleID == models.RoleAdmin {
			if target.RoleID == models.RoleSuperAdmin {
				return appErrors.Clone(appErrors.ErrForbidden, modifySuperAdminMessage)
			}
			if req.RoleID != nil && *req.RoleID == models.RoleSuperAdmin {
				return appErrors.Clone(appErrors.ErrForbidden, assignSuperAdminMessage)
			}
		}

		if req.Email != nil && *req.Email != target.Email {
			if err := ensureEmailAvailable(ctx, s.repo, *req.Email, target.ID); err != nil {
				return err
			}
		}

		changes := newChangeSet()
		changes.setString("email", &target.Email, req.Email)
		changes.setString("first_name", &target.FirstName, req.FirstName)
		changes.setString("last_name", &target.LastName, req.LastName)
		changes.setOptional("phone_number", &target.PhoneNumber, req.PhoneNumber)
		changes.setOptional("profile_picture", &target.ProfilePicture, req.ProfilePicture)
		changes.setDate("date_of_birth", &target.DateOfBirth, req.DateOfBirth)
		changes.setOptional("gender", &target.Gender, req.Gender)
		if req.RoleID != nil {
			changes.record("role_id", target.RoleID, *req.RoleID)
			target.RoleID = *req.RoleID
		}
		if req.IsActive != nil {
			changes.record("is_active", target.IsActive, *req.IsActive)
			target.IsActive = *req.IsActive
		}
		if req.Password != nil {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return appErrors.Internal(err, "failed to hash password")
			}
			target.HashedPassword = hash
			changes.record("password", redactedValue, redactedValue)
		}

		user = target
		if changes.empty() {
			return nil
		}

		if err := s.repo.Update(ctx, target); err != nil {
			if database.IsUniqueViolation(err) {
				return appErrors.ErrConflict
			}
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.ID,
			Action:     models.AuditActionUpdate,
			EntityName: models.AuditEntityUsers,
			EntityID:   target.ID,
			OldValues:  changes.old,
			NewValues:  changes.new,
			Meta:       meta,
		})
	})
	if err != nil {
		return nil, s.translate(err, "failed to update user")
	}

	s.logger.Info("user updated", zap.String("user_id", user.ID), zap.String("actor_id", actor.ID))
	return user, nil
}

// UpdateMe lets the caller change their own profile fields.
func (s *UserService) UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateMeRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid profile payload")
	}

	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		self, err := s.load(ctx, actor.ID)
		if err != nil {
			return err
		}

		changes := newChangeSet()
		changes.setString("first_name", &self.FirstName, req.FirstName)
		changes.setString("last_name", &self.LastName, req.LastName)
		changes.setOptional("phone_number", &self.PhoneNumber, req.PhoneNumber)
		changes.setOptional("profile_picture", &self.ProfilePicture, req.ProfilePicture)
		changes.setDate("date_of_birth", &self.DateOfBirth, req.DateOfBirth)
		changes.setOptional("gender", &self.Gender, req.Gender)

		user = self
		if changes.empty() {
			return nil
		}

		if err := s.repo.Update(ctx, self); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.ID,
			Action:     models.AuditActionUpdate,
			EntityName: models.AuditEntityUsers,
			EntityID:   actor.ID,
			OldValues:  changes.old,
			NewValues:  changes.new,
			Meta:       meta,
		})
	})
	if err != nil {
		return nil, s.translate(err, "failed to update profile")
	}
	return user, nil
}

// Delete deactivates a user. Rows are never physically removed.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id string, meta models.RequestMeta) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if actor.RoleID == models.RoleAdmin && target.RoleID == models.RoleSuperAdmin {
			return appErrors.Clone(appErrors.ErrForbidden, deleteSuperAdminMessage)
		}

		if err := s.repo.Deactivate(ctx, target.ID, time.Now().UTC()); err != nil {
			return err
		}

		return s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.ID,
			Action:     models.AuditActionDelete,
			EntityName: models.AuditEntityUsers,
			EntityID:   target.ID,
			OldValues:  Snapshot{"is_active": target.IsActive},
			NewValues:  Snapshot{"is_active": false},
			Meta:       meta,
		})
	})
	if err != nil {
		return s.translate(err, "failed to delete user")
	}

	s.logger.Info("user deactivated", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *UserService) load(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, userNotFoundMessage)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, userNotFoundMessage)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) translate(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			s.logger.Error(message, zap.Error(err))
		}
		return appErr
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, "")
}

// ensureEmailAvailable fails with a conflict when email belongs to a user other than selfID.
func ensureEmailAvailable(ctx context.Context, repo emailLookup, email, selfID string) error {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.ID == selfID {
			return nil
		}
		return appErrors.ErrConflict
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func isConflict(err error) bool {
	return errors.Is(err, appErrors.ErrConflict)
}

func createUser(ctx context.Context, repo userCreator, user *models.User) error {
	if err := repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return appErrors.ErrConflict
		}
		return err
	}
	return nil
}

func newUserFromRequest(req dto.CreateUserRequest) (*models.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: req.ProfilePicture,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		RoleID:         models.DefaultRoleID,
		IsActive:       true,
	}
	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return user, nil
}

func createdSnapshot(user *models.User) Snapshot {
	return Snapshot{"email": user.Email, "role_id": user.RoleID}
}

// changeSet accumulates before/after values of the fields touched by an update.
type changeSet struct {
	old Snapshot
	new Snapshot
}

func newChangeSet() *changeSet {
	return &changeSet{old: Snapshot{}, new: Snapshot{}}
}

func (c *changeSet) empty() bool {
	return len(c.new) == 0
}

func (c *changeSet) record(field string, before, after interface{}) {
	c.old[field] = before
	c.new[field] = after
}

func (c *changeSet) setString(field string, dst *string, value *string) {
	if value == nil {
		return
	}
	c.record(field, *dst, *value)
	*dst = *value
}

func (c *changeSet) setOptional(field string, dst **string, value *string) {
	if value == nil {
		return
	}
	c.record(field, derefString(*dst), *value)
	v := *value
	*dst = &v
}

func (c *changeSet) setDate(field string, dst **models.Date, value *models.Date) {
	if value == nil {
		return
	}
	var before interface{}
	if *dst != nil {
		before = (*dst).String()
	}
	c.record(field, before, value.String())
	v := *value
	*dst = &v
}

func derefString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
