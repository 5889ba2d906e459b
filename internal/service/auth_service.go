package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/dto"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

const (
	sessionNotFoundMessage = "Sesión no encontrada"
	refreshTokenBytes      = 32
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Session, error)
	ListActiveByUser(ctx context.Context, userID string) ([]models.Session, error)
	Revoke(ctx context.Context, id string) error
}

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret             string
	Algorithm          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// AuthService provides authentication and session use cases.
type AuthService struct {
	users     authUserRepository
	sessions  sessionRepository
	audit     auditRecorder
	tx        transactor
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	method    jwt.SigningMethod
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions sessionRepository, audit auditRecorder, tx transactor, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if config.Algorithm == "" {
		config.Algorithm = jwt.SigningMethodHS256.Alg()
	}
	method := jwt.GetSigningMethod(config.Algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
		config.Algorithm = method.Alg()
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		audit:     audit,
		tx:        tx,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		method:    method,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates a user by email and password and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, meta models.RequestMeta) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			burnPasswordCheck(req.Password)
			s.metrics.RecordLogin(LoginInvalid)
			return nil, appErrors.ErrInvalidCredentials
		}
		s.metrics.RecordLogin(LoginFailedError)
		s.logger.Error("failed to fetch user for login", zap.Error(err))
		return nil, appErrors.Internal(err, "")
	}

	if !checkPassword(user.HashedPassword, req.Password) {
		s.metrics.RecordLogin(LoginInvalid)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.RecordLogin(LoginInactive)
		return nil, appErrors.ErrInactiveUser
	}

	now := s.now()
	accessToken, err := s.signAccessToken(user.ID, now)
	if err != nil {
		s.metrics.RecordLogin(LoginFailedError)
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	refreshToken, err := newRefreshToken()
	if err != nil {
		s.metrics.RecordLogin(LoginFailedError)
		return nil, appErrors.Internal(err, "failed to create refresh token")
	}

	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		DeviceInfo:   optionalString(meta.UserAgent),
		IPAddress:    optionalString(meta.IP),
		ExpiresAt:    now.Add(s.config.RefreshTokenExpiry),
		CreatedAt:    now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.metrics.RecordLogin(LoginFailedError)
		s.logger.Error("failed to persist session", zap.String("user_id", user.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to persist session")
	}

	s.metrics.RecordLogin(LoginSucceeded)
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("session_id", session.ID))

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    models.TokenTypeBearer,
		RefreshToken: refreshToken,
	}, nil
}

// Register creates a visitor account from a public sign-up.
func (s *AuthService) Register(ctx context.Context, req dto.CreateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid registration payload")
	}

	req.RoleID = nil
	req.IsActive = nil

	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ensureEmailAvailable(ctx, s.users, req.Email, ""); err != nil {
			return err
		}

		created, err := newUserFromRequest(req)
		if err != nil {
			return appErrors.Internal(err, "failed to hash password")
		}
		if err := createUser(ctx, s.users, created); err != nil {
			return err
		}

		user = created
		return s.audit.Record(ctx, AuditEntry{
			ActorID:    created.ID,
			Action:     models.AuditActionCreate,
			EntityName: models.AuditEntityUsers,
			EntityID:   created.ID,
			NewValues:  createdSnapshot(created),
			Meta:       meta,
		})
	})
	if err != nil {
		return nil, s.translate(err, "registration failed")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is returned unchanged. Sessions of missing or inactive users
// are refused.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid refresh payload")
	}

	session, err := s.sessions.FindByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidRefresh
		}
		s.logger.Error("failed to fetch session", zap.Error(err))
		return nil, appErrors.Internal(err, "")
	}

	now := s.now()
	if !session.IsValid(now) {
		return nil, appErrors.ErrInvalidRefresh
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidRefresh
		}
		s.logger.Error("failed to load session owner", zap.String("session_id", session.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "")
	}
	if !user.IsActive {
		return nil, appErrors.ErrInvalidRefresh
	}

	accessToken, err := s.signAccessToken(user.ID, now)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    models.TokenTypeBearer,
		RefreshToken: session.RefreshToken,
	}, nil
}

// ListSessions returns the caller's non-revoked sessions, newest first.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list sessions", zap.String("user_id", userID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list sessions")
	}
	return sessions, nil
}

// RevokeSession revokes one of the caller's sessions.
func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, sessionNotFoundMessage)
	}

	session, err := s.sessions.FindByIDForUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, sessionNotFoundMessage)
		}
		s.logger.Error("failed to fetch session", zap.String("session_id", sessionID), zap.Error(err))
		return appErrors.Internal(err, "")
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		s.logger.Error("failed to revoke session", zap.String("session_id", sessionID), zap.Error(err))
		return appErrors.Internal(err, "failed to revoke session")
	}
	s.logger.Info("session revoked", zap.String("user_id", userID), zap.String("session_id", sessionID))
	return nil
}

// ValidateToken parses and validates an access token returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	},
		jwt.WithValidMethods([]string{s.config.Algorithm}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, appErrors.ErrInvalidToken
	}
	if claims.Type != models.AccessTokenType || claims.Subject == "" {
		return nil, appErrors.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves a bearer token to its user. Inactive users are
// returned as-is; callers decide whether activity is required.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, appErrors.ErrUserNotFound
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUserNotFound
		}
		s.logger.Error("failed to load token subject", zap.Error(err))
		return nil, appErrors.Internal(err, "")
	}
	return user, nil
}

func (s *AuthService) signAccessToken(subject string, issuedAt time.Time) (string, error) {
	claims := &models.TokenClaims{
		Type: models.AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// newRefreshToken returns an opaque token only meaningful as a sessions lookup key.
func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *AuthService) translate(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, "")
}
