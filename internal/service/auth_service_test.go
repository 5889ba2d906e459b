package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/inventory-admin-api/internal/dto"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

const testSecret = "test-secret"

type mockSessionRepo struct {
	sessions  map[string]*models.Session
	revoked   []string
	createErr error
}

func newMockSessionRepo(sessions ...*models.Session) *mockSessionRepo {
	repo := &mockSessionRepo{sessions: make(map[string]*models.Session)}
	for _, s := range sessions {
		repo.sessions[s.ID] = s
	}
	return repo
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	copy := *session
	m.sessions[session.ID] = &copy
	return nil
}

func (m *mockSessionRepo) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	for _, s := range m.sessions {
		if s.RefreshToken == token {
			copy := *s
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.Session, error) {
	if s, ok := m.sessions[id]; ok && s.UserID == userID {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID && !s.IsRevoked {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) Revoke(ctx context.Context, id string) error {
	m.sessions[id].IsRevoked = true
	m.revoked = append(m.revoked, id)
	return nil
}

type authFixture struct {
	svc      *AuthService
	users    *mockUserRepo
	sessions *mockSessionRepo
	audit    *recordingAudit
}

func newAuthFixture(t *testing.T, sessions ...*models.Session) authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("AdminSystem_2024!"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newMockUserRepo(seededUsers()...)
	for _, u := range users.users {
		u.HashedPassword = string(hash)
	}
	sessionRepo := newMockSessionRepo(sessions...)
	audit := &recordingAudit{}
	svc := NewAuthService(users, sessionRepo, audit, &passthroughTx{}, NewValidator(), nil, zap.NewNop(), AuthConfig{
		Secret:             testSecret,
		Algorithm:          "HS256",
		AccessTokenExpiry:  30 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})
	return authFixture{svc: svc, users: users, sessions: sessionRepo, audit: audit}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), models.LoginRequest{Username: "admin@empresa.com", Password: "AdminSystem_2024!"}, models.RequestMeta{IP: "192.168.1.10", UserAgent: "Mozilla/5.0"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.NotEqual(t, res.AccessToken, res.RefreshToken)

	claims, err := f.svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, superAdminID, claims.Subject)
	assert.Equal(t, models.AccessTokenType, claims.Type)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, time.Minute)

	require.Len(t, f.sessions.sessions, 1)
	for _, s := range f.sessions.sessions {
		assert.Equal(t, superAdminID, s.UserID)
		assert.Equal(t, res.RefreshToken, s.RefreshToken)
		require.NotNil(t, s.IPAddress)
		assert.Equal(t, "192.168.1.10", *s.IPAddress)
		require.NotNil(t, s.DeviceInfo)
		assert.Equal(t, "Mozilla/5.0", *s.DeviceInfo)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), s.ExpiresAt, time.Minute)
		assert.False(t, s.IsRevoked)
	}
}

func TestAuthServiceLoginRefreshTokensAreUnique(t *testing.T) {
	f := newAuthFixture(t)
	req := models.LoginRequest{Username: "admin@empresa.com", Password: "AdminSystem_2024!"}

	first, err := f.svc.Login(context.Background(), req, models.RequestMeta{})
	require.NoError(t, err)
	second, err := f.svc.Login(context.Background(), req, models.RequestMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Len(t, f.sessions.sessions, 2)
}

func TestAuthServiceLoginFailuresLookAlike(t *testing.T) {
	f := newAuthFixture(t)

	_, unknownErr := f.svc.Login(context.Background(), models.LoginRequest{Username: "ghost@empresa.com", Password: "whatever"}, models.RequestMeta{})
	_, wrongErr := f.svc.Login(context.Background(), models.LoginRequest{Username: "admin@empresa.com", Password: "wrong"}, models.RequestMeta{})

	assertAppError(t, unknownErr, http.StatusBadRequest, "Email o contraseña incorrectos")
	assertAppError(t, wrongErr, http.StatusBadRequest, "Email o contraseña incorrectos")
	assert.Equal(t, appErrors.FromError(unknownErr).Code, appErrors.FromError(wrongErr).Code)
	assert.Empty(t, f.sessions.sessions)
}

func TestAuthServiceLoginInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.users.users[visitorID].IsActive = false

	_, err := f.svc.Login(context.Background(), models.LoginRequest{Username: "visitor@empresa.com", Password: "AdminSystem_2024!"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusBadRequest, "Inactive user")

	_, err = f.svc.Login(context.Background(), models.LoginRequest{Username: "visitor@empresa.com", Password: "nope"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusBadRequest, "Email o contraseña incorrectos")
}

func TestAuthServiceLoginValidation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{Username: "admin@empresa.com"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusUnprocessableEntity, "")
}

func TestAuthServiceRefresh(t *testing.T) {
	now := time.Now().UTC()
	valid := &models.Session{ID: "11111111-1111-1111-1111-111111111111", UserID: visitorID, RefreshToken: "valid-rt", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	revoked := &models.Session{ID: "22222222-2222-2222-2222-222222222222", UserID: visitorID, RefreshToken: "revoked-rt", ExpiresAt: now.Add(time.Hour), IsRevoked: true}
	expired := &models.Session{ID: "33333333-3333-3333-3333-333333333333", UserID: visitorID, RefreshToken: "expired-rt", ExpiresAt: now.Add(-time.Minute)}
	f := newAuthFixture(t, valid, revoked, expired)

	res, err := f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "valid-rt"})
	require.NoError(t, err)
	assert.Equal(t, "valid-rt", res.RefreshToken)
	assert.Equal(t, "bearer", res.TokenType)
	claims, err := f.svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, visitorID, claims.Subject)

	for _, token := range []string{"revoked-rt", "expired-rt", "unknown-rt"} {
		_, err := f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: token})
		assertAppError(t, err, http.StatusUnauthorized, "Invalid or expired refresh token")
	}
}

func TestAuthServiceRefreshRejectsUnusableOwner(t *testing.T) {
	now := time.Now().UTC()
	own := &models.Session{ID: "66666666-6666-6666-6666-666666666666", UserID: visitorID, RefreshToken: "visitor-rt", ExpiresAt: now.Add(time.Hour)}
	orphan := &models.Session{ID: "77777777-7777-7777-7777-777777777777", UserID: missingID, RefreshToken: "orphan-rt", ExpiresAt: now.Add(time.Hour)}
	f := newAuthFixture(t, own, orphan)

	_, err := f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "visitor-rt"})
	require.NoError(t, err)

	f.users.users[visitorID].IsActive = false
	_, err = f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "visitor-rt"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid or expired refresh token")

	_, err = f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "orphan-rt"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid or expired refresh token")
}

func TestAuthServiceRefreshTokenIsNotABearerCredential(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), models.LoginRequest{Username: "admin@empresa.com", Password: "AdminSystem_2024!"}, models.RequestMeta{})
	require.NoError(t, err)

	_, err = f.svc.Authenticate(context.Background(), res.RefreshToken)
	assertAppError(t, err, http.StatusUnauthorized, "Could not validate credentials")

	sessions, err := f.svc.ListSessions(context.Background(), superAdminID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NoError(t, f.svc.RevokeSession(context.Background(), superAdminID, sessions[0].ID))

	_, err = f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: res.RefreshToken})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid or expired refresh token")
	_, err = f.svc.Authenticate(context.Background(), res.RefreshToken)
	assertAppError(t, err, http.StatusUnauthorized, "Could not validate credentials")
}

func TestAuthServiceSessions(t *testing.T) {
	now := time.Now().UTC()
	own := &models.Session{ID: "44444444-4444-4444-4444-444444444444", UserID: visitorID, RefreshToken: "own", ExpiresAt: now.Add(time.Hour)}
	foreign := &models.Session{ID: "55555555-5555-5555-5555-555555555555", UserID: adminID, RefreshToken: "foreign", ExpiresAt: now.Add(time.Hour)}
	f := newAuthFixture(t, own, foreign)

	sessions, err := f.svc.ListSessions(context.Background(), visitorID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, own.ID, sessions[0].ID)

	err = f.svc.RevokeSession(context.Background(), visitorID, foreign.ID)
	assertAppError(t, err, http.StatusNotFound, "Sesión no encontrada")
	assert.False(t, f.sessions.sessions[foreign.ID].IsRevoked)

	err = f.svc.RevokeSession(context.Background(), visitorID, "garbage")
	assertAppError(t, err, http.StatusNotFound, "Sesión no encontrada")

	require.NoError(t, f.svc.RevokeSession(context.Background(), visitorID, own.ID))
	assert.True(t, f.sessions.sessions[own.ID].IsRevoked)

	sessions, err = f.svc.ListSessions(context.Background(), visitorID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: "own"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid or expired refresh token")
}

func signed(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func accessClaims(subject string, expiresAt *jwt.NumericDate) *models.TokenClaims {
	return &models.TokenClaims{
		Type:             models.AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject, ExpiresAt: expiresAt},
	}
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	f := newAuthFixture(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"malformed":     "not.a.token",
		"wrong secret":  signed(t, jwt.SigningMethodHS256, "other", accessClaims(visitorID, future)),
		"wrong alg":     signed(t, jwt.SigningMethodHS512, testSecret, accessClaims(visitorID, future)),
		"expired":       signed(t, jwt.SigningMethodHS256, testSecret, accessClaims(visitorID, jwt.NewNumericDate(time.Now().Add(-time.Minute)))),
		"no expiry":     signed(t, jwt.SigningMethodHS256, testSecret, accessClaims(visitorID, nil)),
		"empty subject": signed(t, jwt.SigningMethodHS256, testSecret, accessClaims("", future)),
		"untyped":       signed(t, jwt.SigningMethodHS256, testSecret, jwt.RegisteredClaims{Subject: visitorID, ExpiresAt: future}),
		"refresh typed": signed(t, jwt.SigningMethodHS256, testSecret, &models.TokenClaims{Type: "refresh", RegisteredClaims: jwt.RegisteredClaims{Subject: visitorID, ExpiresAt: future}}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ValidateToken(token)
			assertAppError(t, err, http.StatusUnauthorized, "Could not validate credentials")
		})
	}
}

func TestAuthServiceAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	user, err := f.svc.Authenticate(context.Background(), signed(t, jwt.SigningMethodHS256, testSecret, accessClaims(adminID, future)))
	require.NoError(t, err)
	assert.Equal(t, adminID, user.ID)

	_, err = f.svc.Authenticate(context.Background(), signed(t, jwt.SigningMethodHS256, testSecret, accessClaims(missingID, future)))
	assertAppError(t, err, http.StatusUnauthorized, "User not found")

	f.users.users[visitorID].IsActive = false
	user, err = f.svc.Authenticate(context.Background(), signed(t, jwt.SigningMethodHS256, testSecret, accessClaims(visitorID, future)))
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestAuthServiceRegister(t *testing.T) {
	f := newAuthFixture(t)
	req := dto.CreateUserRequest{
		Email:     "someone@example.com",
		Password:  "TestPassword123!",
		FirstName: "Test",
		LastName:  "User",
		RoleID:    intPtr(models.RoleSuperAdmin),
		IsActive:  boolPtr(false),
	}

	user, err := f.svc.Register(context.Background(), req, models.RequestMeta{IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVisitor, user.RoleID)
	assert.True(t, user.IsActive)
	assert.Equal(t, "someone@example.com", user.Email)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, user.ID, f.audit.entries[0].ActorID)
	assert.Equal(t, user.ID, f.audit.entries[0].EntityID)
	assert.Equal(t, models.AuditActionCreate, f.audit.entries[0].Action)

	_, err = f.svc.Register(context.Background(), req, models.RequestMeta{})
	assertAppError(t, err, http.StatusBadRequest, "El email ya está registrado")
	assert.Len(t, f.audit.entries, 1)
}

func TestAuthServiceRegisteredUserCanLogin(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), dto.CreateUserRequest{
		Email: "fresh@example.com", Password: "TestPassword123!", FirstName: "F", LastName: "R",
	}, models.RequestMeta{})
	require.NoError(t, err)

	res, err := f.svc.Login(context.Background(), models.LoginRequest{Username: "fresh@example.com", Password: "TestPassword123!"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}
