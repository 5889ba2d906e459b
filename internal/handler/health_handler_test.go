package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/internal/service"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandlerCheck(t *testing.T) {
	h := NewHealthHandler("1.2.3", nil, nil, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/health-check", nil, "")
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Servidor funcionando correctamente","version":"1.2.3"}`, w.Body.String())
}

func TestHealthHandlerReady(t *testing.T) {
	h := NewHealthHandler("1.0.0", pingerFunc(func(ctx context.Context) error { return nil }), nil, nil)
	c, w := newTestContext(http.MethodGet, "/ready", nil, "")
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = NewHealthHandler("1.0.0", pingerFunc(func(ctx context.Context) error { return errors.New("down") }), nil, nil)
	c, w = newTestContext(http.MethodGet, "/ready", nil, "")
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordLogin(service.LoginSucceeded)
	h := NewHealthHandler("1.0.0", nil, metrics, nil)

	c, w := newTestContext(http.MethodGet, "/metrics", nil, "")
	h.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "auth_login_attempts_total"))

	c, w = newTestContext(http.MethodGet, "/metrics", nil, "")
	NewHealthHandler("1.0.0", nil, nil, nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type auditServiceMock struct {
	logs []models.AuditLog
}

func (m *auditServiceMock) List(ctx context.Context, skip, limit int) ([]models.AuditLog, int, error) {
	return m.logs, len(m.logs), nil
}

type roleServiceMock struct{}

func (roleServiceMock) List(ctx context.Context) ([]models.Role, error) {
	return models.DefaultRoles(), nil
}

func TestAuditAndRoleHandlers(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/audit/", nil, "")
	NewAuditHandler(&auditServiceMock{logs: []models.AuditLog{{ID: "a1", Action: models.AuditActionDelete}}}).List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))
	assert.Contains(t, w.Body.String(), `"action":"DELETE"`)

	c, w = newTestContext(http.MethodGet, "/roles/", nil, "")
	NewRoleHandler(roleServiceMock{}).List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Visitante")
}
