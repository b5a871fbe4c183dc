package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Function{},
		&models.RolePermission{},
		&models.LoginAttempt{},
	))

	cfg := &config.Config{
		Auth: config.Auth{
			Token: config.Token{
				Secret:     "test-secret-test-secret-test-secret",
				Issuer:     "go-content-admin",
				Audience:   "go-content-admin-api",
				ExpiryTime: config.Duration{Duration: time.Hour},
			},
		},
	}

	gate := captcha.NewGate(captcha.NewMemoryStore(), nil, time.Minute, 4)

	return New(cfg, db, gate)
}

func TestHealthEndpoint(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a draining service fails the check so the LB pulls it out
	svc.alive.Store(false)

	resp2, err := svc.App.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp2.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}

func TestErrorsAreJSON(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, "/api/permissions", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}

func TestRoutesRegistered(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, "/api/captcha", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
