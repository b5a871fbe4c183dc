package password

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

func tokenConfig() config.Token {
	return config.Token{
		Secret:     "test-secret-test-secret-test-secret",
		Issuer:     "go-content-admin",
		Audience:   "go-content-admin-api",
		ExpiryTime: config.Duration{Duration: time.Hour},
	}
}

func setup(t *testing.T) (*fiber.App, *gorm.DB, *auth.TokenIssuer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	app := fiber.New()
	issuer := auth.NewTokenIssuer(tokenConfig())

	var s Service
	require.NoError(t, s.Init(app, &config.Config{}, auth.NewService(db), issuer))

	return app, db, issuer
}

func postPassword(t *testing.T, app *fiber.App, bearer string, req Request) *http.Response {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(httpReq, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestPostChangesPassword(t *testing.T) {
	app, db, issuer := setup(t)

	user := &models.User{
		Account:           "alice",
		PasswordHash:      models.HashPassword("OldPass1!"),
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)

	access, _, _, err := issuer.Issue(user)
	require.NoError(t, err)

	resp := postPassword(t, app, access, Request{
		CurrentPassword: "OldPass1!",
		NewPassword:     "NewPass1!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Changed)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.VerifyPassword("NewPass1!"))
}

func TestPostRejections(t *testing.T) {
	app, db, issuer := setup(t)

	user := &models.User{
		Account:           "alice",
		PasswordHash:      models.HashPassword("OldPass1!"),
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)

	access, _, _, err := issuer.Issue(user)
	require.NoError(t, err)

	tests := []struct {
		name       string
		bearer     string
		req        Request
		wantStatus int
	}{
		{
			name:       "no token",
			bearer:     "",
			req:        Request{CurrentPassword: "OldPass1!", NewPassword: "NewPass1!"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			bearer:     "not-a-token",
			req:        Request{CurrentPassword: "OldPass1!", NewPassword: "NewPass1!"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong current password",
			bearer:     access,
			req:        Request{CurrentPassword: "nope", NewPassword: "NewPass1!"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unchanged password",
			bearer:     access,
			req:        Request{CurrentPassword: "OldPass1!", NewPassword: "OldPass1!"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "new password too short",
			bearer:     access,
			req:        Request{CurrentPassword: "OldPass1!", NewPassword: "short"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postPassword(t, app, tt.bearer, tt.req)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.VerifyPassword("OldPass1!"), "password never changed")
}
