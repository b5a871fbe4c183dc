package role

import (
	"bytes"
	"encoding/json"
	"fmt"
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

type harness struct {
	app    *fiber.App
	db     *gorm.DB
	issuer *auth.TokenIssuer
}

func setup(t *testing.T) *harness {
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
	))

	app := fiber.New()
	issuer := auth.NewTokenIssuer(config.Token{
		Secret:     "test-secret-test-secret-test-secret",
		Issuer:     "go-content-admin",
		Audience:   "go-content-admin-api",
		ExpiryTime: config.Duration{Duration: time.Hour},
	})

	var s Service
	require.NoError(t, s.Init(app, &config.Config{}, auth.NewService(db), issuer))

	return &harness{app: app, db: db, issuer: issuer}
}

// superAdminToken seeds a super-admin caller and returns their bearer token.
func (h *harness) superAdminToken(t *testing.T) string {
	t.Helper()

	user := &models.User{
		Account:           "admin",
		PasswordHash:      models.HashPassword("Passw0rd!"),
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, h.db.Create(user).Error)

	role := &models.Role{Name: "Administrator", Level: models.SuperAdminLevel}
	require.NoError(t, h.db.Create(role).Error)
	require.NoError(t, h.db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)

	access, _, _, err := h.issuer.Issue(user)
	require.NoError(t, err)

	return access
}

// plainUserToken seeds a caller without any role and returns their token.
func (h *harness) plainUserToken(t *testing.T) string {
	t.Helper()

	user := &models.User{
		Account:           "nobody",
		PasswordHash:      models.HashPassword("Passw0rd!"),
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, h.db.Create(user).Error)

	access, _, _, err := h.issuer.Issue(user)
	require.NoError(t, err)

	return access
}

func (h *harness) request(t *testing.T, method, target, bearer string, payload interface{}) *http.Response {
	t.Helper()

	body := bytes.NewReader(nil)

	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func permissionsPath(roleID uint) string {
	return fmt.Sprintf("/api/admin/roles/%d/permissions", roleID)
}

func TestPutReplacesGrants(t *testing.T) {
	h := setup(t)
	token := h.superAdminToken(t)

	target := &models.Role{Name: "Editor", Level: 10}
	require.NoError(t, h.db.Create(target).Error)

	article := &models.Function{Code: "content.article", Name: "Articles"}
	category := &models.Function{Code: "content.category", Name: "Categories"}
	require.NoError(t, h.db.Create(article).Error)
	require.NoError(t, h.db.Create(category).Error)

	require.NoError(t, h.db.Create(&models.RolePermission{
		RoleID: target.ID, FunctionID: article.ID, CanDelete: true,
	}).Error)

	resp := h.request(t, http.MethodPut, permissionsPath(target.ID), token, PutRequest{
		Grants: []auth.PermissionGrant{
			{FunctionID: category.ID, CanRead: true, CanUpdate: true},
		},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var rows []models.RolePermission
	require.NoError(t, h.db.Where("role_id = ?", target.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, category.ID, rows[0].FunctionID)
	assert.True(t, rows[0].CanRead)
}

func TestPutUnknownFunctionAborts(t *testing.T) {
	h := setup(t)
	token := h.superAdminToken(t)

	target := &models.Role{Name: "Editor", Level: 10}
	require.NoError(t, h.db.Create(target).Error)

	resp := h.request(t, http.MethodPut, permissionsPath(target.ID), token, PutRequest{
		Grants: []auth.PermissionGrant{{FunctionID: 9999, CanRead: true}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPutUnknownRole(t *testing.T) {
	h := setup(t)
	token := h.superAdminToken(t)

	resp := h.request(t, http.MethodPut, permissionsPath(9999), token, PutRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutAuthorization(t *testing.T) {
	h := setup(t)

	target := &models.Role{Name: "Editor", Level: 10}
	require.NoError(t, h.db.Create(target).Error)

	t.Run("no token", func(t *testing.T) {
		resp := h.request(t, http.MethodPut, permissionsPath(target.ID), "", PutRequest{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authenticated without grant", func(t *testing.T) {
		resp := h.request(t, http.MethodPut, permissionsPath(target.ID), h.plainUserToken(t), PutRequest{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestPutGrantedThroughFunction(t *testing.T) {
	h := setup(t)

	// a non-super-admin caller holding the system.role update grant
	user := &models.User{
		Account:           "roleadmin",
		PasswordHash:      models.HashPassword("Passw0rd!"),
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, h.db.Create(user).Error)

	role := &models.Role{Name: "RoleAdmin", Level: 10}
	require.NoError(t, h.db.Create(role).Error)
	require.NoError(t, h.db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)

	fn := &models.Function{Code: FunctionCode, Name: "Roles"}
	require.NoError(t, h.db.Create(fn).Error)
	require.NoError(t, h.db.Create(&models.RolePermission{
		RoleID: role.ID, FunctionID: fn.ID, CanUpdate: true,
	}).Error)

	access, _, _, err := h.issuer.Issue(user)
	require.NoError(t, err)

	target := &models.Role{Name: "Editor", Level: 20}
	require.NoError(t, h.db.Create(target).Error)

	resp := h.request(t, http.MethodPut, permissionsPath(target.ID), access, PutRequest{
		Grants: []auth.PermissionGrant{{FunctionID: fn.ID, CanRead: true}},
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// update grant alone does not open the read-guarded tree route
	treeResp := h.request(t, http.MethodGet,
		fmt.Sprintf("/api/admin/roles/%d/permissions/tree", target.ID), access, nil)
	assert.Equal(t, http.StatusForbidden, treeResp.StatusCode)
}

func TestGetTree(t *testing.T) {
	h := setup(t)
	token := h.superAdminToken(t)

	target := &models.Role{Name: "Editor", Level: 10}
	require.NoError(t, h.db.Create(target).Error)

	content := &models.Function{Code: "content", Name: "Content", SortOrder: 0}
	require.NoError(t, h.db.Create(content).Error)

	article := &models.Function{Code: "content.article", Name: "Articles", ParentID: &content.ID}
	require.NoError(t, h.db.Create(article).Error)

	require.NoError(t, h.db.Create(&models.RolePermission{
		RoleID: target.ID, FunctionID: article.ID, CanRead: true,
	}).Error)

	resp := h.request(t, http.MethodGet,
		fmt.Sprintf("/api/admin/roles/%d/permissions/tree", target.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var roots []auth.FunctionPermissionNode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&roots))
	require.Len(t, roots, 1)
	assert.Equal(t, "content", roots[0].Code)
	require.Len(t, roots[0].Children, 1)
	assert.True(t, roots[0].Children[0].CanRead)
	assert.False(t, roots[0].Children[0].CanCreate)
}

func TestGetTreeUnknownRole(t *testing.T) {
	h := setup(t)
	token := h.superAdminToken(t)

	resp := h.request(t, http.MethodGet, "/api/admin/roles/9999/permissions/tree", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
