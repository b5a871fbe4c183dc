package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// CRUDType names one of the four permission flags.
type CRUDType string

const (
	// CRUDCreate is the create flag.
	CRUDCreate CRUDType = "create"
	// CRUDRead is the read flag.
	CRUDRead CRUDType = "read"
	// CRUDUpdate is the update flag.
	CRUDUpdate CRUDType = "update"
	// CRUDDelete is the delete flag.
	CRUDDelete CRUDType = "delete"
)

// column maps the crud type onto its role_permissions column.
func (t CRUDType) column() (string, error) {
	switch t {
	case CRUDCreate:
		return "can_create", nil
	case CRUDRead:
		return "can_read", nil
	case CRUDUpdate:
		return "can_update", nil
	case CRUDDelete:
		return "can_delete", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCRUDType, string(t))
	}
}

// ParseCRUDType converts caller input into a CRUDType.
func ParseCRUDType(s string) (CRUDType, error) {
	t := CRUDType(s)
	if _, err := t.column(); err != nil {
		return "", err
	}

	return t, nil
}

// Service answers authorization questions over the permission graph and
// owns its bounded write path.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// userRoleIDs resolves the role ids assigned to a user.
//
// The lookup deliberately does not join against roles, so soft-deleted roles
// keep their CRUD grants until the assignment itself is removed. IsSuperAdmin
// takes the stricter path: a soft-deleted role loses super-admin immediately.
func (s *Service) userRoleIDs(userID uint64) ([]uint, error) {
	var ids []uint

	err := s.db.Table("user_roles").
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user roles: %w", err)
	}

	return ids, nil
}

// HasPermission checks if a user holds the given CRUD flag on a function,
// computed as the logical OR across all of the user's roles. Unknown
// functions and users without roles answer false: the check fails closed.
func (s *Service) HasPermission(userID uint64, functionCode string, crudType CRUDType) (bool, error) {
	col, err := crudType.column()
	if err != nil {
		return false, err
	}

	roleIDs, err := s.userRoleIDs(userID)
	if err != nil {
		return false, err
	}

	if len(roleIDs) == 0 {
		return false, nil
	}

	var function models.Function

	err = s.db.Where("code = ?", functionCode).First(&function).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to resolve function %q: %w", functionCode, err)
	}

	var count int64

	err = s.db.Table("role_permissions").
		Where("role_id IN ? AND function_id = ?", roleIDs, function.ID).
		Where(col+" = ?", true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return count > 0, nil
}

// PermissionSummary is the aggregated grant of one user on one function.
type PermissionSummary struct {
	FunctionID   uint   `json:"functionId"`
	FunctionCode string `json:"functionCode"`
	FunctionName string `json:"functionName"`
	CanCreate    bool   `json:"canCreate"`
	CanRead      bool   `json:"canRead"`
	CanUpdate    bool   `json:"canUpdate"`
	CanDelete    bool   `json:"canDelete"`
}

// GetUserPermissions aggregates every function any of the user's roles has a
// grant for, OR-ing the four flags per function across roles.
func (s *Service) GetUserPermissions(userID uint64) ([]PermissionSummary, error) {
	roleIDs, err := s.userRoleIDs(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]PermissionSummary, 0)

	if len(roleIDs) == 0 {
		return summaries, nil
	}

	err = s.db.Table("role_permissions").
		Select(`functions.id AS function_id,
			functions.code AS function_code,
			functions.name AS function_name,
			MAX(role_permissions.can_create) AS can_create,
			MAX(role_permissions.can_read) AS can_read,
			MAX(role_permissions.can_update) AS can_update,
			MAX(role_permissions.can_delete) AS can_delete`).
		Joins("JOIN functions ON functions.id = role_permissions.function_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Group("functions.id, functions.code, functions.name").
		Order("functions.id").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user permissions: %w", err)
	}

	return summaries, nil
}

// IsSuperAdmin reports whether the user holds at least one non-deleted role
// with hierarchy level exactly 1.
func (s *Service) IsSuperAdmin(userID uint64) (bool, error) {
	var count int64

	err := s.db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.level = ? AND roles.deleted_at IS NULL",
			userID, models.SuperAdminLevel).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check super admin: %w", err)
	}

	return count > 0, nil
}

// PermissionGrant is one requested grant inside a SetPermissions replace.
type PermissionGrant struct {
	FunctionID uint `json:"functionId" validate:"required"`
	CanCreate  bool `json:"canCreate"`
	CanRead    bool `json:"canRead"`
	CanUpdate  bool `json:"canUpdate"`
	CanDelete  bool `json:"canDelete"`
}

// allFalse reports whether the grant carries no flag at all.
func (g PermissionGrant) allFalse() bool {
	return !g.CanCreate && !g.CanRead && !g.CanUpdate && !g.CanDelete
}

// SetPermissions replaces every grant of a role in one transaction: delete
// all existing rows, insert one row per grant with at least one flag set.
// A grant referencing an unknown function aborts the whole replace; no
// caller can observe the role between delete and insert.
func (s *Service) SetPermissions(roleID uint, grants []PermissionGrant) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var role models.Role

		err := tx.First(&role, roleID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to load role %d: %w", roleID, err)
		}

		// validate every function reference up front
		functionIDs := make([]uint, 0, len(grants))
		seen := make(map[uint]struct{}, len(grants))

		for _, g := range grants {
			if _, ok := seen[g.FunctionID]; ok {
				continue
			}

			seen[g.FunctionID] = struct{}{}
			functionIDs = append(functionIDs, g.FunctionID)
		}

		if len(functionIDs) > 0 {
			var count int64

			if err := tx.Model(&models.Function{}).
				Where("id IN ?", functionIDs).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to validate function references: %w", err)
			}

			if count != int64(len(functionIDs)) {
				return ErrUnknownFunction
			}
		}

		if err := tx.Where("role_id = ?", roleID).
			Delete(&models.RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}

		for _, g := range grants {
			if g.allFalse() {
				continue // absence of a row represents an all-false grant
			}

			row := models.RolePermission{
				RoleID:     roleID,
				FunctionID: g.FunctionID,
				CanCreate:  g.CanCreate,
				CanRead:    g.CanRead,
				CanUpdate:  g.CanUpdate,
				CanDelete:  g.CanDelete,
			}

			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert role permission: %w", err)
			}
		}

		return nil
	})
}

// FunctionPermissionNode is one node of the function forest annotated with a
// single role's flags.
type FunctionPermissionNode struct {
	FunctionID uint                      `json:"functionId"`
	Code       string                    `json:"code"`
	Name       string                    `json:"name"`
	SortOrder  int                       `json:"sortOrder"`
	CanCreate  bool                      `json:"canCreate"`
	CanRead    bool                      `json:"canRead"`
	CanUpdate  bool                      `json:"canUpdate"`
	CanDelete  bool                      `json:"canDelete"`
	Children   []*FunctionPermissionNode `json:"children"`
}

// GetFunctionPermissionTree walks the whole function forest root-first and
// annotates every node with the given role's own flags, all-false where no
// grant row exists. Unlike HasPermission this view is role-scoped, not
// aggregated across a user's roles.
//
// The walk is iterative over a parent-indexed map, so forest depth is not
// bounded by call-stack size.
func (s *Service) GetFunctionPermissionTree(roleID uint) ([]*FunctionPermissionNode, error) {
	var role models.Role

	err := s.db.First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", roleID, err)
	}

	var functions []models.Function

	if err := s.db.Order("sort_order, id").Find(&functions).Error; err != nil {
		return nil, fmt.Errorf("failed to load functions: %w", err)
	}

	var grants []models.RolePermission

	if err := s.db.Where("role_id = ?", roleID).Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	grantByFunction := make(map[uint]models.RolePermission, len(grants))
	for _, g := range grants {
		grantByFunction[g.FunctionID] = g
	}

	// first pass: one node per function, indexed by id
	nodes := make(map[uint]*FunctionPermissionNode, len(functions))

	for _, f := range functions {
		node := &FunctionPermissionNode{
			FunctionID: f.ID,
			Code:       f.Code,
			Name:       f.Name,
			SortOrder:  f.SortOrder,
			Children:   make([]*FunctionPermissionNode, 0),
		}

		if g, ok := grantByFunction[f.ID]; ok {
			node.CanCreate = g.CanCreate
			node.CanRead = g.CanRead
			node.CanUpdate = g.CanUpdate
			node.CanDelete = g.CanDelete
		}

		nodes[f.ID] = node
	}

	// second pass: attach children to parents in query order; orphaned
	// nodes (parent row missing) surface as roots instead of vanishing
	roots := make([]*FunctionPermissionNode, 0)

	for _, f := range functions {
		node := nodes[f.ID]

		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[*f.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}

		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

// ChangePassword verifies the current password and replaces it. A new
// password that verifies against the current hash is rejected as a no-op
// change.
func (s *Service) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	var user models.User

	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	if !user.VerifyPassword(currentPassword) {
		return ErrInvalidOldPassword
	}

	if user.VerifyPassword(newPassword) {
		return ErrPasswordUnchanged
	}

	err = s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":       models.HashPassword(newPassword),
			"password_changed_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
