// Package role implements role permission administration: the transactional
// grant replace and the annotated function tree.
package role

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
)

const (
	// PermissionsPath is the path of the grant replace route.
	PermissionsPath = "/api/admin/roles/:id/permissions"
	// TreePath is the path of the annotated function tree route.
	TreePath = "/api/admin/roles/:id/permissions/tree"

	// FunctionCode is the function node guarding role administration.
	FunctionCode = "system.role"
)

// Service is the role administration handler service.
type Service struct {
	cfg      *config.Config
	svc      *auth.Service
	validate *validator.Validate
}

// Handler is the role administration handler.
var Handler = Service{}

// PutRequest is the grant replace payload. An empty grant list clears every
// permission of the role.
type PutRequest struct {
	Grants []auth.PermissionGrant `json:"grants" validate:"dive"`
}

// Init initializes the role administration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *auth.Service, issuer *auth.TokenIssuer) error {
	if app == nil || cfg == nil || svc == nil || issuer == nil {
		return errors.New("app, cfg, svc or issuer is nil")
	}

	s.cfg = cfg
	s.svc = svc
	s.validate = validator.New()

	app.Put(PermissionsPath,
		auth.RequireUser(issuer),
		auth.RequireFunction(svc, FunctionCode, auth.CRUDUpdate),
		s.Put,
	)
	app.Get(TreePath,
		auth.RequireUser(issuer),
		auth.RequireFunction(svc, FunctionCode, auth.CRUDRead),
		s.GetTree,
	)

	return nil
}

// Put replaces every grant of the role in one transaction.
func (s *Service) Put(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role id")
	}

	var req PutRequest

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}

	err = s.svc.SetPermissions(uint(roleID), req.Grants)

	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, auth.ErrRoleNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrUnknownFunction):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("failed to replace role permissions")

		return fiber.ErrInternalServerError
	}
}

// GetTree returns the whole function forest annotated with the role's flags.
func (s *Service) GetTree(c *fiber.Ctx) error {
	roleID, err := c.ParamsInt("id")
	if err != nil || roleID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role id")
	}

	tree, err := s.svc.GetFunctionPermissionTree(uint(roleID))

	switch {
	case err == nil:
		return c.JSON(tree)
	case errors.Is(err, auth.ErrRoleNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("failed to build permission tree")

		return fiber.ErrInternalServerError
	}
}
