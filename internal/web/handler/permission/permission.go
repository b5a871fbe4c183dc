// Package permission exposes the caller's own effective permissions.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
)

const (
	// Path is the path of the permission summary route.
	Path = "/api/permissions"
	// CheckPath is the path of the single-permission check route.
	CheckPath = "/api/permissions/check"
)

// Service is the permission handler service.
type Service struct {
	cfg *config.Config
	svc *auth.Service
}

// Handler is the permission handler.
var Handler = Service{}

// CheckResponse answers one permission question.
type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

// Init initializes the permission handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *auth.Service, issuer *auth.TokenIssuer) error {
	if app == nil || cfg == nil || svc == nil || issuer == nil {
		return errors.New("app, cfg, svc or issuer is nil")
	}

	s.cfg = cfg
	s.svc = svc

	app.Get(Path, auth.RequireUser(issuer), s.Get)
	app.Get(CheckPath, auth.RequireUser(issuer), s.GetCheck)

	return nil
}

// Get returns the caller's aggregated permissions per function.
func (s *Service) Get(c *fiber.Ctx) error {
	summaries, err := s.svc.GetUserPermissions(auth.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve user permissions")

		return fiber.ErrInternalServerError
	}

	return c.JSON(summaries)
}

// GetCheck answers whether the caller holds one CRUD flag on one function.
func (s *Service) GetCheck(c *fiber.Ctx) error {
	functionCode := c.Query("function")
	if functionCode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "function query parameter is required")
	}

	crudType, err := auth.ParseCRUDType(c.Query("type"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	allowed, err := s.svc.HasPermission(auth.UserID(c), functionCode, crudType)
	if err != nil {
		log.Error().Err(err).Msg("failed to check permission")

		return fiber.ErrInternalServerError
	}

	return c.JSON(CheckResponse{Allowed: allowed})
}
