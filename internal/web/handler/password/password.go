// Package password implements the authenticated password change endpoint.
package password

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
)

// Path is the path of the password change route.
const Path = "/api/password"

// Service is the password handler service.
type Service struct {
	cfg      *config.Config
	svc      *auth.Service
	validate *validator.Validate
}

// Handler is the password handler.
var Handler = Service{}

// Request is the password change payload.
type Request struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// Response acknowledges a completed change.
type Response struct {
	Changed bool `json:"changed"`
}

// Init initializes the password handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *auth.Service, issuer *auth.TokenIssuer) error {
	if app == nil || cfg == nil || svc == nil || issuer == nil {
		return errors.New("app, cfg, svc or issuer is nil")
	}

	s.cfg = cfg
	s.svc = svc
	s.validate = validator.New()

	app.Post(Path, auth.RequireUser(issuer), s.Post)

	return nil
}

// Post changes the caller's own password.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid fields")
	}

	err := s.svc.ChangePassword(auth.UserID(c), req.CurrentPassword, req.NewPassword)

	switch {
	case err == nil:
		return c.JSON(Response{Changed: true})
	case errors.Is(err, auth.ErrInvalidOldPassword):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrPasswordUnchanged):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		// token outlived the account
		return fiber.ErrUnauthorized
	default:
		log.Error().Err(err).Msg("failed to change password")

		return fiber.ErrInternalServerError
	}
}
