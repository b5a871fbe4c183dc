// Package captcha serves challenge issuance for the login form.
package captcha

import (
	"encoding/base64"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
)

// Path is the path of the captcha route.
const Path = "/api/captcha"

// Service is the captcha handler service.
type Service struct {
	cfg  *config.Config
	gate *captcha.Gate
}

// Handler is the captcha handler.
var Handler = Service{}

// Response is the issued challenge: the opaque token and the base64-encoded
// rendered image.
type Response struct {
	Token string `json:"token"`
	Image string `json:"image"`
}

// Init initializes the captcha handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, gate *captcha.Gate) error {
	if app == nil || cfg == nil || gate == nil {
		return errors.New("app, cfg or gate is nil")
	}

	s.cfg = cfg
	s.gate = gate

	app.Get(Path, s.Get)

	return nil
}

// Get issues a fresh challenge. The answer never leaves the server; the
// client gets the rendered image and the token to echo back on login.
func (s *Service) Get(c *fiber.Ctx) error {
	image, token, err := s.gate.Generate()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate captcha")

		return fiber.ErrInternalServerError
	}

	return c.JSON(Response{
		Token: token,
		Image: base64.StdEncoding.EncodeToString(image),
	})
}
