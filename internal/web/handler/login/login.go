// Package login implements the password login endpoint.
package login

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
)

// Path is the path of the login route.
const Path = "/api/login"

// Service is the login handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *auth.CredentialValidator
	issuer    *auth.TokenIssuer
	validate  *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Request is the login payload.
type Request struct {
	Account       string `json:"account" validate:"required,max=100"`
	Password      string `json:"password" validate:"required"`
	CaptchaAnswer string `json:"captchaAnswer" validate:"required"`
	CaptchaToken  string `json:"captchaToken" validate:"required"`
}

// UserInfo is the account block of a successful login response.
type UserInfo struct {
	ID                uint64    `json:"id"`
	Account           string    `json:"account"`
	DisplayName       string    `json:"displayName"`
	IsPasswordExpired bool      `json:"isPasswordExpired"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Response is a successful login.
type Response struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         UserInfo  `json:"user"`
}

// ErrorResponse is a failed login. Kind is stable for programmatic handling;
// Message is the human-readable text.
type ErrorResponse struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *captcha.Gate, issuer *auth.TokenIssuer) error {
	if app == nil || cfg == nil || db == nil || gate == nil || issuer == nil {
		return errors.New("app, cfg, db, gate or issuer is nil")
	}

	s.cfg = cfg
	s.db = db
	s.validator = auth.NewCredentialValidator(db, gate)
	s.issuer = issuer
	s.validate = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post runs the login pipeline and returns a bearer token on success. One
// audit row is appended per call, whatever the outcome.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	login, err := s.validator.Validate(req.Account, req.Password, req.CaptchaAnswer, req.CaptchaToken)

	if auditErr := auth.RecordLoginAttempt(s.db, req.Account, err == nil, c.IP()); auditErr != nil {
		// the audit trail must not block logins; log and continue
		log.Error().Err(auditErr).Msg("failed to record login attempt")
	}

	if err != nil {
		return s.loginError(c, err)
	}

	access, refresh, expiresAt, err := s.issuer.Issue(login.User)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")

		return fiber.ErrInternalServerError
	}

	return c.JSON(Response{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User: UserInfo{
			ID:                login.User.ID,
			Account:           login.User.Account,
			DisplayName:       login.User.DisplayName,
			IsPasswordExpired: login.PasswordExpired,
			CreatedAt:         login.User.CreatedAt,
			UpdatedAt:         login.User.UpdatedAt,
		},
	})
}

// loginError maps pipeline failures onto stable kinds and status codes.
func (s *Service) loginError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrCaptchaInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			ErrorKind: "CaptchaInvalid",
			Message:   err.Error(),
		})
	case errors.Is(err, auth.ErrAccountLocked):
		return c.Status(fiber.StatusLocked).JSON(ErrorResponse{
			ErrorKind: "AccountLocked",
			Message:   err.Error(),
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			ErrorKind: "InvalidCredentials",
			Message:   err.Error(),
		})
	default:
		log.Error().Err(err).Msg("login pipeline failure")

		return fiber.ErrInternalServerError
	}
}
