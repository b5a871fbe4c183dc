// Package web assembles the fiber application and owns its lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/auth"
	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
	rolehandler "github.com/GoContent-Admin/GoContent-Admin/internal/web/handler/admin/role"
	captchahandler "github.com/GoContent-Admin/GoContent-Admin/internal/web/handler/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/web/handler/login"
	"github.com/GoContent-Admin/GoContent-Admin/internal/web/handler/password"
	"github.com/GoContent-Admin/GoContent-Admin/internal/web/handler/permission"
	"github.com/GoContent-Admin/GoContent-Admin/internal/web/middleware/requestlog"
)

// Service represents the web service.
type Service struct {
	App         *fiber.App
	cfg         *config.Config
	alive       atomic.Bool
	db          *gorm.DB
	authService *auth.Service
}

// Start starts the web service on the given address and blocks until the
// server is shut down.
func (s *Service) Start(addr string) error {
	doneFiber := make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber

	return nil
}

// WaitShutdown blocks until an interrupt arrives, drains load balancer
// traffic by failing the health check for the configured window, then stops
// the http server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	if s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 for %d seconds to let the LB remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// errorHandler renders every unhandled error as a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{"message": message})
}

// New creates a new web service with the given configuration, database and
// captcha gate.
func New(cfg *config.Config, db *gorm.DB, gate *captcha.Gate) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoContent-Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   errorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(requestlog.New())

	authService := auth.NewService(db)
	issuer := auth.NewTokenIssuer(cfg.Auth.Token)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.JSON(fiber.Map{"status": "ok"})
	})

	// init handlers (they register their own routes and guards)
	initHandlers(app, cfg, db, gate, authService, issuer)

	return service
}

func initHandlers(app *fiber.App, cfg *config.Config, db *gorm.DB, gate *captcha.Gate, svc *auth.Service, issuer *auth.TokenIssuer) {
	inits := []struct {
		name string
		init func() error
	}{
		{"captcha", func() error { return captchahandler.Handler.Init(app, cfg, gate) }},
		{"login", func() error { return login.Handler.Init(app, cfg, db, gate, issuer) }},
		{"password", func() error { return password.Handler.Init(app, cfg, svc, issuer) }},
		{"permission", func() error { return permission.Handler.Init(app, cfg, svc, issuer) }},
		{"admin/role", func() error { return rolehandler.Handler.Init(app, cfg, svc, issuer) }},
	}

	for _, h := range inits {
		if err := h.init(); err != nil {
			log.Fatal().Err(err).Msgf("failed to init %s handler", h.name)
		}
	}
}
