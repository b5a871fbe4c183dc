// Package daemon wires configuration, database, captcha store and web
// service into a runnable process.
package daemon

import (
	"fmt"

	captchastorage "github.com/gofiber/storage/mysql/v2"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/config"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/dsn"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
	"github.com/GoContent-Admin/GoContent-Admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the web service until an interrupt shuts it down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg))

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Function{},
		&models.RolePermission{},
		&models.LoginAttempt{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(db)

	gate := captcha.NewGate(
		newCaptchaStore(cfg),
		captcha.PlainTextRenderer,
		cfg.Auth.Captcha.TTL.Duration,
		cfg.Auth.Captcha.Length,
	)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, gate),
	}
}

// newCaptchaStore selects the challenge store backend. The mysql backend
// shares challenges across replicas behind one load balancer.
func newCaptchaStore(cfg *config.Config) captcha.Store {
	switch cfg.Auth.Captcha.Store {
	case config.CaptchaStoreMySQL:
		return captcha.NewSharedStore(captchastorage.New(captchastorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "captcha_challenges",
		}))
	default:
		return captcha.NewMemoryStore()
	}
}
