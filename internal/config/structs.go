package config

import (
	"github.com/GoContent-Admin/GoContent-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Auth bundles the identity and access settings.
type Auth struct {
	Token   Token
	Captcha Captcha
}

// Token holds the access token signing settings.
type Token struct {
	Secret     string // symmetric HMAC signing key
	Issuer     string
	Audience   string
	ExpiryTime Duration
}

// Captcha holds the challenge settings.
type Captcha struct {
	TTL    Duration // challenge time-to-live
	Length int      // answer length
	Store  string   // "memory" or "mysql"
}
