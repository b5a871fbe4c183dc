package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyTokenSecret error if config auth.token.secret is empty.
	ErrEmptyTokenSecret = errors.New("toml config auth.token.secret can not be empty")

	// ErrUnknownCaptchaStore error if config auth.captcha.store names an unknown backend.
	ErrUnknownCaptchaStore = errors.New("toml config auth.captcha.store must be \"memory\" or \"mysql\"")
)
