// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	// CaptchaStoreMemory keeps captcha challenges in process memory.
	CaptchaStoreMemory = "memory"
	// CaptchaStoreMySQL keeps captcha challenges in a shared MySQL table.
	CaptchaStoreMySQL = "mysql"

	defaultShutDownTime  = 5
	defaultTokenExpiry   = 2 * time.Hour
	defaultCaptchaTTL    = 5 * time.Minute
	defaultCaptchaLength = 4
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("GO_CONTENT_ADMIN_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge json config from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and apply defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Auth.Token.Secret == "" {
		return errors.Wrap(ErrEmptyTokenSecret, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Auth.Token.ExpiryTime.Duration == 0 {
		c.Auth.Token.ExpiryTime = Duration{defaultTokenExpiry}
	}

	if c.Auth.Captcha.TTL.Duration == 0 {
		c.Auth.Captcha.TTL = Duration{defaultCaptchaTTL}
	}

	if c.Auth.Captcha.Length == 0 {
		c.Auth.Captcha.Length = defaultCaptchaLength
	}

	switch c.Auth.Captcha.Store {
	case "":
		c.Auth.Captcha.Store = CaptchaStoreMemory
	case CaptchaStoreMemory, CaptchaStoreMySQL:
	default:
		return errors.Wrap(ErrUnknownCaptchaStore, invalidErrMessage)
	}

	return nil
}
