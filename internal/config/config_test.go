package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err, "ReadConfig() failed")

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.NotEmpty(t, cfg.DB.Host)

	assert.NotEmpty(t, cfg.Auth.Token.Secret)
	assert.NotEmpty(t, cfg.Auth.Token.Issuer)
	assert.Positive(t, cfg.Auth.Token.ExpiryTime.Duration)

	assert.Equal(t, 5*time.Minute, cfg.Auth.Captcha.TTL.Duration)
	assert.Equal(t, 4, cfg.Auth.Captcha.Length)
	assert.Equal(t, CaptchaStoreMemory, cfg.Auth.Captcha.Store)
}

func TestReadConfigEnvOverride(t *testing.T) {
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	t.Setenv("GO_CONTENT_ADMIN_CONFIG_JSON", `{"Title":"Overridden","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "Overridden", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth: Auth{
				Token: Token{Secret: "secret"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "empty url",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "empty token secret",
			mutate:  func(c *Config) { c.Auth.Token.Secret = "" },
			wantErr: ErrEmptyTokenSecret,
		},
		{
			name:    "unknown captcha store",
			mutate:  func(c *Config) { c.Auth.Captcha.Store = "redis" },
			wantErr: ErrUnknownCaptchaStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{Token: Token{Secret: "secret"}},
	}

	require.NoError(t, validate(&cfg))

	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, 2*time.Hour, cfg.Auth.Token.ExpiryTime.Duration)
	assert.Equal(t, 5*time.Minute, cfg.Auth.Captcha.TTL.Duration)
	assert.Equal(t, 4, cfg.Auth.Captcha.Length)
	assert.Equal(t, CaptchaStoreMemory, cfg.Auth.Captcha.Store)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{Title: "GoContent-Admin"}

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "GoContent-Admin")

	out, err = DumpConfigJSON(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "GoContent-Admin"`)
}
