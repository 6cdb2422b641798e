package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	productionSiteURL = "https://www.thegoonbot.com"
	localAPIURL       = "http://localhost:3000"
	localClientURL    = "http://localhost:3333"
)

type ServerConfig struct {
	Port           string        `env:"PORT, default=3000"`
	Env            string        `env:"APP_ENV, default=dev"`
	SessionTTL     time.Duration `env:"SESSION_TTL, default=720h"`
	CORSOrigins    []string      `env:"CORS_ORIGINS, default=http://localhost:3333"`
	ClientBuildDir string        `env:"CLIENT_BUILD_DIR, default=client/build"`
}

func NewServerConfigFromEnv() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// OAuthRedirectURL is where Discord sends the user back after authorizing.
func (c *ServerConfig) OAuthRedirectURL() string {
	if c.IsProduction() {
		return productionSiteURL + "/api/auth/discord/return"
	}
	return localAPIURL + "/api/auth/discord/return"
}

// SoundboardURL is where a freshly logged in user lands.
func (c *ServerConfig) SoundboardURL() string {
	return c.SiteURL() + "/soundboard"
}

func (c *ServerConfig) SiteURL() string {
	if c.IsProduction() {
		return productionSiteURL
	}
	return localClientURL
}
