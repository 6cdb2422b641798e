package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type DiscordConfig struct {
	Token        string `env:"DISCORD_TOKEN, required"`
	GuildID      string `env:"DISCORD_GUILD_ID, required"`
	ClientID     string `env:"DISCORD_CLIENT_ID, required"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET"`
}

func NewDiscordConfigFromEnv() (*DiscordConfig, error) {
	var cfg DiscordConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
