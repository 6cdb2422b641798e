package config

import (
	"context"
	"fmt"
	"time"

	"github.com/glizzus/goonbot/internal/schedule"
	"github.com/sethvargo/go-envconfig"
)

type AudioConfig struct {
	Root          string        `env:"AUDIO_ROOT, default=./Audio"`
	FFmpegPath    string        `env:"FFMPEG_PATH, default=ffmpeg"`
	IdleTimeout   time.Duration `env:"VOICE_IDLE_TIMEOUT, default=1h"`
	IdleCheckCron string        `env:"VOICE_IDLE_CHECK_CRON, default=* * * * *"`
}

func NewAudioConfigFromEnv() (*AudioConfig, error) {
	var cfg AudioConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout <= 0 {
		return nil, fmt.Errorf("VOICE_IDLE_TIMEOUT must be positive, got %s", cfg.IdleTimeout)
	}
	if err := schedule.ValidateCron(cfg.IdleCheckCron); err != nil {
		return nil, fmt.Errorf("VOICE_IDLE_CHECK_CRON: %w", err)
	}
	return &cfg, nil
}
