// Package playback turns a play request for a command into audio in a voice
// channel.
package playback

import (
	"log/slog"

	"github.com/glizzus/goonbot/internal/metrics"
)

type Resolver interface {
	ResolvePattern(pattern string) (string, error)
}

type Player interface {
	Play(channelID, path string, volume int) error
}

type Engine struct {
	resolver Resolver
	player   Player
	metrics  *metrics.Metrics
}

// NewEngine returns an Engine. m may be nil.
func NewEngine(resolver Resolver, player Player, m *metrics.Metrics) *Engine {
	return &Engine{resolver: resolver, player: player, metrics: m}
}

// RequestPlay resolves pattern ("name" or "name[file]") and starts playing it
// in channelID. It returns once playback has started; a NotFound error means
// the command or file does not exist and a Busy error means something is
// already playing.
func (e *Engine) RequestPlay(pattern, channelID string, volume int) (err error) {
	defer func() { e.metrics.PlayRequest(err) }()

	path, err := e.resolver.ResolvePattern(pattern)
	if err != nil {
		slog.Debug("Unable to resolve audio command", "command", pattern, "error", err)
		return err
	}

	if volume < 0 || volume > 100 {
		volume = 100
	}

	slog.Info("Playing audio command", "command", pattern, "path", path, "channelID", channelID, "volume", volume)
	return e.player.Play(channelID, path, volume)
}
