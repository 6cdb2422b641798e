// Package presence plays a user's entry sound when they join the voice channel
// the bot is sitting in.
package presence

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/metrics"
	"github.com/glizzus/goonbot/internal/repository"
)

// ChannelTracker holds the channel the bot is currently in.
type ChannelTracker interface {
	ChannelID() string
	TrackChannel(channelID string)
}

type UserLookup interface {
	Get(ctx context.Context, userID string) (repository.User, error)
}

type EntryPlayer interface {
	RequestPlay(pattern, channelID string, volume int) error
}

type Watcher struct {
	botUserID string
	tracker   ChannelTracker
	users     UserLookup
	player    EntryPlayer
	metrics   *metrics.Metrics
}

// NewWatcher returns a Watcher for the bot account botUserID. m may be nil.
func NewWatcher(botUserID string, tracker ChannelTracker, users UserLookup, player EntryPlayer, m *metrics.Metrics) *Watcher {
	return &Watcher{
		botUserID: botUserID,
		tracker:   tracker,
		users:     users,
		player:    player,
		metrics:   m,
	}
}

const lookupTimeout = 10 * time.Second

// Handler adapts the watcher to a discordgo event handler.
func (w *Watcher) Handler() func(*discordgo.Session, *discordgo.VoiceStateUpdate) {
	return func(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		w.HandleVoiceStateUpdate(ctx, v.BeforeUpdate, v.VoiceState)
	}
}

// HandleVoiceStateUpdate reacts to one voice state change. Updates for the bot
// itself only move the tracked channel. Failures are logged and dropped.
func (w *Watcher) HandleVoiceStateUpdate(ctx context.Context, before, after *discordgo.VoiceState) {
	if after == nil {
		return
	}

	if after.UserID == w.botUserID {
		slog.Debug("Bot voice state changed", "channelID", after.ChannelID)
		w.tracker.TrackChannel(after.ChannelID)
		return
	}

	var beforeChannel string
	if before != nil {
		beforeChannel = before.ChannelID
	}
	current := w.tracker.ChannelID()
	if after.ChannelID == beforeChannel || current == "" || after.ChannelID != current {
		return
	}

	user, err := w.users.Get(ctx, after.UserID)
	if err != nil {
		slog.Debug("No preferences for joining user", "userID", after.UserID, "error", err)
		return
	}
	if !user.PlayOnEntry {
		return
	}

	slog.Info("Playing entry audio", "userID", after.UserID, "command", user.EntryAudio, "channelID", after.ChannelID)
	if err := w.player.RequestPlay(user.EntryAudio, after.ChannelID, user.Volume); err != nil {
		slog.Warn("Unable to play entry audio", "userID", after.UserID, "command", user.EntryAudio, "error", err)
		return
	}
	w.metrics.EntryPlay()
}
