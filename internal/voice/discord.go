package voice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/apperr"
	"github.com/glizzus/goonbot/internal/opus"
)

// DiscordJoiner joins voice channels through a discordgo session.
type DiscordJoiner struct {
	session *discordgo.Session
}

func NewDiscordJoiner(s *discordgo.Session) *DiscordJoiner {
	return &DiscordJoiner{session: s}
}

var _ Joiner = (*DiscordJoiner)(nil)

func (j *DiscordJoiner) Join(guildID, channelID string) (Conn, error) {
	if _, err := j.session.State.Guild(guildID); err != nil {
		return nil, apperr.Wrap(apperr.KindConnection, err, "unknown guild %s", guildID)
	}
	channel, err := j.session.State.Channel(channelID)
	if err != nil || channel.GuildID != guildID {
		return nil, apperr.New(apperr.KindConnection, "unknown voice channel %s", channelID)
	}

	vc, err := j.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConnection, err, "unable to join the voice channel %s", channelID)
	}
	return &discordConn{vc: vc}, nil
}

type discordConn struct {
	vc *discordgo.VoiceConnection
}

func (c *discordConn) ChannelID() string {
	return c.vc.ChannelID
}

func (c *discordConn) Speaking(b bool) error {
	return c.vc.Speaking(b)
}

func (c *discordConn) OpusSend() chan<- []byte {
	return c.vc.OpusSend
}

func (c *discordConn) Disconnect() error {
	return c.vc.Disconnect()
}

// OpusStreamer transcodes files with the FFmpeg binary at ffmpegPath and sends
// the frames to the voice connection.
func OpusStreamer(ffmpegPath string) Streamer {
	return func(ctx context.Context, conn Conn, path string, volume int) error {
		encoded, err := opus.EncodeFile(ctx, ffmpegPath, path, volume)
		if err != nil {
			return fmt.Errorf("unable to encode %s: %w", path, err)
		}
		defer encoded.Close()

		if err := conn.Speaking(true); err != nil {
			return fmt.Errorf("error setting speaking state to 'true': %w", err)
		}
		defer func() {
			if err := conn.Speaking(false); err != nil {
				slog.Error("failed to stop speaking", "error", err)
			}
		}()

		frames := opus.NewFrameReader(encoded)
		if err := opus.StreamToVoice(ctx, frames, conn.OpusSend()); err != nil {
			return fmt.Errorf("error occurred while playing sound after %d frames: %w", frames.Frames(), err)
		}
		slog.Debug("Finished streaming", "path", path, "frames", frames.Frames())
		return nil
	}
}
