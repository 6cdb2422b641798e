// Package guild answers questions about the one Discord server the bot serves.
package guild

import (
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/apperr"
)

// Source is the part of the Discord REST client the directory reads from.
// *discordgo.Session satisfies it.
type Source interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// VoiceStates is satisfied by *discordgo.State.
type VoiceStates interface {
	VoiceState(guildID, userID string) (*discordgo.VoiceState, error)
}

type Info struct {
	ServerID   string `json:"serverId"`
	ServerName string `json:"serverName"`
	ServerIcon string `json:"serverIcon"`
}

type VoiceChannel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RawPosition int    `json:"rawPosition"`
}

type Directory struct {
	guildID string
	source  Source
	states  VoiceStates
}

func NewDirectory(guildID string, source Source, states VoiceStates) *Directory {
	return &Directory{guildID: guildID, source: source, states: states}
}

func (d *Directory) GuildID() string {
	return d.guildID
}

func (d *Directory) Info() (Info, error) {
	g, err := d.source.Guild(d.guildID)
	if err != nil {
		slog.Error("Failed to fetch server info", "guildID", d.guildID, "error", err)
		return Info{}, apperr.Wrap(apperr.KindConnection, err, "failed to fetch server info")
	}
	return Info{
		ServerID:   g.ID,
		ServerName: g.Name,
		ServerIcon: g.IconURL(""),
	}, nil
}

// VoiceChannels lists the server's voice channels ordered by position.
func (d *Directory) VoiceChannels() ([]VoiceChannel, error) {
	channels, err := d.source.GuildChannels(d.guildID)
	if err != nil {
		slog.Error("Failed to fetch channel list", "guildID", d.guildID, "error", err)
		return nil, apperr.Wrap(apperr.KindConnection, err, "failed to get voice channels")
	}
	return FilterVoiceChannels(channels), nil
}

func FilterVoiceChannels(channels []*discordgo.Channel) []VoiceChannel {
	voice := make([]VoiceChannel, 0, len(channels))
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildVoice {
			continue
		}
		voice = append(voice, VoiceChannel{ID: c.ID, Name: c.Name, RawPosition: c.Position})
	}
	slices.SortStableFunc(voice, func(a, b VoiceChannel) int {
		return a.RawPosition - b.RawPosition
	})
	return voice
}

// UserVoiceChannel returns the voice channel userID is connected to.
func (d *Directory) UserVoiceChannel(userID string) (string, error) {
	vs, err := d.states.VoiceState(d.guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", apperr.NotFound("you need to be in a voice channel to do that")
	}
	return vs.ChannelID, nil
}
