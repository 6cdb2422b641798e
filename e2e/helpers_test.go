package e2e_test

import (
	"path/filepath"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/handler"
)

type mockSession struct {
	mu        sync.Mutex
	Responses []*discordgo.InteractionResponse
}

func (m *mockSession) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, resp)
	return nil
}

func (m *mockSession) InteractionResponseEdit(i *discordgo.Interaction, wh *discordgo.WebhookEdit, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	return nil, nil
}

var _ handler.DiscordSession = (*mockSession)(nil)

type played struct {
	ChannelID string
	File      string
	Volume    int
}

// recordingVoice stands in for the voice session below the playback engine.
type recordingVoice struct {
	mu      sync.Mutex
	root    string
	channel string
	plays   []played
}

func (v *recordingVoice) Play(channelID, path string, volume int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return err
	}
	v.channel = channelID
	v.plays = append(v.plays, played{channelID, filepath.ToSlash(rel), volume})
	return nil
}

func (v *recordingVoice) ChannelID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.channel
}

func (v *recordingVoice) TrackChannel(channelID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.channel = channelID
}

func (v *recordingVoice) Plays() []played {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]played(nil), v.plays...)
}

type voiceMap map[string]string

func (m voiceMap) UserVoiceChannel(userID string) (string, error) {
	channelID, ok := m[userID]
	if !ok {
		return "", errNotInVoice
	}
	return channelID, nil
}
