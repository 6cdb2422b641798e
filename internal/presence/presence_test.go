package presence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/presence"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/google/go-cmp/cmp"
)

const botID = "bot"

type tracker struct {
	channelID string
}

func (t *tracker) ChannelID() string { return t.channelID }
func (t *tracker) TrackChannel(channelID string) { t.channelID = channelID }

type users map[string]repository.User

func (u users) Get(_ context.Context, id string) (repository.User, error) {
	user, ok := u[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type playCall struct {
	Pattern   string
	ChannelID string
	Volume    int
}

type recordingPlayer struct {
	calls []playCall
	err   error
}

func (p *recordingPlayer) RequestPlay(pattern, channelID string, volume int) error {
	p.calls = append(p.calls, playCall{pattern, channelID, volume})
	return p.err
}

func entryUser(id string, playOnEntry bool) repository.User {
	u := repository.NewUser(repository.Profile{ID: id})
	u.PlayOnEntry = playOnEntry
	u.Volume = 60
	return u
}

func state(userID, channelID string) *discordgo.VoiceState {
	return &discordgo.VoiceState{UserID: userID, ChannelID: channelID}
}

func TestHandleVoiceStateUpdate(t *testing.T) {
	store := users{
		"on":  entryUser("on", true),
		"off": entryUser("off", false),
	}

	tests := []struct {
		name      string
		botIn     string
		before    *discordgo.VoiceState
		after     *discordgo.VoiceState
		wantCalls []playCall
	}{
		{
			name:      "user joins bot channel",
			botIn:     "C",
			before:    nil,
			after:     state("on", "C"),
			wantCalls: []playCall{{"hai", "C", 60}},
		},
		{
			name:      "user moves into bot channel",
			botIn:     "C",
			before:    state("on", "D"),
			after:     state("on", "C"),
			wantCalls: []playCall{{"hai", "C", 60}},
		},
		{
			name:   "play on entry disabled",
			botIn:  "C",
			before: state("off", ""),
			after:  state("off", "C"),
		},
		{
			name:   "user joins another channel",
			botIn:  "C",
			before: state("on", ""),
			after:  state("on", "D"),
		},
		{
			name:   "channel did not change",
			botIn:  "C",
			before: state("on", "C"),
			after:  state("on", "C"),
		},
		{
			name:   "bot not in a channel",
			botIn:  "",
			before: state("on", "D"),
			after:  state("on", ""),
		},
		{
			name:   "unknown user",
			botIn:  "C",
			before: nil,
			after:  state("stranger", "C"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &tracker{channelID: tt.botIn}
			player := &recordingPlayer{}
			w := presence.NewWatcher(botID, tr, store, player, nil)

			w.HandleVoiceStateUpdate(t.Context(), tt.before, tt.after)

			if diff := cmp.Diff(tt.wantCalls, player.calls); diff != "" {
				t.Errorf("play calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBotUpdatesTrackChannel(t *testing.T) {
	tr := &tracker{channelID: "C"}
	player := &recordingPlayer{}
	w := presence.NewWatcher(botID, tr, users{}, player, nil)

	w.HandleVoiceStateUpdate(t.Context(), state(botID, "C"), state(botID, "D"))
	if tr.channelID != "D" {
		t.Errorf("tracked channel = %q, want D", tr.channelID)
	}

	w.HandleVoiceStateUpdate(t.Context(), state(botID, "D"), state(botID, ""))
	if tr.channelID != "" {
		t.Errorf("tracked channel = %q, want empty", tr.channelID)
	}
	if len(player.calls) != 0 {
		t.Errorf("bot updates triggered %d plays", len(player.calls))
	}
}

func TestPlayFailureIsSwallowed(t *testing.T) {
	tr := &tracker{channelID: "C"}
	player := &recordingPlayer{err: errors.New("busy")}
	w := presence.NewWatcher(botID, tr, users{"on": entryUser("on", true)}, player, nil)

	w.HandleVoiceStateUpdate(t.Context(), nil, state("on", "C"))
	if len(player.calls) != 1 {
		t.Errorf("play calls = %d, want 1", len(player.calls))
	}
}
