package handler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/generator"
)

type nopSession struct{}

func (nopSession) InteractionRespond(*discordgo.Interaction, *discordgo.InteractionResponse, ...discordgo.RequestOption) error {
	return nil
}

func (nopSession) InteractionResponseEdit(*discordgo.Interaction, *discordgo.WebhookEdit, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return nil, nil
}

func TestInstanceIDFromCustomID(t *testing.T) {
	tests := map[string]string{
		"sound_select:abc": "abc",
		"sound_select:a:b": "a:b",
		"sound_select":     "",
		"":                 "",
	}
	for customID, want := range tests {
		if got := InstanceIDFromCustomID(customID); got != want {
			t.Errorf("InstanceIDFromCustomID(%q) = %q, want %q", customID, got, want)
		}
	}
}

func TestFlowsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fm := NewFlowManager(generator.Static("instance"))
	fm.now = func() time.Time { return now }

	var reached bool
	fm.RegisterFlow(&Flow{
		ID: "two-step",
		Root: &Node{
			ID:      "start",
			Matcher: isCommand("start"),
			Handler: func(context.Context, DiscordSession, *discordgo.InteractionCreate, *FlowContext) error { return nil },
			Next: []*Node{{
				ID:      "pick",
				Matcher: isComponent("pick"),
				Handler: func(context.Context, DiscordSession, *discordgo.InteractionCreate, *FlowContext) error {
					reached = true
					return nil
				},
			}},
		},
	})

	start := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "start"},
	}}
	pick := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "pick:instance"},
	}}

	if err := fm.Router(t.Context(), nopSession{}, start); err != nil {
		t.Fatal(err)
	}
	if fm.ActiveFlows() != 1 {
		t.Fatalf("active flows = %d, want 1", fm.ActiveFlows())
	}

	now = now.Add(DefaultFlowTTL + time.Second)
	if err := fm.Router(t.Context(), nopSession{}, pick); err != nil {
		t.Fatal(err)
	}
	if reached {
		t.Error("expired flow should not advance")
	}
	if fm.ActiveFlows() != 0 {
		t.Errorf("active flows = %d, want 0", fm.ActiveFlows())
	}
}

func TestFlowFinishesAfterLastNode(t *testing.T) {
	fm := NewFlowManager(generator.Static("instance"))
	fm.RegisterFlow(&Flow{
		ID: "two-step",
		Root: &Node{
			ID:      "start",
			Matcher: isCommand("start"),
			Handler: func(context.Context, DiscordSession, *discordgo.InteractionCreate, *FlowContext) error { return nil },
			Next: []*Node{{
				ID:      "pick",
				Matcher: isComponent("pick"),
				Handler: func(context.Context, DiscordSession, *discordgo.InteractionCreate, *FlowContext) error { return nil },
			}},
		},
	})

	_ = fm.Router(t.Context(), nopSession{}, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "start"},
	}})
	_ = fm.Router(t.Context(), nopSession{}, &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "pick:instance"},
	}})

	if fm.ActiveFlows() != 0 {
		t.Errorf("active flows = %d, want 0", fm.ActiveFlows())
	}
}

func TestRegisterFlowTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	fm := NewFlowManager(nil)
	fm.RegisterFlow(PingFlow)
	fm.RegisterFlow(PingFlow)
}
