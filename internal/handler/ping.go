package handler

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

var PingFlow = &Flow{
	ID: "ping",
	Root: &Node{
		ID:      "ping",
		Matcher: isCommand("ping"),
		Handler: func(_ context.Context, s DiscordSession, i *discordgo.InteractionCreate, _ *FlowContext) error {
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "Pong!",
				},
			})
		},
	},
}
