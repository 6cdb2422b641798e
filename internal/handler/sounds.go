package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/presenters"
	"github.com/glizzus/goonbot/internal/repository"
)

// playForUser plays pattern in the channel the user is in, at their stored
// volume or the default if they have never logged in.
func playForUser(ctx context.Context, deps Deps, userID, pattern string) error {
	channelID, err := deps.Voice.UserVoiceChannel(userID)
	if err != nil {
		return err
	}

	volume := repository.DefaultVolume
	if user, err := deps.Users.Get(ctx, userID); err == nil {
		volume = user.Volume
	}

	return deps.Player.RequestPlay(pattern, channelID, volume)
}

func respondError(s DiscordSession, i *discordgo.InteractionCreate, err error) error {
	slog.Warn("Interaction failed", "interactionID", i.ID, "error", err)
	return s.InteractionRespond(i.Interaction, presenters.BuildErrorResponse(userMessage(err)))
}

func NewPlayFlow(deps Deps) *Flow {
	return &Flow{
		ID: "play",
		Root: &Node{
			ID:      "play",
			Matcher: isCommand("play"),
			Handler: func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, _ *FlowContext) error {
				var sound string
				for _, option := range i.ApplicationCommandData().Options {
					if option.Name == "sound" && option.Type == discordgo.ApplicationCommandOptionString {
						sound = option.StringValue()
					}
				}
				if sound == "" {
					return s.InteractionRespond(i.Interaction, presenters.BuildErrorResponse("Tell me which sound to play."))
				}

				if err := playForUser(ctx, deps, interactionUserID(i), sound); err != nil {
					return respondError(s, i, err)
				}
				return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: fmt.Sprintf("Playing `%s`", sound),
					},
				})
			},
		},
	}
}

// NewSoundsFlow shows a menu of sounds and plays the one picked.
func NewSoundsFlow(deps Deps) *Flow {
	selected := &Node{
		ID:      "sound_selected",
		Matcher: isComponent(presenters.ComponentIDSoundSelect),
		Handler: func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, _ *FlowContext) error {
			values := i.MessageComponentData().Values
			if len(values) == 0 {
				return nil
			}
			sound := values[0]

			if err := playForUser(ctx, deps, interactionUserID(i), sound); err != nil {
				return respondError(s, i, err)
			}
			return s.InteractionRespond(i.Interaction, presenters.BuildPlayingResponse(sound))
		},
	}

	return &Flow{
		ID: "sounds",
		Root: &Node{
			ID:      "sounds",
			Matcher: isCommand("sounds"),
			Handler: func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, flowCtx *FlowContext) error {
				commands, err := deps.Catalog.List()
				if err != nil {
					return respondError(s, i, err)
				}

				var favorites []string
				if user, err := deps.Users.Get(ctx, interactionUserID(i)); err == nil {
					favorites = user.Favorites
				}

				return s.InteractionRespond(i.Interaction, presenters.BuildSoundMenuResponse(commands, favorites, flowCtx.InstanceID))
			},
			Next: []*Node{selected},
		},
	}
}
