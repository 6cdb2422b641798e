package presenters

import (
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/catalog"
)

// Discord rejects select menus with more options than this.
const MaxSelectOptions = 25

const ComponentIDSoundSelect = "sound_select"

var noSoundsFoundResponse = &discordgo.InteractionResponse{
	Type: discordgo.InteractionResponseChannelMessageWithSource,
	Data: &discordgo.InteractionResponseData{
		Content: "No sounds found",
		Flags:   discordgo.MessageFlagsEphemeral,
	},
}

var soundSelectMinValues = 1

func commandToSelectMenuOption(cmd catalog.Command, favorite bool) discordgo.SelectMenuOption {
	option := discordgo.SelectMenuOption{
		Label: cmd.Name,
		Value: cmd.Name,
	}
	if favorite {
		option.Description = "Favorite"
	}
	if cmd.Kind == catalog.KindFolder {
		option.Emoji = &discordgo.ComponentEmoji{Name: "📁"}
	}
	return option
}

// orderSounds puts the user's favorites first, in catalog order, and cuts the
// list to what fits in a select menu.
func orderSounds(commands []catalog.Command, favorites []string) []discordgo.SelectMenuOption {
	var favored, rest []discordgo.SelectMenuOption
	for _, cmd := range commands {
		if slices.Contains(favorites, cmd.Name) {
			favored = append(favored, commandToSelectMenuOption(cmd, true))
		} else {
			rest = append(rest, commandToSelectMenuOption(cmd, false))
		}
	}
	options := append(favored, rest...)
	if len(options) > MaxSelectOptions {
		options = options[:MaxSelectOptions]
	}
	return options
}

// BuildSoundMenuResponse lists the catalog as a select menu whose custom ID
// carries instanceID so the choice routes back to the same flow.
func BuildSoundMenuResponse(commands []catalog.Command, favorites []string, instanceID string) *discordgo.InteractionResponse {
	if len(commands) == 0 {
		return noSoundsFoundResponse
	}

	menu := discordgo.SelectMenu{
		CustomID:    ComponentIDSoundSelect + ":" + instanceID,
		Placeholder: "Select a sound",
		MinValues:   &soundSelectMinValues,
		MaxValues:   1,
		Options:     orderSounds(commands, favorites),
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "**Sounds** _(pick one to play it)_",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{menu},
				},
			},
		},
	}
}

// BuildPlayingResponse replaces the sound menu once a sound has been picked.
func BuildPlayingResponse(name string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Playing `" + name + "`",
			Components: []discordgo.MessageComponent{},
		},
	}
}

// BuildErrorResponse reports a failure only to the user who caused it.
func BuildErrorResponse(message string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
