package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands is a list of all the commands the bot can handle.
// This is used to register the commands with Discord.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:        "play",
		Description: "Play a sound in your voice channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "sound",
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The sound to play, or folder[file] for a specific file in a folder.",
				Required:    true,
			},
		},
	},
	{
		Name:        "sounds",
		Description: "Pick a sound to play from a list",
	},
}

func EstablishCommands(s *discordgo.Session, guildID string) error {
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, Commands)
	if err != nil {
		return fmt.Errorf("failed to establish commands: %w", err)
	}
	return nil
}
