package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/generator"
	"github.com/glizzus/goonbot/internal/repository"
)

type ReadyHandler = func(*discordgo.Session, *discordgo.Ready)
type InteractionCreateHandler = func(DiscordSession, *discordgo.InteractionCreate)

// DiscordSession is the part of *discordgo.Session that flows respond through.
type DiscordSession interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, wh *discordgo.WebhookEdit, opts ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)

var ReadyLog = func(s *discordgo.Session, r *discordgo.Ready) {
	username := r.User.Username
	userID := r.User.ID
	slog.Info("Bot is ready", "username", username, "userID", userID)
}

type CommandLister interface {
	List() ([]catalog.Command, error)
}

type UserLookup interface {
	Get(ctx context.Context, userID string) (repository.User, error)
}

type Player interface {
	RequestPlay(pattern, channelID string, volume int) error
}

// VoiceLocator finds the voice channel a guild member is sitting in.
type VoiceLocator interface {
	UserVoiceChannel(userID string) (string, error)
}

// Deps are the services the slash commands use.
type Deps struct {
	Catalog CommandLister
	Users   UserLookup
	Player  Player
	Voice   VoiceLocator
}

const interactionTimeout = 10 * time.Second

// NewInteractionHandler routes interactions through the registered flows.
func NewInteractionHandler(deps Deps, idGenerator generator.Generator[string]) InteractionCreateHandler {
	fm := NewFlowManager(idGenerator)
	fm.RegisterFlow(PingFlow)
	fm.RegisterFlow(NewPlayFlow(deps))
	fm.RegisterFlow(NewSoundsFlow(deps))

	return func(s DiscordSession, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		if err := fm.Router(ctx, s, i); err != nil {
			slog.Error("Failed to handle interaction", "interactionID", i.ID, "error", err)
		}
	}
}

// interactionUserID returns the ID of the user that triggered i.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type Handlers struct {
	Ready ReadyHandler
}

// NewSession creates a bot session that receives guild and voice state events.
// It is not opened.
func NewSession(token string, handlers Handlers) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	if handlers.Ready != nil {
		s.AddHandler(handlers.Ready)
	}

	return s, nil
}

// AddInteractionHandler subscribes h to the session's interactions.
func AddInteractionHandler(s *discordgo.Session, h InteractionCreateHandler) {
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		h(s, i)
	})
}
