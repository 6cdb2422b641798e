// Package auth runs the Discord OAuth2 authorization code flow for the
// dashboard and turns the result into a user profile.
package auth

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/repository"
	"golang.org/x/oauth2"
)

// Authenticator is the OAuth provider the HTTP layer talks to.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (repository.Profile, error)
}

// ProfileFetcher loads the profile of the user that owns token.
type ProfileFetcher func(ctx context.Context, token *oauth2.Token) (repository.Profile, error)

var Endpoint = oauth2.Endpoint{
	AuthURL:   discordgo.EndpointOAuth2 + "authorize",
	TokenURL:  discordgo.EndpointOAuth2 + "token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type DiscordOAuth struct {
	config       *oauth2.Config
	fetchProfile ProfileFetcher
}

type Option func(*DiscordOAuth)

// WithEndpoint overrides the Discord OAuth endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(d *DiscordOAuth) {
		d.config.Endpoint = endpoint
	}
}

func WithProfileFetcher(fetch ProfileFetcher) Option {
	return func(d *DiscordOAuth) {
		d.fetchProfile = fetch
	}
}

func NewDiscordOAuth(clientID, clientSecret, redirectURL string, opts ...Option) *DiscordOAuth {
	d := &DiscordOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     Endpoint,
		},
		fetchProfile: FetchDiscordProfile,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Authenticator = (*DiscordOAuth)(nil)

func (d *DiscordOAuth) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token and returns the profile
// of the user who granted it.
func (d *DiscordOAuth) Exchange(ctx context.Context, code string) (repository.Profile, error) {
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return repository.Profile{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	profile, err := d.fetchProfile(ctx, token)
	if err != nil {
		return repository.Profile{}, fmt.Errorf("failed to fetch discord profile: %w", err)
	}
	return profile, nil
}

// FetchDiscordProfile asks Discord for the "@me" user with a bearer token.
func FetchDiscordProfile(ctx context.Context, token *oauth2.Token) (repository.Profile, error) {
	s, err := discordgo.New("Bearer " + token.AccessToken)
	if err != nil {
		return repository.Profile{}, err
	}
	user, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return repository.Profile{}, err
	}
	return ProfileFromUser(user), nil
}

func ProfileFromUser(u *discordgo.User) repository.Profile {
	return repository.Profile{
		ID:         u.ID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		Banner:     u.Banner,
		GlobalName: u.GlobalName,
	}
}
