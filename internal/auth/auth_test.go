package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/auth"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("code") != "good-code" || r.Form.Get("client_id") != "client" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthCodeURL(t *testing.T) {
	d := auth.NewDiscordOAuth("client", "secret", "http://localhost:3000/api/auth/discord/return")

	raw := d.AuthCodeURL("state-abc")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := u.Scheme+"://"+u.Host+u.Path, discordgo.EndpointOAuth2+"authorize"; got != want {
		t.Errorf("auth url = %s, want %s", got, want)
	}
	q := u.Query()
	for key, want := range map[string]string{
		"client_id":     "client",
		"state":         "state-abc",
		"scope":         "identify",
		"response_type": "code",
		"redirect_uri":  "http://localhost:3000/api/auth/discord/return",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
}

func TestExchange(t *testing.T) {
	srv := newTokenServer(t)
	want := repository.Profile{ID: "1", Username: "goon", GlobalName: "Goon"}

	var gotToken string
	d := auth.NewDiscordOAuth("client", "secret", "http://localhost/return",
		auth.WithEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		auth.WithProfileFetcher(func(_ context.Context, token *oauth2.Token) (repository.Profile, error) {
			gotToken = token.AccessToken
			return want, nil
		}),
	)

	profile, err := d.Exchange(t.Context(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if gotToken != "token-123" {
		t.Errorf("profile fetched with token %q, want token-123", gotToken)
	}
	if diff := cmp.Diff(want, profile); diff != "" {
		t.Errorf("Exchange() mismatch (-want +got):\n%s", diff)
	}

	if _, err := d.Exchange(t.Context(), "bad-code"); err == nil {
		t.Error("Exchange() with a bad code should fail")
	}
}

func TestExchangeProfileFailure(t *testing.T) {
	srv := newTokenServer(t)
	d := auth.NewDiscordOAuth("client", "secret", "http://localhost/return",
		auth.WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}),
		auth.WithProfileFetcher(func(context.Context, *oauth2.Token) (repository.Profile, error) {
			return repository.Profile{}, errors.New("discord is down")
		}),
	)

	if _, err := d.Exchange(t.Context(), "good-code"); err == nil {
		t.Error("Exchange() should fail when the profile can't be fetched")
	}
}

func TestProfileFromUser(t *testing.T) {
	got := auth.ProfileFromUser(&discordgo.User{
		ID:         "1",
		Username:   "goon",
		Avatar:     "a",
		Banner:     "b",
		GlobalName: "Goon",
	})
	want := repository.Profile{ID: "1", Username: "goon", Avatar: "a", Banner: "b", GlobalName: "Goon"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProfileFromUser() mismatch (-want +got):\n%s", diff)
	}
}
