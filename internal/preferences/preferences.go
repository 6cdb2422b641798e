// Package preferences applies the validation rules for a user's entry audio,
// favorites, volume and entry toggle before they reach the store.
//
// Every read-then-write here (adding a favorite, for example) is two store
// calls with no transaction; concurrent updates for the same user may lose one
// of the writes.
package preferences

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"

	"github.com/glizzus/goonbot/internal/apperr"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/glizzus/goonbot/internal/util"
)

// Catalog is the part of the audio catalog the rules check against.
type Catalog interface {
	Names() ([]string, error)
	Validate(ref catalog.Reference) (catalog.Command, error)
}

type Service struct {
	store   repository.UserRepository
	catalog Catalog
}

func NewService(store repository.UserRepository, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// storeError turns repository failures into the kinds callers see.
func storeError(err error, userID string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.NotFound("couldn't find a user with the ID: %s", userID)
	}
	slog.Error("Preference store failure", "userID", userID, "error", err)
	return apperr.Wrap(apperr.KindStore, err, "an internal error occurred while accessing user %s", userID)
}

// Login returns the user for a Discord profile, creating the record with
// default preferences on first login.
func (s *Service) Login(ctx context.Context, profile repository.Profile) (repository.User, error) {
	user, err := s.store.EnsureUser(ctx, profile)
	if err != nil {
		return repository.User{}, storeError(err, profile.ID)
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID string) (repository.User, error) {
	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return repository.User{}, storeError(err, userID)
	}
	return user, nil
}

// SetEntryCommand stores ref as the user's entry audio after checking that it
// names an existing command (and, if given, a file inside that folder command).
func (s *Service) SetEntryCommand(ctx context.Context, userID string, ref catalog.Reference) error {
	slog.Info("Setting entry command", "userID", userID, "command", ref.String())

	if _, err := s.catalog.Validate(ref); err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, userID); err != nil {
		return storeError(err, userID)
	}
	if err := s.store.SetEntryAudio(ctx, userID, ref.String()); err != nil {
		return storeError(err, userID)
	}
	return nil
}

// AddFavorite adds command to the user's favorites. Favorites that no longer
// exist in the catalog are dropped at the same time.
func (s *Service) AddFavorite(ctx context.Context, userID, command string) error {
	slog.Info("Adding favorite", "userID", userID, "command", command)

	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return storeError(err, userID)
	}

	names, err := s.catalog.Names()
	if err != nil {
		return err
	}
	if !slices.Contains(names, command) {
		return apperr.NotFound("the command '%s' doesn't exist", command)
	}

	favorites := util.Dedupe(append([]string{command}, user.Favorites...))
	favorites = slices.DeleteFunc(favorites, func(name string) bool {
		return !slices.Contains(names, name)
	})

	if err := s.store.SetFavorites(ctx, userID, favorites); err != nil {
		return storeError(err, userID)
	}
	return nil
}

// RemoveFavorite removes command from the user's favorites whether or not the
// command still exists.
func (s *Service) RemoveFavorite(ctx context.Context, userID, command string) error {
	slog.Info("Removing favorite", "userID", userID, "command", command)

	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return storeError(err, userID)
	}

	favorites := slices.DeleteFunc(slices.Clone(user.Favorites), func(name string) bool {
		return name == command
	})
	if err := s.store.SetFavorites(ctx, userID, favorites); err != nil {
		return storeError(err, userID)
	}
	return nil
}

// SetVolume stores the user's playback volume. Values outside [0, 100] are
// stored as 100.
func (s *Service) SetVolume(ctx context.Context, userID string, volume int) error {
	slog.Debug("Setting volume", "userID", userID, "volume", volume)
	if err := s.store.SetVolume(ctx, userID, NormalizeVolume(volume)); err != nil {
		return storeError(err, userID)
	}
	return nil
}

func (s *Service) SetPlayOnEntry(ctx context.Context, userID string, playOnEntry bool) error {
	slog.Debug("Setting play on entry", "userID", userID, "playOnEntry", playOnEntry)
	if err := s.store.SetPlayOnEntry(ctx, userID, playOnEntry); err != nil {
		return storeError(err, userID)
	}
	return nil
}

// NormalizeVolume maps out-of-range volumes to the default of 100.
func NormalizeVolume(volume int) int {
	if volume < 0 || volume > 100 {
		return repository.DefaultVolume
	}
	return volume
}

// ParseVolume reads a volume from a decoded JSON value. Anything that is not a
// number in [0, 100] becomes 100; fractional values are rounded.
func ParseVolume(raw any) int {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return repository.DefaultVolume
	}
	if math.IsNaN(f) || f < 0 || f > 100 {
		return repository.DefaultVolume
	}
	return int(math.Round(f))
}
