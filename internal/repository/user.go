package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

// Profile is what Discord tells us about a user at login.
type Profile struct {
	ID         string
	Username   string
	Avatar     string
	Banner     string
	GlobalName string
}

// User is a dashboard user and their playback preferences. EntryAudio is kept
// in its flattened "name" or "name[file]" form.
type User struct {
	Profile
	EntryAudio  string
	Volume      int
	PlayOnEntry bool
	Favorites   []string
}

const (
	DefaultEntryAudio = "hai"
	DefaultVolume     = 100
)

// NewUser returns the record created for a first login.
func NewUser(p Profile) User {
	return User{
		Profile:     p,
		EntryAudio:  DefaultEntryAudio,
		Volume:      DefaultVolume,
		PlayOnEntry: false,
		Favorites:   []string{},
	}
}

type UserRepository interface {
	EnsureUser(ctx context.Context, profile Profile) (User, error)
	Get(ctx context.Context, id string) (User, error)
	SetEntryAudio(ctx context.Context, id, entryAudio string) error
	SetFavorites(ctx context.Context, id string, favorites []string) error
	SetVolume(ctx context.Context, id string, volume int) error
	SetPlayOnEntry(ctx context.Context, id string, playOnEntry bool) error
}

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ UserRepository = (*PostgresUserRepository)(nil)

func UserToRowParams(u User) []any {
	return []any{
		u.ID,
		u.Username,
		u.Avatar,
		u.Banner,
		u.GlobalName,
		u.EntryAudio,
		u.Volume,
		u.PlayOnEntry,
		u.Favorites,
	}
}

const selectUserQuery = `
	SELECT profile_id, username, avatar, banner, global_name,
		entry_audio, volume, play_on_entry, favorites
	FROM users
	WHERE profile_id = $1
	`

// EnsureUser returns the stored user for profile.ID, creating it with default
// preferences if this is their first login. Existing users are not modified.
func (r *PostgresUserRepository) EnsureUser(ctx context.Context, profile Profile) (User, error) {
	const insertQuery = `
	INSERT INTO users (profile_id, username, avatar, banner, global_name,
		entry_audio, volume, play_on_entry, favorites)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (profile_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, insertQuery, UserToRowParams(NewUser(profile))...); err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return r.Get(ctx, profile.ID)
}

func (r *PostgresUserRepository) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, selectUserQuery, id).Scan(
		&u.ID,
		&u.Username,
		&u.Avatar,
		&u.Banner,
		&u.GlobalName,
		&u.EntryAudio,
		&u.Volume,
		&u.PlayOnEntry,
		&u.Favorites,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	return u, nil
}

func (r *PostgresUserRepository) update(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetEntryAudio(ctx context.Context, id, entryAudio string) error {
	return r.update(ctx, `UPDATE users SET entry_audio = $2 WHERE profile_id = $1`, id, entryAudio)
}

func (r *PostgresUserRepository) SetFavorites(ctx context.Context, id string, favorites []string) error {
	if favorites == nil {
		favorites = []string{}
	}
	return r.update(ctx, `UPDATE users SET favorites = $2 WHERE profile_id = $1`, id, favorites)
}

func (r *PostgresUserRepository) SetVolume(ctx context.Context, id string, volume int) error {
	return r.update(ctx, `UPDATE users SET volume = $2 WHERE profile_id = $1`, id, volume)
}

func (r *PostgresUserRepository) SetPlayOnEntry(ctx context.Context, id string, playOnEntry bool) error {
	return r.update(ctx, `UPDATE users SET play_on_entry = $2 WHERE profile_id = $1`, id, playOnEntry)
}
