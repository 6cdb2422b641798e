package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryUserRepository keeps users in process. It backs tests and local runs
// without Postgres.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]User
}

func NewMemoryUserRepository(users ...User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[string]User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

var _ UserRepository = (*MemoryUserRepository)(nil)

func cloneUser(u User) User {
	u.Favorites = slices.Clone(u.Favorites)
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	return u
}

func (r *MemoryUserRepository) EnsureUser(_ context.Context, profile Profile) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[profile.ID]; ok {
		return cloneUser(u), nil
	}
	u := NewUser(profile)
	r.users[profile.ID] = u
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) Get(_ context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) update(id string, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) SetEntryAudio(_ context.Context, id, entryAudio string) error {
	return r.update(id, func(u *User) { u.EntryAudio = entryAudio })
}

func (r *MemoryUserRepository) SetFavorites(_ context.Context, id string, favorites []string) error {
	return r.update(id, func(u *User) { u.Favorites = slices.Clone(favorites) })
}

func (r *MemoryUserRepository) SetVolume(_ context.Context, id string, volume int) error {
	return r.update(id, func(u *User) { u.Volume = volume })
}

func (r *MemoryUserRepository) SetPlayOnEntry(_ context.Context, id string, playOnEntry bool) error {
	return r.update(id, func(u *User) { u.PlayOnEntry = playOnEntry })
}
