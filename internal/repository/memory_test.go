package repository_test

import (
	"errors"
	"testing"

	"github.com/glizzus/goonbot/internal/repository"
	"github.com/google/go-cmp/cmp"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := t.Context()
	repo := repository.NewMemoryUserRepository()

	if _, err := repo.Get(ctx, "1"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("Get() error = %v, want ErrUserNotFound", err)
	}
	if err := repo.SetVolume(ctx, "1", 5); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("SetVolume() error = %v, want ErrUserNotFound", err)
	}

	created, err := repo.EnsureUser(ctx, repository.Profile{ID: "1", Username: "goon"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(repository.NewUser(repository.Profile{ID: "1", Username: "goon"}), created); diff != "" {
		t.Errorf("EnsureUser() mismatch (-want +got):\n%s", diff)
	}

	favorites := []string{"hai"}
	if err := repo.SetFavorites(ctx, "1", favorites); err != nil {
		t.Fatal(err)
	}
	favorites[0] = "mutated"

	if _, err := repo.EnsureUser(ctx, repository.Profile{ID: "1", Username: "renamed"}); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Get(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "goon" {
		t.Errorf("Username = %q, second login should not modify the record", got.Username)
	}
	if diff := cmp.Diff([]string{"hai"}, got.Favorites); diff != "" {
		t.Errorf("Favorites mismatch (-want +got):\n%s", diff)
	}
}
