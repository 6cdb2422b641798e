package playback_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glizzus/goonbot/internal/apperr"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/playback"
)

type playCall struct {
	channelID string
	path      string
	volume    int
}

type recordingPlayer struct {
	calls []playCall
	err   error
}

func (p *recordingPlayer) Play(channelID, path string, volume int) error {
	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, playCall{channelID, path, volume})
	return nil
}

func newCatalog(t *testing.T) (*catalog.Catalog, string) {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"hai.mp3", "lailai/lailai1.mp3", "lailai/lailai2.mp3"} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return catalog.New(root, catalog.WithPicker(func(int) int { return 0 })), root
}

func TestRequestPlay(t *testing.T) {
	cat, root := newCatalog(t)

	tests := []struct {
		name     string
		pattern  string
		volume   int
		wantPath string
		wantVol  int
		wantKind apperr.Kind
		wantErr  bool
	}{
		{name: "file command", pattern: "hai", volume: 60, wantPath: filepath.Join(root, "hai.mp3"), wantVol: 60},
		{name: "folder command", pattern: "lailai", volume: 100, wantPath: filepath.Join(root, "lailai", "lailai1.mp3"), wantVol: 100},
		{name: "explicit file", pattern: "lailai[lailai2.mp3]", volume: 5, wantPath: filepath.Join(root, "lailai", "lailai2.mp3"), wantVol: 5},
		{name: "out of range volume", pattern: "hai", volume: 300, wantPath: filepath.Join(root, "hai.mp3"), wantVol: 100},
		{name: "unknown command", pattern: "nope", wantErr: true, wantKind: apperr.KindNotFound},
		{name: "unknown file", pattern: "lailai[nope.mp3]", wantErr: true, wantKind: apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &recordingPlayer{}
			engine := playback.NewEngine(cat, player, nil)

			err := engine.RequestPlay(tt.pattern, "channel", tt.volume)
			if tt.wantErr {
				if !apperr.Is(err, tt.wantKind) {
					t.Fatalf("RequestPlay() error = %v, want kind %s", err, tt.wantKind)
				}
				if len(player.calls) != 0 {
					t.Errorf("player called %d times, want 0", len(player.calls))
				}
				return
			}
			if err != nil {
				t.Fatalf("RequestPlay() error = %v", err)
			}
			want := playCall{"channel", tt.wantPath, tt.wantVol}
			if len(player.calls) != 1 || player.calls[0] != want {
				t.Errorf("player calls = %+v, want [%+v]", player.calls, want)
			}
		})
	}
}

func TestRequestPlayPassesBusy(t *testing.T) {
	cat, _ := newCatalog(t)
	player := &recordingPlayer{err: apperr.Busy("busy")}
	engine := playback.NewEngine(cat, player, nil)

	if err := engine.RequestPlay("hai", "channel", 100); !apperr.Is(err, apperr.KindBusy) {
		t.Errorf("RequestPlay() error = %v, want busy", err)
	}
}
