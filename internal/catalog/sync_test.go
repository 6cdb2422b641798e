package catalog_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/datalayer"
	"github.com/google/go-cmp/cmp"
)

type memorySource map[string][]byte

func (m memorySource) List(_ context.Context, _ string) ([]datalayer.ObjectInfo, error) {
	var objects []datalayer.ObjectInfo
	for key, data := range m {
		objects = append(objects, datalayer.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	return objects, nil
}

func (m memorySource) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m[key])), nil
}

func TestSync(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hai.mp3"), []byte("same"), 0o644); err != nil {
		t.Fatalf("failed to seed audio root: %v", err)
	}

	src := memorySource{
		"audio/hai.mp3":              []byte("same"),
		"audio/bruh.wav":             []byte("bruh"),
		"audio/lailai/lailai1.mp3":   []byte("one"),
		"audio/lailai/deep/x.mp3":    []byte("deep"),
		"audio/readme.txt":           []byte("text"),
		"audio/../escape/escape.mp3": []byte("no"),
	}

	c := catalog.New(root)
	result, err := c.Sync(context.Background(), src, "audio")
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	if diff := cmp.Diff(catalog.SyncResult{Downloaded: 2, Skipped: 4}, result); diff != "" {
		t.Errorf("SyncResult mismatch (-want +got):\n%s", diff)
	}

	got, err := c.Names()
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"bruh", "hai", "lailai"}, got); diff != "" {
		t.Errorf("catalog after sync mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(filepath.Join(root, "lailai", "lailai1.mp3"))
	if err != nil {
		t.Fatalf("failed to read mirrored file: %v", err)
	}
	if string(data) != "one" {
		t.Errorf("mirrored content = %q, want %q", data, "one")
	}
}

func TestSyncPrefixIsAFolder(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "bare", prefix: "audio"},
		{name: "trailing slash", prefix: "audio/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			src := memorySource{
				"audio/hai.mp3":      []byte("hai"),
				"audiox/foo.mp3":     []byte("sibling"),
				"audio-old/bruh.wav": []byte("old"),
			}

			c := catalog.New(root)
			result, err := c.Sync(context.Background(), src, tt.prefix)
			if err != nil {
				t.Fatalf("Sync returned error: %v", err)
			}
			if diff := cmp.Diff(catalog.SyncResult{Downloaded: 1, Skipped: 2}, result); diff != "" {
				t.Errorf("SyncResult mismatch (-want +got):\n%s", diff)
			}

			got, err := c.Names()
			if err != nil {
				t.Fatalf("Names returned error: %v", err)
			}
			if diff := cmp.Diff([]string{"hai"}, got); diff != "" {
				t.Errorf("catalog after sync mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
