package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/google/go-cmp/cmp"
)

func id3v1(title, artist, album string) []byte {
	tag := make([]byte, 128)
	copy(tag[0:3], "TAG")
	copy(tag[3:33], title)
	copy(tag[33:63], artist)
	copy(tag[63:93], album)
	copy(tag[93:97], "2019")
	tag[127] = 255
	return tag
}

func TestDescribe(t *testing.T) {
	root := newAudioRoot(t)
	tagged := append(append([]byte{}, fakeAudio...), id3v1("Hai", "Goon", "Clips")...)
	if err := os.WriteFile(filepath.Join(root, "hai.mp3"), tagged, 0o644); err != nil {
		t.Fatalf("failed to write tagged file: %v", err)
	}
	c := catalog.New(root)

	t.Run("tagged file command", func(t *testing.T) {
		got, err := c.Describe("hai")
		if err != nil {
			t.Fatalf("Describe returned error: %v", err)
		}
		want := []catalog.FileInfo{
			{File: "hai.mp3", Title: "Hai", Artist: "Goon", Album: "Clips", Format: "ID3v1"},
		}
		if diff := cmp.Diff(want, got.Files); diff != "" {
			t.Errorf("Describe mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("untagged folder command", func(t *testing.T) {
		got, err := c.Describe("lailai")
		if err != nil {
			t.Fatalf("Describe returned error: %v", err)
		}
		want := []catalog.FileInfo{{File: "lailai1.mp3"}, {File: "lailai2.mp3"}}
		if diff := cmp.Diff(want, got.Files); diff != "" {
			t.Errorf("Describe mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		if _, err := c.Describe("nope"); err == nil {
			t.Error("expected error for unknown command")
		}
	})
}
