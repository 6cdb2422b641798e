package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glizzus/goonbot/internal/datalayer"
)

// BlobSource is where clips are mirrored from.
type BlobSource interface {
	List(ctx context.Context, prefix string) ([]datalayer.ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type SyncResult struct {
	Downloaded int
	Skipped    int
}

// Sync copies the audio objects under prefix into the audio root.
// Keys map to "<file>" or "<folder>/<file>"; anything nested deeper, or not
// audio, is skipped. Files already present with the same size are left alone.
func (c *Catalog) Sync(ctx context.Context, src BlobSource, prefix string) (SyncResult, error) {
	var result SyncResult

	prefix = folderPrefix(prefix)
	objects, err := src.List(ctx, prefix)
	if err != nil {
		return result, fmt.Errorf("failed to list objects under %q: %w", prefix, err)
	}

	for _, obj := range objects {
		parts, ok := objectParts(obj.Key, prefix)
		if !ok {
			result.Skipped++
			continue
		}

		dst := filepath.Join(append([]string{c.root}, parts...)...)
		if info, err := os.Stat(dst); err == nil && info.Size() == obj.Size {
			result.Skipped++
			continue
		}

		if err := c.download(ctx, src, obj.Key, dst); err != nil {
			return result, err
		}
		slog.Info("Mirrored clip", "key", obj.Key, "path", dst)
		result.Downloaded++
	}
	return result, nil
}

// folderPrefix makes prefix name a whole path segment, so "audio" does not
// match "audiox/...". The empty prefix is the bucket root.
func folderPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func objectParts(key, prefix string) ([]string, bool) {
	rel, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return nil, false
	}
	parts := strings.Split(rel, "/")
	if len(parts) == 0 || len(parts) > 2 {
		return nil, false
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return nil, false
		}
	}
	if !IsAudioFile(parts[len(parts)-1]) {
		return nil, false
	}
	return parts, true
}

func (c *Catalog) download(ctx context.Context, src BlobSource, key, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	body, err := src.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".sync-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download object %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", dst, err)
	}
	return nil
}
