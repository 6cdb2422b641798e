package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// FileInfo is the tag metadata of one file of a command. Files without tags
// only carry their name.
type FileInfo struct {
	File   string `json:"file"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Format string `json:"format,omitempty"`
}

type Description struct {
	Command Command    `json:"command"`
	Files   []FileInfo `json:"files"`
}

// Describe reads the tags of every file of the named command.
func (c *Catalog) Describe(name string) (Description, error) {
	cmd, err := c.Find(name)
	if err != nil {
		return Description{}, err
	}

	files := make([]FileInfo, 0, len(cmd.Paths))
	for _, file := range cmd.Paths {
		info, err := readFileInfo(filepath.Join(c.root, cmd.relPath(file)))
		if err != nil {
			return Description{}, err
		}
		info.File = file
		files = append(files, info)
	}
	return Description{Command: cmd, Files: files}, nil
}

func readFileInfo(path string) (FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return FileInfo{}, nil
		}
		return FileInfo{}, fmt.Errorf("failed to read tags of %s: %w", path, err)
	}
	return FileInfo{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Format: string(m.Format()),
	}, nil
}
