// Package catalog builds the list of playable commands from the audio root.
//
// Top-level .mp3/.wav files are file commands named after the file without its
// extension. Each sub-directory is a folder command whose files are the audio
// files directly inside it; deeper nesting is ignored. The list is rebuilt from
// disk on every call.
package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glizzus/goonbot/internal/apperr"
	"github.com/glizzus/goonbot/internal/util"
)

type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

// Command is a named playable unit. A file command has exactly one path,
// relative to the audio root. A folder command has the file names inside its
// folder, and Dir holds the folder name as it is on disk.
type Command struct {
	Name  string
	Kind  Kind
	Paths []string
	Dir   string
}

// MarshalJSON keeps the dashboard's shape: commandPath for files and
// commandPaths for folders.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.Kind == KindFolder {
		return json.Marshal(struct {
			CommandName  string   `json:"commandName"`
			CommandPaths []string `json:"commandPaths"`
		}{c.Name, c.Paths})
	}
	var path string
	if len(c.Paths) > 0 {
		path = c.Paths[0]
	}
	return json.Marshal(struct {
		CommandName string `json:"commandName"`
		CommandPath string `json:"commandPath"`
	}{c.Name, path})
}

// Contains reports whether file is one of a folder command's files.
func (c Command) Contains(file string) bool {
	return c.Kind == KindFolder && slices.Contains(c.Paths, file)
}

// relPath returns the path of one of the command's files relative to the root.
func (c Command) relPath(file string) string {
	if c.Kind == KindFolder {
		return filepath.Join(c.Dir, file)
	}
	return file
}

func IsAudioFile(name string) bool {
	return strings.HasSuffix(name, ".mp3") || strings.HasSuffix(name, ".wav")
}

// ContentType is the MIME type stored alongside an uploaded clip.
func ContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(name, ".wav"):
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

func commandName(fileName string) string {
	return strings.ToLower(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
}

// Catalog reads commands from an audio root directory.
type Catalog struct {
	root string
	pick func(n int) int
}

type Option func(*Catalog)

// WithPicker replaces the uniform random choice used for folder commands.
func WithPicker(pick func(n int) int) Option {
	return func(c *Catalog) {
		c.pick = pick
	}
}

func New(root string, opts ...Option) *Catalog {
	c := &Catalog{root: root, pick: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Root() string {
	return c.root
}

// List scans the audio root. Folders without audio files are skipped.
func (c *Catalog) List() ([]Command, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio root %s: %w", c.root, err)
	}

	var files, folders []Command
	for _, entry := range entries {
		if entry.IsDir() {
			paths, err := c.folderFiles(entry.Name())
			if err != nil {
				return nil, err
			}
			if len(paths) == 0 {
				continue
			}
			folders = append(folders, Command{
				Name:  strings.ToLower(entry.Name()),
				Kind:  KindFolder,
				Paths: paths,
				Dir:   entry.Name(),
			})
			continue
		}
		if !entry.Type().IsRegular() || !IsAudioFile(entry.Name()) {
			continue
		}
		files = append(files, Command{
			Name:  commandName(entry.Name()),
			Kind:  KindFile,
			Paths: []string{entry.Name()},
		})
	}

	return append(files, folders...), nil
}

func (c *Catalog) folderFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio folder %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsAudioFile(entry.Name()) {
			paths = append(paths, entry.Name())
		}
	}
	return paths, nil
}

// Names returns the names of all commands.
func (c *Catalog) Names() ([]string, error) {
	commands, err := c.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name)
	}
	return names, nil
}

// Find returns the command with the given name.
func (c *Catalog) Find(name string) (Command, error) {
	commands, err := c.List()
	if err != nil {
		return Command{}, err
	}
	name = strings.ToLower(name)
	cmd, ok := util.FindFirst(commands, func(cmd Command) bool {
		return cmd.Name == name
	})
	if !ok {
		return Command{}, apperr.NotFound("failed to find a command by the name: %s", name)
	}
	return cmd, nil
}

// Validate checks that ref names an existing command and, when it names a file,
// that the file belongs to that folder command.
func (c *Catalog) Validate(ref Reference) (Command, error) {
	cmd, err := c.Find(ref.Command)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Command{}, apperr.InvalidCommand("the audio command '%s' is invalid", ref)
		}
		return Command{}, err
	}
	if ref.HasFile() && !cmd.Contains(ref.File) {
		return Command{}, apperr.InvalidCommand("the file specified in the audio command '%s' is invalid", ref)
	}
	return cmd, nil
}

// Resolve returns the absolute path of the file to play for ref. A folder
// command without an explicit file resolves to one of its files at random.
func (c *Catalog) Resolve(ref Reference) (string, error) {
	cmd, err := c.Find(ref.Command)
	if err != nil {
		return "", err
	}

	var file string
	switch {
	case ref.HasFile():
		if !cmd.Contains(ref.File) {
			return "", apperr.NotFound("the file '%s' doesn't exist in command '%s'", ref.File, cmd.Name)
		}
		file = ref.File
	case cmd.Kind == KindFolder:
		file = cmd.Paths[c.pick(len(cmd.Paths))]
	default:
		file = cmd.Paths[0]
	}

	return filepath.Join(c.root, cmd.relPath(file)), nil
}

// ResolvePattern parses "name" or "name[file]" and resolves it.
func (c *Catalog) ResolvePattern(pattern string) (string, error) {
	return c.Resolve(ParseReference(pattern))
}
