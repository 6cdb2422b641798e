package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/config"
	"github.com/glizzus/goonbot/internal/datalayer"
	"github.com/glizzus/goonbot/internal/preferences"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/urfave/cli/v2"
)

func loadCatalog() (*catalog.Catalog, error) {
	audioConfig, err := config.NewAudioConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load audio config: %w", err)
	}
	return catalog.New(audioConfig.Root), nil
}

func loadMinio(c *cli.Context) (*datalayer.MinioStorage, *config.MinioConfig, error) {
	minioConfig, err := config.NewMinioConfigFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load minio config: %w", err)
	}
	storage, err := datalayer.NewMinioStorage(minioConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create minio storage: %w", err)
	}
	if err := storage.EnsureBucket(c.Context); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure minio bucket: %w", err)
	}
	return storage, minioConfig, nil
}

func loadPreferences(c *cli.Context) (*preferences.Service, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	pool, err := datalayer.NewPostgresPoolFromEnv(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := datalayer.MigratePostgres(pool); err != nil {
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}
	return preferences.NewService(repository.NewPostgresUserRepository(pool), cat), nil
}

func printUser(u repository.User) {
	log.Printf("User %s (%s)", u.ID, u.Username)
	log.Printf("  entry audio:   %s", u.EntryAudio)
	log.Printf("  volume:        %d", u.Volume)
	log.Printf("  play on entry: %t", u.PlayOnEntry)
	log.Printf("  favorites:     %s", strings.Join(u.Favorites, ", "))
}

var userIDFlag = &cli.StringFlag{
	Name:     "user-id",
	Usage:    "Discord ID of the user",
	Required: true,
}

// userAction runs fn against the preference service and prints the user after.
func userAction(fn func(c *cli.Context, prefs *preferences.Service, userID string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		prefs, err := loadPreferences(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		userID := c.String("user-id")
		if err := fn(c, prefs, userID); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		user, err := prefs.Get(c.Context, userID)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		printUser(user)
		return nil
	}
}

func main() {
	if err := config.LoadEnv(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	app := &cli.App{
		Name:        "goonbot-cli",
		Description: "A development CLI tool for managing Goon Bot sounds and users without Discord",
		Commands: []*cli.Command{
			{
				Name:  "sounds",
				Usage: "Inspect and manage the audio catalog",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List every playable command",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "tags", Usage: "Also print each file's tag metadata"},
						},
						Action: func(c *cli.Context) error {
							cat, err := loadCatalog()
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}
							commands, err := cat.List()
							if err != nil {
								return cli.Exit("Failed to list commands: "+err.Error(), 1)
							}
							if len(commands) == 0 {
								log.Println("No sounds found.")
								return nil
							}
							for _, cmd := range commands {
								if !c.Bool("tags") {
									log.Printf("%s\t%s", cmd.Name, strings.Join(cmd.Paths, ", "))
									continue
								}
								description, err := cat.Describe(cmd.Name)
								if err != nil {
									return cli.Exit("Failed to read tags: "+err.Error(), 1)
								}
								log.Printf("%s", cmd.Name)
								for _, f := range description.Files {
									log.Printf("  %s\t%s\t%s\t%s", f.File, f.Format, f.Title, f.Artist)
								}
							}
							return nil
						},
					},
					{
						Name:  "sync",
						Usage: "Download new clips from the MinIO bucket into the audio root",
						Action: func(c *cli.Context) error {
							cat, err := loadCatalog()
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}
							storage, minioConfig, err := loadMinio(c)
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}
							result, err := cat.Sync(c.Context, storage, minioConfig.Prefix)
							if err != nil {
								return cli.Exit("Failed to sync: "+err.Error(), 1)
							}
							log.Printf("Downloaded %d clips, skipped %d.", result.Downloaded, result.Skipped)
							return nil
						},
					},
					{
						Name:      "upload",
						Usage:     "Upload a clip to the MinIO bucket",
						ArgsUsage: "<file>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "folder", Usage: "Folder command to upload the clip into"},
						},
						Action: func(c *cli.Context) error {
							path := c.Args().First()
							if path == "" {
								return cli.Exit("Please provide a file to upload", 1)
							}
							if !catalog.IsAudioFile(path) {
								return cli.Exit("Only .mp3 and .wav files can be uploaded", 1)
							}
							storage, minioConfig, err := loadMinio(c)
							if err != nil {
								return cli.Exit(err.Error(), 1)
							}

							f, err := os.Open(path)
							if err != nil {
								return cli.Exit("Failed to open file: "+err.Error(), 1)
							}
							defer f.Close()
							info, err := f.Stat()
							if err != nil {
								return cli.Exit("Failed to stat file: "+err.Error(), 1)
							}

							key := minioConfig.Prefix + "/" + filepath.Base(path)
							if folder := c.String("folder"); folder != "" {
								key = minioConfig.Prefix + "/" + folder + "/" + filepath.Base(path)
							}
							err = storage.Put(c.Context, key, f, datalayer.PutOptions{
								Size:        info.Size(),
								ContentType: catalog.ContentType(path),
							})
							if err != nil {
								return cli.Exit("Failed to upload: "+err.Error(), 1)
							}
							log.Printf("Uploaded %s to %s.", path, key)
							return nil
						},
					},
				},
			},
			{
				Name:  "user",
				Usage: "Inspect and change a user's preferences",
				Subcommands: []*cli.Command{
					{
						Name:  "show",
						Usage: "Print a user's preferences",
						Flags: []cli.Flag{userIDFlag},
						Action: userAction(func(*cli.Context, *preferences.Service, string) error {
							return nil
						}),
					},
					{
						Name:      "entry",
						Usage:     "Set the entry audio, e.g. hai or lailai[lailai2.mp3]",
						ArgsUsage: "<command>",
						Flags:     []cli.Flag{userIDFlag},
						Action: userAction(func(c *cli.Context, prefs *preferences.Service, userID string) error {
							return prefs.SetEntryCommand(c.Context, userID, catalog.ParseReference(c.Args().First()))
						}),
					},
					{
						Name:      "volume",
						Usage:     "Set the playback volume (0-100)",
						ArgsUsage: "<volume>",
						Flags:     []cli.Flag{userIDFlag},
						Action: userAction(func(c *cli.Context, prefs *preferences.Service, userID string) error {
							volume, err := strconv.Atoi(c.Args().First())
							if err != nil {
								volume = repository.DefaultVolume
							}
							return prefs.SetVolume(c.Context, userID, volume)
						}),
					},
					{
						Name:      "toggle",
						Usage:     "Turn play on entry on or off",
						ArgsUsage: "<true|false>",
						Flags:     []cli.Flag{userIDFlag},
						Action: userAction(func(c *cli.Context, prefs *preferences.Service, userID string) error {
							on, err := strconv.ParseBool(c.Args().First())
							if err != nil {
								return fmt.Errorf("expected true or false: %w", err)
							}
							return prefs.SetPlayOnEntry(c.Context, userID, on)
						}),
					},
					{
						Name:  "favorite",
						Usage: "Manage a user's favorites",
						Subcommands: []*cli.Command{
							{
								Name:      "add",
								ArgsUsage: "<command>",
								Flags:     []cli.Flag{userIDFlag},
								Action: userAction(func(c *cli.Context, prefs *preferences.Service, userID string) error {
									return prefs.AddFavorite(c.Context, userID, c.Args().First())
								}),
							},
							{
								Name:      "remove",
								ArgsUsage: "<command>",
								Flags:     []cli.Flag{userIDFlag},
								Action: userAction(func(c *cli.Context, prefs *preferences.Service, userID string) error {
									return prefs.RemoveFavorite(c.Context, userID, c.Args().First())
								}),
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Error running CLI: %v", err)
	}
}
