package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/auth"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/config"
	"github.com/glizzus/goonbot/internal/datalayer"
	"github.com/glizzus/goonbot/internal/generator"
	"github.com/glizzus/goonbot/internal/guild"
	"github.com/glizzus/goonbot/internal/handler"
	"github.com/glizzus/goonbot/internal/httpapi"
	"github.com/glizzus/goonbot/internal/metrics"
	"github.com/glizzus/goonbot/internal/playback"
	"github.com/glizzus/goonbot/internal/preferences"
	"github.com/glizzus/goonbot/internal/presence"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/glizzus/goonbot/internal/schedule"
	"github.com/glizzus/goonbot/internal/voice"
	"github.com/glizzus/goonbot/internal/websession"
)

func setupLogging() error {
	logConfig, err := config.NewLogConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load log config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logConfig.Level})))
	return nil
}

// syncAudio mirrors the clip bucket into the audio root when MinIO is configured.
func syncAudio(ctx context.Context, cat *catalog.Catalog) {
	minioConfig, err := config.NewMinioConfigFromEnv()
	if err != nil {
		slog.Info("MinIO is not configured, serving the audio root as is", "reason", err)
		return
	}
	storage, err := datalayer.NewMinioStorage(minioConfig)
	if err != nil {
		slog.Warn("Failed to create minio storage", "error", err)
		return
	}
	result, err := cat.Sync(ctx, storage, minioConfig.Prefix)
	if err != nil {
		slog.Warn("Failed to sync audio from minio", "error", err)
		return
	}
	slog.Info("Synced audio from minio", "downloaded", result.Downloaded, "skipped", result.Skipped)
}

func runBotForever() error {
	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			slog.Warn("No .env file found, continuing without it")
		} else {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	if err := setupLogging(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	discordConfig, err := config.NewDiscordConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load discord config: %w", err)
	}
	audioConfig, err := config.NewAudioConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load audio config: %w", err)
	}
	serverConfig, err := config.NewServerConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	pool, err := datalayer.NewPostgresPoolFromEnv(ctx)
	if err != nil {
		return fmt.Errorf("failed to create postgres pool: %w", err)
	}
	defer pool.Close()

	if err := datalayer.MigratePostgres(pool); err != nil {
		return fmt.Errorf("failed to migrate postgres: %w", err)
	}

	redisClient, err := websession.NewRedisClientFromEnv(ctx)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	m := metrics.New()
	users := repository.NewPostgresUserRepository(pool)
	cat := catalog.New(audioConfig.Root)
	syncAudio(ctx, cat)

	prefs := preferences.NewService(users, cat)

	session, err := handler.NewSession(discordConfig.Token, handler.Handlers{Ready: handler.ReadyLog})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	voiceSession := voice.NewSession(
		discordConfig.GuildID,
		voice.NewDiscordJoiner(session),
		voice.OpusStreamer(audioConfig.FFmpegPath),
		voice.WithIdleTimeout(audioConfig.IdleTimeout),
		voice.WithPlaybackStart(func(string) { m.SetPlaying(true) }),
		voice.WithPlaybackDone(func(string, error) { m.SetPlaying(false) }),
	)
	defer func() {
		if err := voiceSession.Close(); err != nil {
			slog.Warn("failed to close voice session", "error", err)
		}
	}()

	engine := playback.NewEngine(cat, voiceSession, m)
	directory := guild.NewDirectory(discordConfig.GuildID, session, session.State)

	interactionHandler := handler.NewInteractionHandler(handler.Deps{
		Catalog: cat,
		Users:   users,
		Player:  engine,
		Voice:   directory,
	}, &generator.UUIDV4Generator{})
	handler.AddInteractionHandler(session, interactionHandler)

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close session", "error", err)
		}
	}()

	watcher := presence.NewWatcher(session.State.User.ID, voiceSession, users, engine, m)
	session.AddHandler(watcher.Handler())

	if err := handler.EstablishCommands(session, discordConfig.GuildID); err != nil {
		return fmt.Errorf("failed to establish commands: %w", err)
	}

	err = schedule.Every(ctx, audioConfig.IdleCheckCron, func(context.Context) {
		if voiceSession.CheckIdle() {
			m.IdleDisconnect()
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule idle check: %w", err)
	}

	if serverConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Config:      serverConfig,
		Sessions:    websession.NewRedisStore(redisClient, serverConfig.SessionTTL),
		SessionIDs:  &generator.UUIDV4Generator{},
		States:      &generator.TokenGenerator{},
		Auth:        auth.NewDiscordOAuth(discordConfig.ClientID, discordConfig.ClientSecret, serverConfig.OAuthRedirectURL()),
		Preferences: prefs,
		Catalog:     cat,
		Player:      engine,
		Guild:       directory,
		Metrics:     m,
	})

	server := &http.Server{
		Addr:              ":" + serverConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Web server listening", "port", serverConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-serverErr:
		return fmt.Errorf("web server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shut down web server", "error", err)
	}
	return nil
}

func main() {
	if err := runBotForever(); err != nil {
		log.Fatalf("failed to run bot: %v", err)
	}
}
