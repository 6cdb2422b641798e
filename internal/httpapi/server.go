// Package httpapi serves the dashboard's JSON API.
package httpapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/auth"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/config"
	"github.com/glizzus/goonbot/internal/generator"
	"github.com/glizzus/goonbot/internal/guild"
	"github.com/glizzus/goonbot/internal/metrics"
	"github.com/glizzus/goonbot/internal/repository"
	"github.com/glizzus/goonbot/internal/websession"
)

type Preferences interface {
	Login(ctx context.Context, profile repository.Profile) (repository.User, error)
	Get(ctx context.Context, userID string) (repository.User, error)
	SetEntryCommand(ctx context.Context, userID string, ref catalog.Reference) error
	AddFavorite(ctx context.Context, userID, command string) error
	RemoveFavorite(ctx context.Context, userID, command string) error
	SetVolume(ctx context.Context, userID string, volume int) error
	SetPlayOnEntry(ctx context.Context, userID string, playOnEntry bool) error
}

type Catalog interface {
	List() ([]catalog.Command, error)
	Describe(name string) (catalog.Description, error)
}

type Player interface {
	RequestPlay(pattern, channelID string, volume int) error
}

type Guild interface {
	Info() (guild.Info, error)
	VoiceChannels() ([]guild.VoiceChannel, error)
}

// Deps are the services the API is built on. Metrics may be nil.
type Deps struct {
	Config      *config.ServerConfig
	Sessions    websession.Store
	SessionIDs  generator.Generator[string]
	States      generator.Generator[string]
	Auth        auth.Authenticator
	Preferences Preferences
	Catalog     Catalog
	Player      Player
	Guild       Guild
	Metrics     *metrics.Metrics
}

type Server struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	s := &Server{Deps: deps}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logging())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(s.loadSession())

	r.GET("/health", s.health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.GET("", s.currentUser)
			authGroup.GET("/discord", requireNoAuth(), s.beginLogin)
			authGroup.GET("/discord/return", s.finishLogin)
			authGroup.GET("/logout", s.logout)
		}

		audio := api.Group("/audio", requireAuth())
		{
			audio.POST("/play", s.play)
			audio.GET("/commands", s.listCommands)
			audio.GET("/commands/:name", s.describeCommand)
		}

		server := api.Group("/discordserver")
		{
			server.GET("", s.serverInfo)
			server.GET("/channels/voice", s.voiceChannels)
		}

		user := api.Group("/user", requireAuth())
		{
			user.GET("", s.getUser)
			user.POST("/audio/entry/command", s.setEntryCommand)
			user.POST("/audio/favorite", s.addFavorite)
			user.DELETE("/audio/favorite", s.removeFavorite)
			user.POST("/audio/entry", s.setPlayOnEntry)
			user.POST("/audio/volume", s.setVolume)
		}
	}

	if deps.Config.IsProduction() {
		r.NoRoute(serveClient(deps.Config.ClientBuildDir))
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "goonbot",
		"timestamp": time.Now().Unix(),
	})
}

// serveClient serves the built dashboard, falling back to index.html so the
// client side router can handle the path.
func serveClient(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
