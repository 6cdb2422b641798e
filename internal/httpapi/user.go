package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/catalog"
	"github.com/glizzus/goonbot/internal/preferences"
	"github.com/glizzus/goonbot/internal/repository"
)

type userResponse struct {
	ProfileID   string   `json:"profileID"`
	Username    string   `json:"username"`
	Avatar      string   `json:"avatar"`
	Banner      string   `json:"banner"`
	GlobalName  string   `json:"globalName"`
	EntryAudio  string   `json:"entryAudio"`
	Volume      int      `json:"volume"`
	PlayOnEntry bool     `json:"playOnEntry"`
	Favorites   []string `json:"favorites"`
}

func toUserResponse(u repository.User) userResponse {
	return userResponse{
		ProfileID:   u.ID,
		Username:    u.Username,
		Avatar:      u.Avatar,
		Banner:      u.Banner,
		GlobalName:  u.GlobalName,
		EntryAudio:  u.EntryAudio,
		Volume:      u.Volume,
		PlayOnEntry: u.PlayOnEntry,
		Favorites:   u.Favorites,
	}
}

type commandRequest struct {
	CommandName string `json:"commandName"`
}

func bindCommand(c *gin.Context) (string, bool) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CommandName == "" {
		badRequest(c, "commandName is required.")
		return "", false
	}
	return req.CommandName, true
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.Preferences.Get(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) setEntryCommand(c *gin.Context) {
	command, bound := bindCommand(c)
	if !bound {
		return
	}
	ref := catalog.ParseReference(command)
	if err := s.Preferences.SetEntryCommand(c.Request.Context(), userID(c), ref); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, fmt.Sprintf("Entry command successfully set to '%s'", ref))
}

func (s *Server) addFavorite(c *gin.Context) {
	command, bound := bindCommand(c)
	if !bound {
		return
	}
	if err := s.Preferences.AddFavorite(c.Request.Context(), userID(c), command); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, fmt.Sprintf("Successfully added the following command to favorites: '%s'", command))
}

func (s *Server) removeFavorite(c *gin.Context) {
	command, bound := bindCommand(c)
	if !bound {
		return
	}
	if err := s.Preferences.RemoveFavorite(c.Request.Context(), userID(c), command); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, fmt.Sprintf("Successfully removed the following command from favorites: '%s'", command))
}

type entryToggleRequest struct {
	EntryToggle *bool `json:"entryToggle"`
}

func (s *Server) setPlayOnEntry(c *gin.Context) {
	var req entryToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EntryToggle == nil {
		badRequest(c, "entryToggle must be true or false.")
		return
	}
	if err := s.Preferences.SetPlayOnEntry(c.Request.Context(), userID(c), *req.EntryToggle); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, fmt.Sprintf("Play on entry set to %t", *req.EntryToggle))
}

type volumeRequest struct {
	Volume any `json:"volume"`
}

// setVolume never rejects a value; anything unusable is stored as 100.
func (s *Server) setVolume(c *gin.Context) {
	var req volumeRequest
	_ = c.ShouldBindJSON(&req)

	volume := preferences.ParseVolume(req.Volume)
	if err := s.Preferences.SetVolume(c.Request.Context(), userID(c), volume); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, fmt.Sprintf("Volume set to %d", volume))
}
