package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glizzus/goonbot/internal/preferences"
)

type playRequest struct {
	AudioCommand string `json:"audioCommand"`
	ChannelID    string `json:"channelId"`
	Volume       any    `json:"volume"`
}

func (s *Server) play(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid play request.")
		return
	}
	if req.AudioCommand == "" || req.ChannelID == "" {
		badRequest(c, "audioCommand and channelId are required.")
		return
	}

	volume := 100
	if req.Volume != nil {
		volume = preferences.ParseVolume(req.Volume)
	}

	if err := s.Player.RequestPlay(req.AudioCommand, req.ChannelID, volume); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Play Request Successful")
}

func (s *Server) listCommands(c *gin.Context) {
	commands, err := s.Catalog.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commands)
}

func (s *Server) describeCommand(c *gin.Context) {
	description, err := s.Catalog.Describe(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, description)
}
