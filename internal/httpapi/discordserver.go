package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) serverInfo(c *gin.Context) {
	info, err := s.Guild.Info()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) voiceChannels(c *gin.Context) {
	channels, err := s.Guild.VoiceChannels()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}
