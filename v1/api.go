package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
	"github.com/godocompany/supportchat-api/v1/hooks"
)

// Server is the API server instance backing the admin dashboard
type Server struct {
	ChatService       *services.ChatService
	PresenceService   *services.PresenceService
	ModerationService *services.ModerationService
}

// Setup mounts the API server to the given group
func (s *Server) Setup(g *gin.RouterGroup) {

	// Register all of the API routes
	g.POST("/app/get-state", hooks.AppState())
	g.POST("/chat/start", hooks.ChatStart(s.ChatService))
	g.POST("/chat/history", hooks.ChatHistory(s.ChatService))
	g.POST("/chat/active-customers", hooks.ChatActiveCustomers(
		s.ChatService,
		s.PresenceService,
	))
	g.POST("/chat/mute", hooks.ChatMute(s.ModerationService))
	g.POST("/chat/unmute", hooks.ChatUnmute(s.ModerationService))

}
