package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
)

type ChatMuteReq struct {
	Sender    string     `json:"sender"`
	UntilDate *time.Time `json:"until_date"`
}

func ChatMute(moderationService *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatMuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Mute the sender on the chat
		if _, err := moderationService.MuteSender(req.Sender, req.UntilDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
