package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
)

type ChatUnmuteReq struct {
	Sender string `json:"sender"`
}

func ChatUnmute(moderationService *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatUnmuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Lift the mute on the sender
		if err := moderationService.UnmuteSender(req.Sender); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
