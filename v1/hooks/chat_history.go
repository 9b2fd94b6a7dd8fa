package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
)

type ChatHistoryReq struct {
	Room  string `json:"room"`
	Limit int    `json:"limit"`
}

// ChatHistory returns the persisted messages of a conversation, oldest
// first
func ChatHistory(chatService *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatHistoryReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Room) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room is required"})
			return
		}

		// Load the room's history
		history, err := chatService.RoomHistory(req.Room, req.Limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the messages
		messages := make([]gin.H, 0, len(history))
		for _, msg := range history {
			messages = append(messages, gin.H{
				"sender":  msg.Sender,
				"message": msg.Body,
			})
		}

		// Return the history
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"room":     req.Room,
				"messages": messages,
			},
		})

	}
}
