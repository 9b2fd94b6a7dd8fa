package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
	"github.com/google/uuid"
)

type ChatStartReq struct {
	Room        string `json:"room"`
	DisplayName string `json:"display_name"`
}

// ChatStart opens a new conversation. A client that already has a
// customer identifier passes it as the room; otherwise a room id is
// generated for it.
func ChatStart(chatService *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatStartReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Generate a room id if the client has none
		room := req.Room
		if len(room) == 0 {
			room = uuid.NewString()
		}

		// Create the conversation's summary row
		customer, err := chatService.CreateCustomer(room, req.DisplayName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the room the client should join
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"room":         customer.RoomName,
				"display_name": customer.DisplayName,
			},
		})

	}
}
