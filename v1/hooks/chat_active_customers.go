package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godocompany/supportchat-api/services"
)

// ChatActiveCustomers returns the conversations that currently have a
// connected customer, most recently active first
func ChatActiveCustomers(
	chatService *services.ChatService,
	presenceService *services.PresenceService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Order the live active rooms by their last activity
		customers, err := chatService.ActiveCustomers(
			presenceService.ActiveRooms(),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the customer summaries
		result := make([]gin.H, 0, len(customers))
		for _, customer := range customers {
			result = append(result, gin.H{
				"room":         customer.RoomName,
				"display_name": customer.DisplayName,
				"last_seen":    customer.LastSeen,
			})
		}

		// Return the active list
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"customers": result,
			},
		})

	}
}
