package models

import (
	"time"
)

// Customer is the summary row for one conversation room. The room name
// doubles as the customer identifier, and LastSeen orders the admin
// sidebar by recency.
type Customer struct {
	ID          uint64 `gorm:"primaryKey"`
	RoomName    string `gorm:"uniqueIndex"`
	DisplayName string
	LastSeen    time.Time
	CreatedDate time.Time
}
