package models

import (
	"time"
)

// ChatMessage is a single persisted line of a conversation. Rows are
// append-only; the auto-increment ID is the replay order for the room.
type ChatMessage struct {
	ID          uint64 `gorm:"primaryKey"`
	RoomName    string
	Sender      string
	Body        string
	CreatedDate time.Time
}
