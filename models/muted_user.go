package models

import (
	"database/sql"
	"time"
)

// MutedUser is a sender label that is muted in chat
type MutedUser struct {
	ID          uint64 `gorm:"primaryKey"`
	Sender      string
	UntilDate   sql.NullTime
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
