package models

import (
	"database/sql"
	"time"
)

// BannedWord represents a word or phrase that is banned in chat
type BannedWord struct {
	ID          uint64 `gorm:"primaryKey"`
	Word        string
	CreatedDate time.Time
	DeletedDate sql.NullTime
}
