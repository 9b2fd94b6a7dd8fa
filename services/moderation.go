package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/godocompany/supportchat-api/models"
	"gorm.io/gorm"
)

// ModerationService manages chat moderation: muted senders and banned
// words. Mutes are keyed by the sender label shown in chat.
type ModerationService struct {
	DB *gorm.DB
}

// MuteSender mutes a sender label, optionally until a date. A nil until
// date mutes indefinitely.
func (s *ModerationService) MuteSender(sender string, untilDate *time.Time) (*models.MutedUser, error) {

	// A mute with nobody to mute is a no-op
	if len(sender) == 0 {
		return nil, nil
	}

	// Create the until date
	var until sql.NullTime
	if untilDate != nil {
		until = sql.NullTime{
			Valid: true,
			Time:  *untilDate,
		}
	}

	// Add an entry to mute the sender
	mutedUser := models.MutedUser{
		Sender:      sender,
		UntilDate:   until,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&mutedUser).Error; err != nil {
		return nil, err
	}
	return &mutedUser, nil

}

// UnmuteSender lifts every active mute on a sender label
func (s *ModerationService) UnmuteSender(sender string) error {

	if len(sender) == 0 {
		return nil
	}

	// Mark all of the sender's mute entries as deleted
	return s.DB.
		Model(&models.MutedUser{}).
		Where("deleted_date IS NULL").
		Where("sender LIKE ?", sender).
		Update("deleted_date", time.Now()).
		Error

}

// IsSenderMuted checks whether a sender label currently has an active mute
func (s *ModerationService) IsSenderMuted(sender string) (bool, error) {

	if len(sender) == 0 {
		return false, nil
	}

	var mutedUser models.MutedUser
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("until_date IS NULL OR until_date > ?", time.Now()).
		Where("sender LIKE ?", sender).
		First(&mutedUser).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil

}

// GetBannedWords gets all of the banned words
func (s *ModerationService) GetBannedWords() ([]*models.BannedWord, error) {
	var bannedWords []*models.BannedWord
	err := s.DB.
		Where("deleted_date IS NULL").
		Find(&bannedWords).
		Error
	if err != nil {
		return nil, err
	}
	return bannedWords, nil
}

// checkMessageAgainstBannedWord reports whether the message is clean
// with respect to a single banned word
func (s *ModerationService) checkMessageAgainstBannedWord(message string, bw *models.BannedWord) bool {
	if len(bw.Word) == 0 {
		return true
	}
	return !strings.Contains(
		strings.ToLower(message),
		strings.ToLower(bw.Word),
	)
}

// CanSendMessage determines if a given message can be sent from a
// sender to a chat room
func (s *ModerationService) CanSendMessage(sender, message string) (bool, *models.BannedWord, error) {

	// Check if the sender is muted
	muted, err := s.IsSenderMuted(sender)
	if err != nil {
		return false, nil, err
	}
	if muted {
		return false, nil, nil
	}

	// Check for all the banned words
	bannedWords, err := s.GetBannedWords()
	if err != nil {
		return false, nil, err
	}

	// Loop through the banned words
	for _, bw := range bannedWords {
		if !s.checkMessageAgainstBannedWord(message, bw) {
			return false, bw, nil
		}
	}

	// The message looks good
	return true, nil, nil

}
