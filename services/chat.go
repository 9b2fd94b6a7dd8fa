package services

import (
	"errors"
	"strings"
	"time"

	"github.com/godocompany/supportchat-api/models"
	"gorm.io/gorm"
)

var (
	// ErrEmptyRoom is returned when an operation is attempted without a room name
	ErrEmptyRoom = errors.New("room name is empty")
	// ErrEmptyMessage is returned when a message body is empty after trimming
	ErrEmptyMessage = errors.New("message body is empty")
)

// ChatService manages the durable side of conversations: the
// append-only message log and the per-room customer summary rows
type ChatService struct {
	DB *gorm.DB
}

// SaveMessage appends a message to a room's history. The assigned ID is
// monotonically increasing, so replay order is just ID order.
func (s *ChatService) SaveMessage(room, sender, body string) (*models.ChatMessage, error) {

	// Reject messages without a room or a body
	if len(strings.TrimSpace(room)) == 0 {
		return nil, ErrEmptyRoom
	}
	body = strings.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyMessage
	}

	// Create the message row
	msg := models.ChatMessage{
		RoomName:    room,
		Sender:      sender,
		Body:        body,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil

}

// RoomHistory gets all of the messages for a room, oldest first. A room
// with no history returns an empty slice, not an error. A limit of zero
// or below means unbounded.
func (s *ChatService) RoomHistory(room string, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	query := s.DB.
		Where("room_name = ?", room).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// TouchCustomer records "last seen now" on the summary row for a room,
// creating the row if the room has never been seen before. Safe to call
// on every join and every message.
func (s *ChatService) TouchCustomer(room string) error {

	if len(strings.TrimSpace(room)) == 0 {
		return ErrEmptyRoom
	}

	// Find the existing summary row for the room
	var customer models.Customer
	err := s.DB.
		Where("room_name = ?", room).
		First(&customer).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {

			// First activity for this room, create the row
			customer = models.Customer{
				RoomName:    room,
				DisplayName: room,
				LastSeen:    time.Now(),
				CreatedDate: time.Now(),
			}
			return s.DB.Create(&customer).Error

		}
		return err
	}

	// Bump the last-seen marker
	return s.DB.
		Model(&customer).
		Update("last_seen", time.Now()).
		Error

}

// CreateCustomer creates a summary row for a brand new conversation
// room. Returns the existing row if the room name is already taken.
func (s *ChatService) CreateCustomer(room, displayName string) (*models.Customer, error) {

	if len(strings.TrimSpace(room)) == 0 {
		return nil, ErrEmptyRoom
	}
	if len(displayName) == 0 {
		displayName = room
	}

	// If the room already has a summary row, hand it back
	var existing models.Customer
	err := s.DB.
		Where("room_name = ?", room).
		First(&existing).
		Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Create the new row
	customer := models.Customer{
		RoomName:    room,
		DisplayName: displayName,
		LastSeen:    time.Now(),
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil

}

// ActiveCustomers gets the summary rows for the given room names,
// most recently active first. Rooms without a summary row are skipped.
func (s *ChatService) ActiveCustomers(rooms []string) ([]*models.Customer, error) {

	// No live rooms means no list to build
	if len(rooms) == 0 {
		return []*models.Customer{}, nil
	}

	var customers []*models.Customer
	err := s.DB.
		Where("room_name IN ?", rooms).
		Order("last_seen DESC").
		Find(&customers).
		Error
	if err != nil {
		return nil, err
	}
	return customers, nil

}
