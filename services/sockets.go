package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godocompany/supportchat-api/utils"
	socketio "github.com/googollee/go-socket.io"
)

// AdminRoom is the reserved broadcast channel for admin dashboards.
// Every connected admin joins it to receive active-customer updates.
const AdminRoom = "admins"

type SocketContext struct{}

// SocketsService is the boundary-facing handler for the realtime
// protocol. It validates inbound events and drives the chat store, the
// presence registry and the room router in the right order.
type SocketsService struct {
	Server            *socketio.Server
	ChatService       *ChatService
	PresenceService   *PresenceService
	ModerationService *ModerationService
	Router            *RoomRouter
}

func (s *SocketsService) Setup() {

	// Add handlers to the socket server
	s.Server.OnConnect("/", func(conn socketio.Conn) error {
		fmt.Println("client connected: ", utils.GetIpAddress(conn.RemoteAddr()))
		conn.SetContext(SocketContext{})
		return nil
	})

	// When a socket disconnects
	s.Server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		fmt.Println("client disconnected: ", utils.GetIpAddress(conn.RemoteAddr()))
		s.handleDisconnect(conn.ID())
	})

	// Register all of the event handlers
	s.Server.OnEvent("/", "join", s.OnJoin)
	s.Server.OnEvent("/", "leave", s.OnLeave)
	s.Server.OnEvent("/", "send_message", s.OnSendMessage)
	s.Server.OnEvent("/", "typing", s.OnTyping)

}

//====================================================================================================
// join event handler
// Called when a customer or admin joins a conversation room
//====================================================================================================

type JoinMsg struct {
	Room     string `json:"room"`
	UserType string `json:"user_type"`
}

func (s *SocketsService) OnJoin(conn socketio.Conn, data JoinMsg) error {
	return s.handleJoin(conn, data)
}

func (s *SocketsService) handleJoin(sub Subscriber, data JoinMsg) error {

	// A join without a room is dropped silently
	room := strings.TrimSpace(data.Room)
	if len(room) == 0 {
		return nil
	}

	// Resolve the declared role. Connections default to customer, but
	// the reserved admin channel never counts as a customer membership
	// no matter what the client claims.
	role := RoleCustomer
	if data.UserType == string(RoleAdmin) || room == AdminRoom {
		role = RoleAdmin
	}

	// Record the membership and attach the subscriber
	s.PresenceService.Join(sub.ID(), room, role)
	s.Router.Join(room, sub)

	// Bump the conversation's last-seen marker when a customer shows up
	if role == RoleCustomer {
		if err := s.ChatService.TouchCustomer(room); err != nil {
			return err
		}
	}

	// Replay the room's history to the joining connection only. The
	// other subscribers of the room see nothing.
	history, err := s.ChatService.RoomHistory(room, 0)
	if err != nil {
		return err
	}
	messages := make([]map[string]interface{}, 0, len(history))
	for _, msg := range history {
		messages = append(messages, map[string]interface{}{
			"sender":  msg.Sender,
			"message": msg.Body,
		})
	}
	sub.Emit("load_history", map[string]interface{}{
		"room":     room,
		"messages": messages,
	})

	// The active list may have changed
	s.broadcastActiveCustomers()

	return nil

}

//====================================================================================================
// leave event handler
// Called when a connection leaves a conversation room. Leaving is
// silent: no event is emitted to the room.
//====================================================================================================

type LeaveMsg struct {
	Room string `json:"room"`
}

func (s *SocketsService) OnLeave(conn socketio.Conn, data LeaveMsg) error {
	return s.handleLeave(conn, data)
}

func (s *SocketsService) handleLeave(sub Subscriber, data LeaveMsg) error {

	// A leave without a room is dropped silently. Leaving a room never
	// joined is indistinguishable from having already left, so it is a
	// no-op as well.
	room := strings.TrimSpace(data.Room)
	if len(room) == 0 {
		return nil
	}

	s.PresenceService.Leave(sub.ID(), room)
	s.Router.Leave(room, sub.ID())

	// The active list may have changed
	s.broadcastActiveCustomers()

	return nil

}

//====================================================================================================
// send_message event handler
// Called when a participant sends a message in a conversation
//====================================================================================================

type SendMessageMsg struct {
	Room    string `json:"room"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
	// IncludeSelf controls whether the sender receives its own message
	// back. Absent means true, for clients that do not render their
	// outgoing text optimistically.
	IncludeSelf *bool `json:"include_self"`
}

func (s *SocketsService) OnSendMessage(conn socketio.Conn, data SendMessageMsg) error {
	return s.handleSendMessage(conn, data)
}

func (s *SocketsService) handleSendMessage(sub Subscriber, data SendMessageMsg) error {

	// Drop malformed payloads silently: no store write, no broadcast
	room := strings.TrimSpace(data.Room)
	body := strings.TrimSpace(data.Message)
	if len(room) == 0 || len(body) == 0 {
		return nil
	}

	// Check the message against the moderation rules
	ok, _, err := s.ModerationService.CanSendMessage(data.Sender, body)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("message rejected by moderation")
	}

	// Persist the message before anyone sees it. A store failure means
	// the event is neither persisted nor broadcast, and the error
	// surfaces to the client as a transport failure.
	msg, err := s.ChatService.SaveMessage(room, data.Sender, body)
	if err != nil {
		return err
	}
	if err := s.ChatService.TouchCustomer(room); err != nil {
		return err
	}

	// Fan the message out to the room, skipping the sender when the
	// client asked not to be echoed
	origin := ""
	if data.IncludeSelf != nil && !*data.IncludeSelf {
		origin = sub.ID()
	}
	s.Router.BroadcastExcept(room, origin, "receive_message", map[string]interface{}{
		"sender":  msg.Sender,
		"message": msg.Body,
		"room":    msg.RoomName,
	})

	// The message bumped the room's recency
	s.broadcastActiveCustomers()

	return nil

}

//====================================================================================================
// typing event handler
// Called while a participant is typing. The signal is transient: it is
// relayed to everyone else in the room and never persisted.
//====================================================================================================

type TypingMsg struct {
	Room   string `json:"room"`
	Sender string `json:"sender"`
}

func (s *SocketsService) OnTyping(conn socketio.Conn, data TypingMsg) error {
	return s.handleTyping(conn, data)
}

func (s *SocketsService) handleTyping(sub Subscriber, data TypingMsg) error {

	// A typing signal without a room is dropped silently
	room := strings.TrimSpace(data.Room)
	if len(room) == 0 {
		return nil
	}

	// Best-effort relay to everyone in the room except the origin. If
	// the room has no other subscribers this emits to nobody.
	s.Router.BroadcastExcept(room, sub.ID(), "typing", map[string]interface{}{
		"room":   room,
		"sender": data.Sender,
	})

	return nil

}

//====================================================================================================
// Connection teardown
//====================================================================================================

func (s *SocketsService) handleDisconnect(connID string) {

	// Remove the connection from every room it had joined
	s.PresenceService.Disconnect(connID)
	s.Router.DropAll(connID)

	// The active list may have changed
	s.broadcastActiveCustomers()

}

// broadcastActiveCustomers pushes the current active-customer list to
// the admin channel, most recently active first
func (s *SocketsService) broadcastActiveCustomers() {

	// Order the live active rooms by their last activity
	customers, err := s.ChatService.ActiveCustomers(
		s.PresenceService.ActiveRooms(),
	)
	if err != nil {
		// The presence update is best-effort; the next event that
		// changes the active list will retry it
		fmt.Println("failed to load active customers: ", err)
		return
	}

	rooms := make([]string, 0, len(customers))
	for _, customer := range customers {
		rooms = append(rooms, customer.RoomName)
	}

	s.Router.Broadcast(AdminRoom, "active_customers", map[string]interface{}{
		"customers": rooms,
	})

}
