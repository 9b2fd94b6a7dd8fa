package services

import (
	"testing"

	"github.com/godocompany/supportchat-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSockets(t *testing.T) *SocketsService {
	t.Helper()
	db := testDB(t)
	return &SocketsService{
		ChatService:       &ChatService{DB: db},
		ModerationService: &ModerationService{DB: db},
		PresenceService:   NewPresenceService(),
		Router:            NewRoomRouter(),
	}
}

func boolPtr(b bool) *bool { return &b }

// payload pulls the single map argument out of an emitted event
func payload(t *testing.T, ev fakeEvent) map[string]interface{} {
	t.Helper()
	require.Len(t, ev.args, 1)
	data, ok := ev.args[0].(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestCustomerAdminConversation(t *testing.T) {
	sockets := newTestSockets(t)

	// The customer joins and says hello
	c1 := &fakeSub{id: "c1"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123", UserType: "customer"}))
	require.NoError(t, sockets.handleSendMessage(c1, SendMessageMsg{
		Room:    "abc123",
		Sender:  "Customer",
		Message: "hello",
	}))

	// The admin joins the conversation and gets the history replayed,
	// addressed to the admin alone
	c2 := &fakeSub{id: "c2"}
	require.NoError(t, sockets.handleJoin(c2, JoinMsg{Room: "abc123", UserType: "admin"}))

	replays := c2.eventsNamed("load_history")
	require.Len(t, replays, 1)
	data := payload(t, replays[0])
	messages, ok := data["messages"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "Customer", messages[0]["sender"])
	assert.Equal(t, "hello", messages[0]["message"])

	// The customer saw its own join replay only, and nothing extra from
	// the admin joining
	assert.Len(t, c1.eventsNamed("load_history"), 1)

	// The admin replies without echo
	require.NoError(t, sockets.handleSendMessage(c2, SendMessageMsg{
		Room:        "abc123",
		Sender:      "Agent",
		Message:     "hi",
		IncludeSelf: boolPtr(false),
	}))

	received := c1.eventsNamed("receive_message")
	require.Len(t, received, 2, "own echo plus the admin reply")
	reply := payload(t, received[1])
	assert.Equal(t, "Agent", reply["sender"])
	assert.Equal(t, "hi", reply["message"])
	assert.Equal(t, "abc123", reply["room"])
	assert.Empty(t, c2.eventsNamed("receive_message"), "no self echo when include_self is false")
}

func TestSendMessageIncludeSelfDefault(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123"}))

	require.NoError(t, sockets.handleSendMessage(c1, SendMessageMsg{
		Room:    "abc123",
		Sender:  "Customer",
		Message: "hello",
	}))

	assert.Len(t, c1.eventsNamed("receive_message"), 1, "include_self defaults to true")
}

func TestSendMessageMalformedPayload(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123"}))
	c1.events = nil

	// Missing or whitespace-only fields are silent no-ops
	require.NoError(t, sockets.handleSendMessage(c1, SendMessageMsg{Room: "", Sender: "x", Message: "hello"}))
	require.NoError(t, sockets.handleSendMessage(c1, SendMessageMsg{Room: "abc123", Sender: "x", Message: "   "}))

	assert.Empty(t, c1.events, "no outbound event for a rejected payload")

	history, err := sockets.ChatService.RoomHistory("abc123", 0)
	require.NoError(t, err)
	assert.Empty(t, history, "no store mutation for a rejected payload")
}

func TestTypingIsTransient(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	c2 := &fakeSub{id: "c2"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123"}))
	require.NoError(t, sockets.handleJoin(c2, JoinMsg{Room: "abc123", UserType: "admin"}))

	// Interleave typing signals with a real message
	require.NoError(t, sockets.handleTyping(c1, TypingMsg{Room: "abc123", Sender: "Customer"}))
	require.NoError(t, sockets.handleSendMessage(c1, SendMessageMsg{Room: "abc123", Sender: "Customer", Message: "hello"}))
	require.NoError(t, sockets.handleTyping(c1, TypingMsg{Room: "abc123", Sender: "Customer"}))

	// The origin never hears its own typing, everyone else does
	assert.Empty(t, c1.eventsNamed("typing"))
	assert.Len(t, c2.eventsNamed("typing"), 2)

	// Typing to an empty room is dropped silently
	require.NoError(t, sockets.handleTyping(c1, TypingMsg{Room: "nowhere"}))

	// Nothing transient ends up in history
	history, err := sockets.ChatService.RoomHistory("abc123", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Body)
}

func TestDisconnectRemovesAllMemberships(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	other := &fakeSub{id: "other"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "roomA"}))
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "roomB"}))
	require.NoError(t, sockets.handleJoin(other, JoinMsg{Room: "roomA"}))

	sockets.handleDisconnect("c1")
	c1.events = nil

	require.NoError(t, sockets.handleSendMessage(other, SendMessageMsg{Room: "roomA", Sender: "Customer", Message: "anyone?"}))

	assert.Empty(t, c1.events, "a disconnected connection receives nothing")
	assert.Empty(t, sockets.PresenceService.Rooms("c1"))
	assert.Equal(t, 0, sockets.Router.RoomLen("roomB"))
}

func TestActiveCustomersBroadcast(t *testing.T) {
	sockets := newTestSockets(t)

	// The admin dashboard subscribes to the reserved channel
	admin := &fakeSub{id: "admin"}
	require.NoError(t, sockets.handleJoin(admin, JoinMsg{Room: AdminRoom, UserType: "admin"}))

	updates := admin.eventsNamed("active_customers")
	require.NotEmpty(t, updates)
	assert.Empty(t, payload(t, updates[0])["customers"])

	// A customer joining makes its conversation active
	c1 := &fakeSub{id: "c1"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123", UserType: "customer"}))

	updates = admin.eventsNamed("active_customers")
	require.NotEmpty(t, updates)
	last := payload(t, updates[len(updates)-1])
	assert.Equal(t, []string{"abc123"}, last["customers"])

	// The customer leaving deactivates it again, silently for the room
	require.NoError(t, sockets.handleLeave(c1, LeaveMsg{Room: "abc123"}))
	assert.Empty(t, c1.eventsNamed("receive_message"), "leave is silent")

	updates = admin.eventsNamed("active_customers")
	last = payload(t, updates[len(updates)-1])
	assert.Empty(t, last["customers"])

	// The reserved channel itself never shows up as a customer
	require.NoError(t, sockets.handleJoin(&fakeSub{id: "admin2"}, JoinMsg{Room: AdminRoom}))
	updates = admin.eventsNamed("active_customers")
	last = payload(t, updates[len(updates)-1])
	assert.Empty(t, last["customers"])
}

func TestMutedSenderIsRejected(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	c2 := &fakeSub{id: "c2"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123"}))
	require.NoError(t, sockets.handleJoin(c2, JoinMsg{Room: "abc123", UserType: "admin"}))

	_, err := sockets.ModerationService.MuteSender("Customer", nil)
	require.NoError(t, err)

	err = sockets.handleSendMessage(c1, SendMessageMsg{Room: "abc123", Sender: "Customer", Message: "hello"})
	assert.Error(t, err)

	assert.Empty(t, c2.eventsNamed("receive_message"))
	history, err := sockets.ChatService.RoomHistory("abc123", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStoreFailureIsSurfaced(t *testing.T) {
	sockets := newTestSockets(t)
	c1 := &fakeSub{id: "c1"}
	c2 := &fakeSub{id: "c2"}
	require.NoError(t, sockets.handleJoin(c1, JoinMsg{Room: "abc123"}))
	require.NoError(t, sockets.handleJoin(c2, JoinMsg{Room: "abc123", UserType: "admin"}))

	// Break the store out from under the handler
	require.NoError(t, sockets.ChatService.DB.Migrator().DropTable(&models.ChatMessage{}))

	err := sockets.handleSendMessage(c1, SendMessageMsg{Room: "abc123", Sender: "Customer", Message: "hello"})
	assert.Error(t, err, "a failed append surfaces instead of being dropped")
	assert.Empty(t, c2.eventsNamed("receive_message"), "nothing is broadcast when persistence fails")
}
