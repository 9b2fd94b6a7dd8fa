package services

import "sync"

// Subscriber is the router-facing view of a connected socket. It is the
// subset of socketio.Conn the router needs to address a live connection.
type Subscriber interface {
	ID() string
	Emit(event string, args ...interface{})
}

// RoomRouter owns the mapping from room name to the set of live
// subscribers, and is the only component that addresses a connection
// directly. Delivery is best-effort and at-most-once: a subscriber that
// is gone by the time fan-out runs is simply skipped.
type RoomRouter struct {
	mut   sync.Mutex
	rooms map[string]map[string]Subscriber
}

// NewRoomRouter creates an empty router
func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms: map[string]map[string]Subscriber{},
	}
}

// Join attaches a subscriber to a room. Joining twice replaces the
// previous entry for the same connection ID.
func (r *RoomRouter) Join(room string, sub Subscriber) {
	r.mut.Lock()
	defer r.mut.Unlock()

	subs, ok := r.rooms[room]
	if !ok {
		subs = map[string]Subscriber{}
		r.rooms[room] = subs
	}
	subs[sub.ID()] = sub
}

// Leave detaches a subscriber from a room. Unknown rooms and unknown
// subscribers are no-ops.
func (r *RoomRouter) Leave(room, connID string) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.leaveLocked(room, connID)
}

func (r *RoomRouter) leaveLocked(room, connID string) {
	subs, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(subs, connID)
	if len(subs) == 0 {
		delete(r.rooms, room)
	}
}

// DropAll detaches a subscriber from every room it was attached to.
// Called once on connection teardown.
func (r *RoomRouter) DropAll(connID string) {
	r.mut.Lock()
	defer r.mut.Unlock()

	for room := range r.rooms {
		r.leaveLocked(room, connID)
	}
}

// RoomLen gets the number of subscribers currently attached to a room
func (r *RoomRouter) RoomLen(room string) int {
	r.mut.Lock()
	defer r.mut.Unlock()
	return len(r.rooms[room])
}

// Broadcast delivers an event to every subscriber of a room
func (r *RoomRouter) Broadcast(room, event string, args ...interface{}) {
	r.BroadcastExcept(room, "", event, args...)
}

// BroadcastExcept delivers an event to every subscriber of a room
// except the origin connection. An empty origin excludes nobody.
// The subscriber set is snapshotted under the lock so fan-out is atomic
// with respect to concurrent joins and leaves of the same room.
func (r *RoomRouter) BroadcastExcept(room, originID, event string, args ...interface{}) {

	// Snapshot the recipients under the lock
	r.mut.Lock()
	recipients := make([]Subscriber, 0, len(r.rooms[room]))
	for id, sub := range r.rooms[room] {
		if len(originID) > 0 && id == originID {
			continue
		}
		recipients = append(recipients, sub)
	}
	r.mut.Unlock()

	// Emit outside the lock. A recipient that disconnected after the
	// snapshot just drops the event; that is not an error.
	for _, sub := range recipients {
		sub.Emit(event, args...)
	}

}
