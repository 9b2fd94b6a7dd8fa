package services

import "sync"

// Role is the declared role of a connection in a room
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// PresenceService tracks which connections are currently members of
// which rooms. It is purely in-memory: a process restart resets
// presence to empty even though message history survives.
type PresenceService struct {
	mut sync.Mutex

	// conns and rooms are a bidirectional index and are always
	// mutated together under the mutex
	conns map[string]map[string]Role
	rooms map[string]map[string]Role
}

// NewPresenceService creates an empty presence registry
func NewPresenceService() *PresenceService {
	return &PresenceService{
		conns: map[string]map[string]Role{},
		rooms: map[string]map[string]Role{},
	}
}

// Join records that a connection is a member of a room. Joining a room
// already joined is a no-op beyond confirming membership.
func (s *PresenceService) Join(connID, room string, role Role) {
	s.mut.Lock()
	defer s.mut.Unlock()

	memberships, ok := s.conns[connID]
	if !ok {
		memberships = map[string]Role{}
		s.conns[connID] = memberships
	}
	memberships[room] = role

	members, ok := s.rooms[room]
	if !ok {
		members = map[string]Role{}
		s.rooms[room] = members
	}
	members[connID] = role
}

// Leave removes a connection's membership in a room. Leaving a room
// never joined is a no-op.
func (s *PresenceService) Leave(connID, room string) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.leaveLocked(connID, room)
}

func (s *PresenceService) leaveLocked(connID, room string) {
	if memberships, ok := s.conns[connID]; ok {
		delete(memberships, room)
		if len(memberships) == 0 {
			delete(s.conns, connID)
		}
	}
	if members, ok := s.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(s.rooms, room)
		}
	}
}

// Disconnect removes a connection from every room it had joined and
// returns the rooms it left. Safe to call for a connection with no
// memberships.
func (s *PresenceService) Disconnect(connID string) []string {
	s.mut.Lock()
	defer s.mut.Unlock()

	rooms := []string{}
	for room := range s.conns[connID] {
		rooms = append(rooms, room)
	}
	for _, room := range rooms {
		s.leaveLocked(connID, room)
	}
	return rooms
}

// Rooms gets the rooms a connection is currently a member of
func (s *PresenceService) Rooms(connID string) []string {
	s.mut.Lock()
	defer s.mut.Unlock()

	rooms := []string{}
	for room := range s.conns[connID] {
		rooms = append(rooms, room)
	}
	return rooms
}

// ActiveRooms gets the rooms that currently have at least one connected
// customer. Derived from live membership only, never from history.
func (s *PresenceService) ActiveRooms() []string {
	s.mut.Lock()
	defer s.mut.Unlock()

	active := []string{}
	for room, members := range s.rooms {
		for _, role := range members {
			if role == RoleCustomer {
				active = append(active, room)
				break
			}
		}
	}
	return active
}
