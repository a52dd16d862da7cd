package realtime

import (
	"sync"
)

// Hub owns the ephemeral realtime state of this process: which socket
// sessions exist, which user each belongs to, and which meeting rooms each
// has joined. Everything here is a cache of live session state; it is rebuilt
// from join/leave traffic after a restart and is never persisted.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]string                 // userID -> sessionID
	rooms        map[string]map[string]*Connection // meetingID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of meetingIDs
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for the given user. A previous session for
// the same user is swapped out and closed, keeping one active socket per user.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.userSessions[conn.UserID]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[conn.ID] = conn
	h.userSessions[conn.UserID] = conn.ID
	h.sessionRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection and all its room memberships.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Join adds the connection to the meeting room. Joining a room twice is a
// no-op, so the operation is idempotent.
func (h *Hub) Join(meetingID string, conn *Connection) {
	h.mu.Lock()
	if _, ok := h.sessions[conn.ID]; !ok {
		h.mu.Unlock()
		return
	}

	room := h.rooms[meetingID]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[meetingID] = room
	}
	room[conn.ID] = conn

	memberships := h.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.sessionRooms[conn.ID] = memberships
	}
	memberships[meetingID] = struct{}{}
	h.mu.Unlock()
}

// Leave removes the connection from the meeting room. Leaving a room the
// connection never joined is a no-op.
func (h *Hub) Leave(meetingID string, conn *Connection) {
	h.mu.Lock()
	h.leaveLocked(meetingID, conn.ID)
	h.mu.Unlock()
}

// Rooms returns the meeting IDs the connection currently belongs to.
func (h *Hub) Rooms(conn *Connection) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	memberships := h.sessionRooms[conn.ID]
	out := make([]string, 0, len(memberships))
	for id := range memberships {
		out = append(out, id)
	}
	return out
}

// Broadcast writes payload to all members of the meeting room and returns the
// delivered count. excludeUserID, when non-empty, skips that user's
// connection (used to avoid echoing transcript lines back to their author).
func (h *Hub) Broadcast(meetingID string, payload []byte, excludeUserID string) int {
	h.mu.RLock()
	room := h.rooms[meetingID]
	if len(room) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to the current connection of the given user,
// whether or not they have joined any room. Used for targeted events such as
// meeting start invitations.
func (h *Hub) NotifyUser(userID string, payload []byte) bool {
	h.mu.RLock()
	sessionID, ok := h.userSessions[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	conn := h.sessions[sessionID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.userSessions = make(map[string]string)
	h.rooms = make(map[string]map[string]*Connection)
	h.sessionRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.userSessions[conn.UserID]; ok && current == sessionID {
		delete(h.userSessions, conn.UserID)
	}

	for roomID := range h.sessionRooms[sessionID] {
		h.leaveLocked(roomID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(meetingID string, sessionID string) {
	if sessionID == "" {
		return
	}
	room := h.rooms[meetingID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, meetingID)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, meetingID)
		if len(memberships) == 0 {
			delete(h.sessionRooms, sessionID)
		}
	}
}
