package chat

import (
	"sync"

	"github.com/google/uuid"
)

const sessionBuffer = 64

// Event is the payload broadcast to every session in a room.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// NewChatEvent builds the broadcast payload for a persisted message.
func NewChatEvent(msg ChatMessage) Event {
	return Event{Type: "chat_message", Message: msg.Message, Sender: msg.Sender}
}

// Session is one live connection's membership in a room.
type Session struct {
	ID   string
	room string
	send chan Event
}

// Receive exposes the session's inbound broadcast stream; it is closed
// when the session leaves (or is evicted from) its room.
func (s *Session) Receive() <-chan Event { return s.send }

// Hub is the in-memory registry of rooms and their live sessions.
// A message broadcast to a room reaches every session currently joined,
// including other sessions of the sender. Safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]bool)}
}

// Join registers a new session in the room and returns its handle.
func (h *Hub) Join(room string) *Session {
	s := &Session{
		ID:   uuid.New().String(),
		room: room,
		send: make(chan Event, sessionBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, ok := h.rooms[room]
	if !ok {
		sessions = make(map[*Session]bool)
		h.rooms[room] = sessions
	}
	sessions[s] = true
	return s
}

// Leave removes the session from its room and closes its stream.
// Idempotent; safe to call after an eviction.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s)
}

func (h *Hub) leaveLocked(s *Session) {
	sessions, ok := h.rooms[s.room]
	if !ok {
		return
	}
	if _, ok = sessions[s]; !ok {
		return
	}
	delete(sessions, s)
	close(s.send)
	if len(sessions) == 0 {
		delete(h.rooms, s.room)
	}
}

// Broadcast delivers the event to every session currently in the room.
// A session whose buffer is full is evicted rather than blocking the room.
func (h *Hub) Broadcast(room string, evt Event) {
	// sends stay under the read lock: Leave closes channels under the write
	// lock only, so no channel can be closed mid-broadcast.
	h.mu.RLock()
	var slow []*Session
	for s := range h.rooms[room] {
		select {
		case s.send <- evt:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()
	if len(slow) > 0 {
		h.mu.Lock()
		for _, s := range slow {
			h.leaveLocked(s)
		}
		h.mu.Unlock()
	}
}

// RoomSize reports the number of live sessions in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
