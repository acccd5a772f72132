package chat

import (
	"sort"
	"time"
)

type ChatMessage struct {
	ID         int       `db:"id" json:"-"`
	SenderID   int       `db:"sender_id" json:"-"`
	ReceiverID int       `db:"receiver_id" json:"-"`
	Sender     string    `db:"sender" json:"sender"`     // username
	Receiver   string    `db:"receiver" json:"receiver"` // username
	Message    string    `db:"message" json:"message"`   // immutable after creation
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// RoomKey derives the broadcast group key for a pair of usernames.
// Commutative: RoomKey(a, b) == RoomKey(b, a), so both participants
// join the same group no matter who connects first.
func RoomKey(username1, username2 string) string {
	users := []string{username1, username2}
	sort.Strings(users)
	return "chat_" + users[0] + "_" + users[1]
}
