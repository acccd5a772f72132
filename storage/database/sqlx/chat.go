package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chat"
)

type chatRepository struct{}

var _ chat.Repository = (*chatRepository)(nil)

func NewChatRepository() *chatRepository {
	return &chatRepository{}
}

func (repo chatRepository) CreateMessage(ctx context.Context, exec core.DBExecutor, msg chat.ChatMessage) (chat.ChatMessage, error) {
	q := `
INSERT INTO chat_message (sender_id, receiver_id, message, timestamp)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, msg.SenderID, msg.ReceiverID, msg.Message, msg.Timestamp).Scan(&msg.ID)
	return msg, errors.Wrap(err, "creating chat message")
}

func (repo chatRepository) QueryConversation(ctx context.Context, exec core.DBExecutor, userID1, userID2 int) ([]chat.ChatMessage, error) {
	q := `
SELECT cm.id, cm.sender_id, cm.receiver_id, s.username AS sender, r.username AS receiver, cm.message, cm.timestamp
FROM chat_message cm
JOIN "user" s ON s.id = cm.sender_id
JOIN "user" r ON r.id = cm.receiver_id
WHERE (cm.sender_id = $1 AND cm.receiver_id = $2) OR (cm.sender_id = $2 AND cm.receiver_id = $1)
ORDER BY cm.timestamp, cm.id`
	var msgs []chat.ChatMessage
	err := queryAll(ctx, exec, &msgs, q, userID1, userID2)
	return msgs, err
}
