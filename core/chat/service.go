package chat

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type (
	Repository interface {
		CreateMessage(ctx context.Context, exec core.DBExecutor, msg ChatMessage) (ChatMessage, error)
		// QueryConversation returns all messages exchanged between the two
		// users (either direction), ordered by timestamp ascending.
		QueryConversation(ctx context.Context, exec core.DBExecutor, userID1, userID2 int) ([]ChatMessage, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Save persists a message before it may be broadcast; a failed save means
// the message must not be delivered.
func (svc *Service) Save(ctx context.Context, sender, receiver user.User, text string) (ChatMessage, error) {
	msg := ChatMessage{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Sender:     sender.Username,
		Receiver:   receiver.Username,
		Message:    text,
		Timestamp:  time.Now().UTC(),
	}
	return svc.repo.CreateMessage(ctx, svc.db, msg)
}

// History returns the conversation between the two users, oldest first.
// Symmetric: History(a, b) and History(b, a) return the same rows.
func (svc *Service) History(ctx context.Context, usr1, usr2 user.User) ([]ChatMessage, error) {
	return svc.repo.QueryConversation(ctx, svc.db, usr1.ID, usr2.ID)
}
