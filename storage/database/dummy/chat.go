package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chat"
)

type chatRepository struct {
	db *chatTable
}

var _ chat.Repository = (*chatRepository)(nil) // interface compliance check

func NewChatRepository(db *DB) chat.Repository {
	return &chatRepository{db: db.chat}
}

func (repo *chatRepository) CreateMessage(_ context.Context, _ core.DBExecutor, msg chat.ChatMessage) (chat.ChatMessage, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	msg.ID = repo.db.seq
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *chatRepository) QueryConversation(_ context.Context, _ core.DBExecutor, userID1, userID2 int) ([]chat.ChatMessage, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]chat.ChatMessage, 0)
	for _, msg := range repo.db.table {
		if (msg.SenderID == userID1 && msg.ReceiverID == userID2) ||
			(msg.SenderID == userID2 && msg.ReceiverID == userID1) {
			msgs = append(msgs, *msg)
		}
	}
	// oldest first
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}
