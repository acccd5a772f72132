package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) create(n notification.Notification) notification.Notification {
	repo.db.seq++
	n.ID = repo.db.seq
	repo.db.table[n.ID] = &n
	return n
}

func (repo *notificationRepository) CreateNotification(_ context.Context, _ core.DBExecutor, n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.create(n), nil
}

func (repo *notificationRepository) BulkCreateNotifications(_ context.Context, _ core.DBExecutor, ns []notification.Notification) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, n := range ns {
		repo.create(n)
	}
	return nil
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, _ core.DBExecutor, recipientID int, unreadOnly bool, limit, offset int) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ns := make([]notification.Notification, 0)
	for _, n := range repo.db.table {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		ns = append(ns, *n)
	}
	// most recent first
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].CreatedAt.Equal(ns[j].CreatedAt) {
			return ns[i].ID > ns[j].ID
		}
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})

	if offset >= len(ns) {
		return []notification.Notification{}, nil
	}
	ns = ns[offset:]
	if limit > 0 && limit < len(ns) {
		ns = ns[:limit]
	}
	return ns, nil
}

func (repo *notificationRepository) MarkAllRead(_ context.Context, _ core.DBExecutor, recipientID int) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var updated int
	for _, n := range repo.db.table {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}
