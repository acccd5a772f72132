package notification

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, exec core.DBExecutor, n Notification) (Notification, error)
		// BulkCreateNotifications inserts all notifications in a single batched statement.
		BulkCreateNotifications(ctx context.Context, exec core.DBExecutor, ns []Notification) error
		// QueryNotifications returns a recipient's notifications, most recent first.
		QueryNotifications(ctx context.Context, exec core.DBExecutor, recipientID int, unreadOnly bool, limit, offset int) ([]Notification, error)
		// MarkAllRead flips all of a recipient's unread notifications to read
		// in one atomic update and reports the number updated.
		MarkAllRead(ctx context.Context, exec core.DBExecutor, recipientID int) (int, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Unread returns a page of the recipient's unread notifications, most recent first.
func (svc *Service) Unread(ctx context.Context, recipientID, limit, offset int) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, svc.db, recipientID, true /* unreadOnly */, limit, offset)
}

// Query returns a page of all the recipient's notifications, most recent first.
func (svc *Service) Query(ctx context.Context, recipientID, limit, offset int) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, svc.db, recipientID, false, limit, offset)
}

// MarkAllRead marks all of the recipient's unread notifications read and
// returns the count updated. Idempotent: a second call updates 0.
func (svc *Service) MarkAllRead(ctx context.Context, recipientID int) (int, error) {
	return svc.repo.MarkAllRead(ctx, svc.db, recipientID)
}
