package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/notification"
)

type notificationRepository struct{}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, exec core.DBExecutor, n notification.Notification) (notification.Notification, error) {
	q := `
INSERT INTO notification (recipient_id, type, payload, is_read, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, n.RecipientID, n.Type, n.Payload, n.IsRead, n.CreatedAt).Scan(&n.ID)
	return n, errors.Wrap(err, "creating notification")
}

func (repo notificationRepository) BulkCreateNotifications(ctx context.Context, exec core.DBExecutor, ns []notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	values := make([]string, 0, len(ns))
	args := make([]interface{}, 0, len(ns)*5)
	for i, n := range ns {
		base := i * 5
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, n.RecipientID, n.Type, n.Payload, n.IsRead, n.CreatedAt)
	}
	q := `INSERT INTO notification (recipient_id, type, payload, is_read, created_at) VALUES ` + strings.Join(values, ", ")
	_, err := exec.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "bulk creating notifications")
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, exec core.DBExecutor, recipientID int, unreadOnly bool, limit, offset int) ([]notification.Notification, error) {
	q := `SELECT id, recipient_id, type, payload, is_read, created_at FROM notification WHERE recipient_id = $1`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`

	var ns []notification.Notification
	err := queryAll(ctx, exec, &ns, q, recipientID, limit, offset)
	return ns, err
}

func (repo notificationRepository) MarkAllRead(ctx context.Context, exec core.DBExecutor, recipientID int) (int, error) {
	res, err := exec.ExecContext(ctx, `UPDATE notification SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, errors.Wrap(err, "marking notifications read")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "marking notifications read")
}
