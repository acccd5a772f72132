package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/social"
)

type socialRepository struct{}

var _ social.Repository = (*socialRepository)(nil)

func NewSocialRepository() *socialRepository {
	return &socialRepository{}
}

func (repo socialRepository) CreateStatusUpdate(ctx context.Context, exec core.DBExecutor, su social.StatusUpdate) (social.StatusUpdate, error) {
	q := `
INSERT INTO status_update (author_id, text, created_at)
VALUES ($1, $2, $3)
RETURNING id`
	err := exec.QueryRowContext(ctx, q, su.AuthorID, su.Text, su.CreatedAt).Scan(&su.ID)
	return su, errors.Wrap(err, "creating status update")
}

func (repo socialRepository) QueryStatusUpdates(ctx context.Context, exec core.DBExecutor, authorUsername string, limit, offset int) ([]social.StatusUpdate, error) {
	q := `
SELECT su.id, su.author_id, u.username AS author, su.text, su.created_at
FROM status_update su
JOIN "user" u ON u.id = su.author_id`
	args := []interface{}{limit, offset}
	if authorUsername != "" {
		q += ` WHERE u.username = $3`
		args = append(args, authorUsername)
	}
	q += ` ORDER BY su.created_at DESC, su.id DESC LIMIT $1 OFFSET $2`
	var sus []social.StatusUpdate
	err := queryAll(ctx, exec, &sus, q, args...)
	return sus, err
}
