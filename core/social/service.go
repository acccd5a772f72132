package social

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type (
	Repository interface {
		CreateStatusUpdate(ctx context.Context, exec core.DBExecutor, su StatusUpdate) (StatusUpdate, error)
		// QueryStatusUpdates returns status updates, newest first; authorUsername
		// filters to a single author when non-empty.
		QueryStatusUpdates(ctx context.Context, exec core.DBExecutor, authorUsername string, limit, offset int) ([]StatusUpdate, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) Create(ctx context.Context, author user.User, ns NewStatusUpdate) (StatusUpdate, error) {
	if err := ns.Validate(); err != nil {
		return StatusUpdate{}, err
	}
	su := StatusUpdate{
		AuthorID:  author.ID,
		Author:    author.Username,
		Text:      ns.Text,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateStatusUpdate(ctx, svc.db, su)
}

func (svc *Service) Query(ctx context.Context, authorUsername string, limit, offset int) ([]StatusUpdate, error) {
	return svc.repo.QueryStatusUpdates(ctx, svc.db, core.CleanString(authorUsername, true /* lower */), limit, offset)
}
