package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/social"
)

type socialRepository struct {
	db *socialTable
}

var _ social.Repository = (*socialRepository)(nil) // interface compliance check

func NewSocialRepository(db *DB) social.Repository {
	return &socialRepository{db: db.social}
}

func (repo *socialRepository) CreateStatusUpdate(_ context.Context, _ core.DBExecutor, su social.StatusUpdate) (social.StatusUpdate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	su.ID = repo.db.seq
	repo.db.table[su.ID] = &su
	return su, nil
}

func (repo *socialRepository) QueryStatusUpdates(_ context.Context, _ core.DBExecutor, authorUsername string, limit, offset int) ([]social.StatusUpdate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sus := make([]social.StatusUpdate, 0)
	for _, su := range repo.db.table {
		if authorUsername != "" && su.Author != authorUsername {
			continue
		}
		sus = append(sus, *su)
	}
	// newest first
	sort.Slice(sus, func(i, j int) bool {
		if sus[i].CreatedAt.Equal(sus[j].CreatedAt) {
			return sus[i].ID > sus[j].ID
		}
		return sus[i].CreatedAt.After(sus[j].CreatedAt)
	})

	if offset >= len(sus) {
		return []social.StatusUpdate{}, nil
	}
	sus = sus[offset:]
	if limit > 0 && limit < len(sus) {
		sus = sus[:limit]
	}
	return sus, nil
}
