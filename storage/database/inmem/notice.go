package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/notice"
)

type noticeRepository struct {
	db *table[notice.Notice]
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *DB) *noticeRepository {
	return &noticeRepository{db: db.notices}
}

func (repo *noticeRepository) CreateNotice(_ context.Context, n notice.Notice, _ ...core.DBExecutor) (notice.Notice, error) {
	n.ID = newID()
	repo.db.put(n.ID, n)
	return n, nil
}

func (repo *noticeRepository) QueryNotices(_ context.Context, filter notice.QueryFilter, _ ...core.DBExecutor) ([]notice.Notice, error) {
	return repo.db.filter(filter.Matches, func(a, b notice.Notice) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *noticeRepository) DeleteNotice(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.db.delete(id) {
		return notice.ErrNotFound
	}
	return nil
}
