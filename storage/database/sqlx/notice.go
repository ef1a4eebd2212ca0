package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/notice"
)

const noticeColumns = `id, title, content, target_audience, priority, is_published, published_by, created_at, expires_at`

type noticeRepository struct {
	base
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *sqlx.DB) *noticeRepository {
	return &noticeRepository{base{db: db}}
}

func (repo noticeRepository) CreateNotice(ctx context.Context, n notice.Notice, exec ...core.DBExecutor) (notice.Notice, error) {
	n.ID = uuid.New().String()
	q := `INSERT INTO notices (` + noticeColumns + `)
		VALUES (:id, :title, :content, :target_audience, :priority, :is_published, :published_by, :created_at, :expires_at)
		RETURNING ` + noticeColumns

	var created notice.Notice
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, n); err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return created, nil
}

func (repo noticeRepository) QueryNotices(ctx context.Context, filter notice.QueryFilter, exec ...core.DBExecutor) ([]notice.Notice, error) {
	audiences := make([]string, 0, len(filter.Audiences))
	for _, a := range filter.Audiences {
		audiences = append(audiences, string(a))
	}
	q := `SELECT ` + noticeColumns + ` FROM notices
		WHERE is_published AND target_audience = ANY($1) AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC`

	notices := make([]notice.Notice, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &notices, q, pq.Array(audiences), filter.Now.UTC()); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	return notices, nil
}

func (repo noticeRepository) DeleteNotice(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "notices", id, notice.ErrNotFound)
}
