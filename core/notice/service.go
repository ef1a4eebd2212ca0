package notice

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = core.NewNotFoundError(errors.New("Notice not found"))
)

type (
	Repository interface {
		CreateNotice(ctx context.Context, n Notice, exec ...core.DBExecutor) (Notice, error)
		// QueryNotices returns the newest matching notices first.
		QueryNotices(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Notice, error)
		DeleteNotice(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFor returns the published, unexpired notices the viewer may read.
func (svc *Service) ListFor(ctx context.Context, viewer user.User) ([]Notice, error) {
	return svc.repo.QueryNotices(ctx, QueryFilter{
		Audiences: AudiencesFor(viewer.Role),
		Now:       NowFunc().UTC(),
	})
}

func (svc *Service) Create(ctx context.Context, nn NewNotice, publisherID string) (Notice, error) {
	published := true
	if nn.IsPublished != nil {
		published = *nn.IsPublished
	}
	n := Notice{
		Title:          nn.Title,
		Content:        nn.Content,
		TargetAudience: nn.TargetAudience,
		Priority:       nn.Priority,
		IsPublished:    published,
		PublishedBy:    core.NullString(publisherID),
		CreatedAt:      NowFunc().UTC(),
	}
	if nn.ExpiresAt != nil {
		exp := nn.ExpiresAt.UTC()
		n.ExpiresAt = &exp
	}
	return svc.repo.CreateNotice(ctx, n)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteNotice(ctx, id)
}
