package showcase

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrAlumniNotFound  = core.NewNotFoundError(errors.New("Alumni not found"))
	ErrTeacherNotFound = core.NewNotFoundError(errors.New("Featured teacher not found"))
)

type (
	Repository interface {
		CreateAlumni(ctx context.Context, a Alumni, exec ...core.DBExecutor) (Alumni, error)
		GetAlumni(ctx context.Context, id string, exec ...core.DBExecutor) (Alumni, error)
		// QueryAlumni returns the newest rows first.
		QueryAlumni(ctx context.Context, visibleOnly bool, exec ...core.DBExecutor) ([]Alumni, error)
		UpdateAlumni(ctx context.Context, a Alumni, exec ...core.DBExecutor) (Alumni, error)
		DeleteAlumni(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateTeacher(ctx context.Context, t FeaturedTeacher, exec ...core.DBExecutor) (FeaturedTeacher, error)
		GetTeacher(ctx context.Context, id string, exec ...core.DBExecutor) (FeaturedTeacher, error)
		// QueryTeachers returns the newest rows first.
		QueryTeachers(ctx context.Context, visibleOnly bool, exec ...core.DBExecutor) ([]FeaturedTeacher, error)
		UpdateTeacher(ctx context.Context, t FeaturedTeacher, exec ...core.DBExecutor) (FeaturedTeacher, error)
		DeleteTeacher(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ListAlumni(ctx context.Context, all bool) ([]Alumni, error) {
	return svc.repo.QueryAlumni(ctx, !all)
}

func (svc *Service) CreateAlumni(ctx context.Context, in AlumniInput) (Alumni, error) {
	a := Alumni{IsVisible: true, CreatedAt: NowFunc().UTC()}
	in.apply(&a)
	return svc.repo.CreateAlumni(ctx, a)
}

func (svc *Service) UpdateAlumni(ctx context.Context, id string, in AlumniInput) (Alumni, error) {
	a, err := svc.repo.GetAlumni(ctx, id)
	if err != nil {
		return Alumni{}, err
	}
	in.apply(&a)
	return svc.repo.UpdateAlumni(ctx, a)
}

func (svc *Service) DeleteAlumni(ctx context.Context, id string) error {
	return svc.repo.DeleteAlumni(ctx, id)
}

func (svc *Service) ListTeachers(ctx context.Context, all bool) ([]FeaturedTeacher, error) {
	return svc.repo.QueryTeachers(ctx, !all)
}

func (svc *Service) CreateTeacher(ctx context.Context, in TeacherInput) (FeaturedTeacher, error) {
	t := FeaturedTeacher{IsVisible: true, CreatedAt: NowFunc().UTC()}
	in.apply(&t)
	return svc.repo.CreateTeacher(ctx, t)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id string, in TeacherInput) (FeaturedTeacher, error) {
	t, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return FeaturedTeacher{}, err
	}
	in.apply(&t)
	return svc.repo.UpdateTeacher(ctx, t)
}

func (svc *Service) DeleteTeacher(ctx context.Context, id string) error {
	return svc.repo.DeleteTeacher(ctx, id)
}
