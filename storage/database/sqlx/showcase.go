package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/showcase"
)

const (
	alumniColumns  = `id, name, graduation_year, profile_image, description, achievement, profession, is_visible, created_at`
	teacherColumns = `id, user_id, name, position, department, specialization, subject, qualification, profile_image,
	description, years_of_experience, is_visible, created_at`
)

type showcaseRepository struct {
	base
}

var _ showcase.Repository = (*showcaseRepository)(nil) // interface compliance check

func NewShowcaseRepository(db *sqlx.DB) *showcaseRepository {
	return &showcaseRepository{base{db: db}}
}

func (repo showcaseRepository) CreateAlumni(ctx context.Context, a showcase.Alumni, exec ...core.DBExecutor) (showcase.Alumni, error) {
	a.ID = uuid.New().String()
	q := `INSERT INTO alumni (` + alumniColumns + `)
		VALUES (:id, :name, :graduation_year, :profile_image, :description, :achievement, :profession, :is_visible, :created_at)
		RETURNING ` + alumniColumns

	var created showcase.Alumni
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, a); err != nil {
		return showcase.Alumni{}, errors.Wrap(err, "inserting alumni")
	}
	return created, nil
}

func (repo showcaseRepository) GetAlumni(ctx context.Context, id string, exec ...core.DBExecutor) (showcase.Alumni, error) {
	var a showcase.Alumni
	err := sqlx.GetContext(ctx, repo.getExec(exec), &a, `SELECT `+alumniColumns+` FROM alumni WHERE id = $1`, id)
	if err != nil {
		return showcase.Alumni{}, trapNotFound(err, showcase.ErrAlumniNotFound, "finding alumni")
	}
	return a, nil
}

func (repo showcaseRepository) QueryAlumni(ctx context.Context, visibleOnly bool, exec ...core.DBExecutor) ([]showcase.Alumni, error) {
	alumni := make([]showcase.Alumni, 0)
	q := `SELECT ` + alumniColumns + ` FROM alumni WHERE (NOT $1 OR is_visible) ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &alumni, q, visibleOnly); err != nil {
		return nil, errors.Wrap(err, "querying alumni")
	}
	return alumni, nil
}

func (repo showcaseRepository) UpdateAlumni(ctx context.Context, a showcase.Alumni, exec ...core.DBExecutor) (showcase.Alumni, error) {
	q := `UPDATE alumni SET
			name = :name, graduation_year = :graduation_year, profile_image = :profile_image, description = :description,
			achievement = :achievement, profession = :profession, is_visible = :is_visible
		WHERE id = :id
		RETURNING ` + alumniColumns

	var updated showcase.Alumni
	if err := repo.namedGet(ctx, repo.getExec(exec), &updated, q, a); err != nil {
		return showcase.Alumni{}, trapNotFound(err, showcase.ErrAlumniNotFound, "updating alumni")
	}
	return updated, nil
}

func (repo showcaseRepository) DeleteAlumni(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "alumni", id, showcase.ErrAlumniNotFound)
}

func (repo showcaseRepository) CreateTeacher(ctx context.Context, t showcase.FeaturedTeacher, exec ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	t.ID = uuid.New().String()
	q := `INSERT INTO featured_teachers (` + teacherColumns + `)
		VALUES (:id, :user_id, :name, :position, :department, :specialization, :subject, :qualification, :profile_image,
			:description, :years_of_experience, :is_visible, :created_at)
		RETURNING ` + teacherColumns

	var created showcase.FeaturedTeacher
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, t); err != nil {
		return showcase.FeaturedTeacher{}, trapFKErr(err, map[string]string{"featured_teachers_user_id_fkey": "userId"}, "inserting featured teacher")
	}
	return created, nil
}

func (repo showcaseRepository) GetTeacher(ctx context.Context, id string, exec ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	var t showcase.FeaturedTeacher
	err := sqlx.GetContext(ctx, repo.getExec(exec), &t, `SELECT `+teacherColumns+` FROM featured_teachers WHERE id = $1`, id)
	if err != nil {
		return showcase.FeaturedTeacher{}, trapNotFound(err, showcase.ErrTeacherNotFound, "finding featured teacher")
	}
	return t, nil
}

func (repo showcaseRepository) QueryTeachers(ctx context.Context, visibleOnly bool, exec ...core.DBExecutor) ([]showcase.FeaturedTeacher, error) {
	teachers := make([]showcase.FeaturedTeacher, 0)
	q := `SELECT ` + teacherColumns + ` FROM featured_teachers WHERE (NOT $1 OR is_visible) ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &teachers, q, visibleOnly); err != nil {
		return nil, errors.Wrap(err, "querying featured teachers")
	}
	return teachers, nil
}

func (repo showcaseRepository) UpdateTeacher(ctx context.Context, t showcase.FeaturedTeacher, exec ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	q := `UPDATE featured_teachers SET
			user_id = :user_id, name = :name, position = :position, department = :department,
			specialization = :specialization, subject = :subject, qualification = :qualification,
			profile_image = :profile_image, description = :description, years_of_experience = :years_of_experience,
			is_visible = :is_visible
		WHERE id = :id
		RETURNING ` + teacherColumns

	var updated showcase.FeaturedTeacher
	if err := repo.namedGet(ctx, repo.getExec(exec), &updated, q, t); err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return showcase.FeaturedTeacher{}, trapFKErr(err, map[string]string{"featured_teachers_user_id_fkey": "userId"}, "updating featured teacher")
		}
		return showcase.FeaturedTeacher{}, trapNotFound(err, showcase.ErrTeacherNotFound, "updating featured teacher")
	}
	return updated, nil
}

func (repo showcaseRepository) DeleteTeacher(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "featured_teachers", id, showcase.ErrTeacherNotFound)
}
