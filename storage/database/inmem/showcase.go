package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/showcase"
)

type showcaseRepository struct {
	alumni   *table[showcase.Alumni]
	teachers *table[showcase.FeaturedTeacher]
}

var _ showcase.Repository = (*showcaseRepository)(nil) // interface compliance check

func NewShowcaseRepository(db *DB) *showcaseRepository {
	return &showcaseRepository{alumni: db.alumni, teachers: db.teachers}
}

func (repo *showcaseRepository) CreateAlumni(_ context.Context, a showcase.Alumni, _ ...core.DBExecutor) (showcase.Alumni, error) {
	a.ID = newID()
	repo.alumni.put(a.ID, a)
	return a, nil
}

func (repo *showcaseRepository) GetAlumni(_ context.Context, id string, _ ...core.DBExecutor) (showcase.Alumni, error) {
	if a, ok := repo.alumni.get(id); ok {
		return a, nil
	}
	return showcase.Alumni{}, showcase.ErrAlumniNotFound
}

func (repo *showcaseRepository) QueryAlumni(_ context.Context, visibleOnly bool, _ ...core.DBExecutor) ([]showcase.Alumni, error) {
	keep := func(a showcase.Alumni) bool { return !visibleOnly || a.IsVisible }
	return repo.alumni.filter(keep, func(a, b showcase.Alumni) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *showcaseRepository) UpdateAlumni(_ context.Context, a showcase.Alumni, _ ...core.DBExecutor) (showcase.Alumni, error) {
	if !repo.alumni.update(a.ID, a) {
		return showcase.Alumni{}, showcase.ErrAlumniNotFound
	}
	return a, nil
}

func (repo *showcaseRepository) DeleteAlumni(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.alumni.delete(id) {
		return showcase.ErrAlumniNotFound
	}
	return nil
}

func (repo *showcaseRepository) CreateTeacher(_ context.Context, t showcase.FeaturedTeacher, _ ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	t.ID = newID()
	repo.teachers.put(t.ID, t)
	return t, nil
}

func (repo *showcaseRepository) GetTeacher(_ context.Context, id string, _ ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	if t, ok := repo.teachers.get(id); ok {
		return t, nil
	}
	return showcase.FeaturedTeacher{}, showcase.ErrTeacherNotFound
}

func (repo *showcaseRepository) QueryTeachers(_ context.Context, visibleOnly bool, _ ...core.DBExecutor) ([]showcase.FeaturedTeacher, error) {
	keep := func(t showcase.FeaturedTeacher) bool { return !visibleOnly || t.IsVisible }
	return repo.teachers.filter(keep, func(a, b showcase.FeaturedTeacher) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}

func (repo *showcaseRepository) UpdateTeacher(_ context.Context, t showcase.FeaturedTeacher, _ ...core.DBExecutor) (showcase.FeaturedTeacher, error) {
	if !repo.teachers.update(t.ID, t) {
		return showcase.FeaturedTeacher{}, showcase.ErrTeacherNotFound
	}
	return t, nil
}

func (repo *showcaseRepository) DeleteTeacher(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.teachers.delete(id) {
		return showcase.ErrTeacherNotFound
	}
	return nil
}
