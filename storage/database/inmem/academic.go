package inmemdb

import (
	"context"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
)

var weekdays = map[string]int{
	"Monday": 1, "Tuesday": 2, "Wednesday": 3, "Thursday": 4, "Friday": 5, "Saturday": 6, "Sunday": 7,
}

type academicRepository struct {
	classes    *table[academic.Class]
	subjects   *table[academic.Subject]
	timetables *table[academic.Timetable]
	results    *table[academic.Result]
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) *academicRepository {
	return &academicRepository{
		classes:    db.classes,
		subjects:   db.subjects,
		timetables: db.timetables,
		results:    db.results,
	}
}

func strEq(p *string, s string) bool { return p != nil && *p == s }

func (repo *academicRepository) CreateClass(_ context.Context, c academic.Class, _ ...core.DBExecutor) (academic.Class, error) {
	c.ID = newID()
	repo.classes.put(c.ID, c)
	return c, nil
}

func (repo *academicRepository) ListClasses(_ context.Context, _ ...core.DBExecutor) ([]academic.Class, error) {
	return repo.classes.filter(nil, func(a, b academic.Class) bool { return a.Name < b.Name }), nil
}

func (repo *academicRepository) CreateSubject(_ context.Context, s academic.Subject, _ ...core.DBExecutor) (academic.Subject, error) {
	s.ID = newID()
	repo.subjects.put(s.ID, s)
	return s, nil
}

func (repo *academicRepository) QuerySubjects(_ context.Context, filter academic.SubjectFilter, _ ...core.DBExecutor) ([]academic.Subject, error) {
	keep := func(s academic.Subject) bool {
		return (filter.TeacherID == "" || strEq(s.TeacherID, filter.TeacherID)) &&
			(filter.ClassID == "" || strEq(s.ClassID, filter.ClassID))
	}
	return repo.subjects.filter(keep, func(a, b academic.Subject) bool { return a.Name < b.Name }), nil
}

func (repo *academicRepository) CreateTimetable(_ context.Context, t academic.Timetable, _ ...core.DBExecutor) (academic.Timetable, error) {
	t.ID = newID()
	repo.timetables.put(t.ID, t)
	return t, nil
}

func (repo *academicRepository) QueryTimetables(_ context.Context, filter academic.TimetableFilter, _ ...core.DBExecutor) ([]academic.Timetable, error) {
	keep := func(t academic.Timetable) bool {
		return (filter.TeacherID == "" || strEq(t.TeacherID, filter.TeacherID)) &&
			(filter.ClassLevel == "" || strEq(t.ClassLevel, filter.ClassLevel))
	}
	less := func(a, b academic.Timetable) bool {
		if weekdays[a.DayOfWeek] != weekdays[b.DayOfWeek] {
			return weekdays[a.DayOfWeek] < weekdays[b.DayOfWeek]
		}
		return a.StartTime < b.StartTime
	}
	return repo.timetables.filter(keep, less), nil
}

func (repo *academicRepository) DeleteTimetable(_ context.Context, id string, _ ...core.DBExecutor) error {
	if !repo.timetables.delete(id) {
		return academic.ErrTimetableNotFound
	}
	return nil
}

func (repo *academicRepository) CreateResult(_ context.Context, r academic.Result, _ ...core.DBExecutor) (academic.Result, error) {
	if _, ok := repo.subjects.get(r.SubjectID); !ok {
		return academic.Result{}, core.NewValidationError(academic.ErrSubjectNotFound,
			core.FieldError{Field: "subjectId", Error: "subjectId does not reference an existing record"})
	}
	r.ID = newID()
	repo.results.put(r.ID, r)
	return r, nil
}

func (repo *academicRepository) QueryResults(_ context.Context, filter academic.ResultFilter, _ ...core.DBExecutor) ([]academic.Result, error) {
	keep := func(r academic.Result) bool {
		return (filter.StudentID == "" || r.StudentID == filter.StudentID) &&
			(filter.AcademicYear == "" || r.AcademicYear == filter.AcademicYear) &&
			(filter.Term == "" || r.Term == filter.Term)
	}
	return repo.results.filter(keep, func(a, b academic.Result) bool { return newestFirst(a.CreatedAt, b.CreatedAt) }), nil
}
