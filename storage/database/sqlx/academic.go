package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
)

const (
	classColumns     = `id, name, level, department, academic_year`
	subjectColumns   = `id, name, code, class_id, teacher_id`
	timetableColumns = `id, subject_id, teacher_id, class_id, day_of_week, start_time, end_time, room, class_level`
	resultColumns    = `id, student_id, subject_id, class_id, academic_year, term, test_score, exam_score, total_score,
	grade, remarks, entered_by, created_at`
)

var (
	subjectFKFields = map[string]string{
		"subjects_class_id_fkey":   "classId",
		"subjects_teacher_id_fkey": "teacherId",
	}
	timetableFKFields = map[string]string{
		"timetables_subject_id_fkey": "subjectId",
		"timetables_teacher_id_fkey": "teacherId",
		"timetables_class_id_fkey":   "classId",
	}
	resultFKFields = map[string]string{
		"results_student_id_fkey": "studentId",
		"results_subject_id_fkey": "subjectId",
		"results_class_id_fkey":   "classId",
	}
)

type academicRepository struct {
	base
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *sqlx.DB) *academicRepository {
	return &academicRepository{base{db: db}}
}

func (repo academicRepository) CreateClass(ctx context.Context, c academic.Class, exec ...core.DBExecutor) (academic.Class, error) {
	c.ID = uuid.New().String()
	q := `INSERT INTO classes (` + classColumns + `) VALUES (:id, :name, :level, :department, :academic_year)
		RETURNING ` + classColumns

	var created academic.Class
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, c); err != nil {
		return academic.Class{}, errors.Wrap(err, "inserting class")
	}
	return created, nil
}

func (repo academicRepository) ListClasses(ctx context.Context, exec ...core.DBExecutor) ([]academic.Class, error) {
	classes := make([]academic.Class, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &classes, `SELECT `+classColumns+` FROM classes ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (repo academicRepository) CreateSubject(ctx context.Context, s academic.Subject, exec ...core.DBExecutor) (academic.Subject, error) {
	s.ID = uuid.New().String()
	q := `INSERT INTO subjects (` + subjectColumns + `) VALUES (:id, :name, :code, :class_id, :teacher_id)
		RETURNING ` + subjectColumns

	var created academic.Subject
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, s); err != nil {
		return academic.Subject{}, trapFKErr(err, subjectFKFields, "inserting subject")
	}
	return created, nil
}

func (repo academicRepository) QuerySubjects(ctx context.Context, filter academic.SubjectFilter, exec ...core.DBExecutor) ([]academic.Subject, error) {
	q := `SELECT ` + subjectColumns + ` FROM subjects
		WHERE ($1 = '' OR teacher_id::text = $1) AND ($2 = '' OR class_id::text = $2)
		ORDER BY name`

	subjects := make([]academic.Subject, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &subjects, q, filter.TeacherID, filter.ClassID); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return subjects, nil
}

func (repo academicRepository) CreateTimetable(ctx context.Context, t academic.Timetable, exec ...core.DBExecutor) (academic.Timetable, error) {
	t.ID = uuid.New().String()
	q := `INSERT INTO timetables (` + timetableColumns + `)
		VALUES (:id, :subject_id, :teacher_id, :class_id, :day_of_week, :start_time, :end_time, :room, :class_level)
		RETURNING ` + timetableColumns

	var created academic.Timetable
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, t); err != nil {
		return academic.Timetable{}, trapFKErr(err, timetableFKFields, "inserting timetable")
	}
	return created, nil
}

func (repo academicRepository) QueryTimetables(ctx context.Context, filter academic.TimetableFilter, exec ...core.DBExecutor) ([]academic.Timetable, error) {
	q := `SELECT ` + timetableColumns + ` FROM timetables
		WHERE ($1 = '' OR teacher_id::text = $1) AND ($2 = '' OR class_level = $2)
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day_of_week),
			start_time`

	timetables := make([]academic.Timetable, 0)
	if err := sqlx.SelectContext(ctx, repo.getExec(exec), &timetables, q, filter.TeacherID, filter.ClassLevel); err != nil {
		return nil, errors.Wrap(err, "querying timetables")
	}
	return timetables, nil
}

func (repo academicRepository) DeleteTimetable(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return deleteByID(ctx, repo.getExec(exec), "timetables", id, academic.ErrTimetableNotFound)
}

func (repo academicRepository) CreateResult(ctx context.Context, r academic.Result, exec ...core.DBExecutor) (academic.Result, error) {
	r.ID = uuid.New().String()
	q := `INSERT INTO results (` + resultColumns + `)
		VALUES (:id, :student_id, :subject_id, :class_id, :academic_year, :term, :test_score, :exam_score, :total_score,
			:grade, :remarks, :entered_by, :created_at)
		RETURNING ` + resultColumns

	var created academic.Result
	if err := repo.namedGet(ctx, repo.getExec(exec), &created, q, r); err != nil {
		return academic.Result{}, trapFKErr(err, resultFKFields, "inserting result")
	}
	return created, nil
}

func (repo academicRepository) QueryResults(ctx context.Context, filter academic.ResultFilter, exec ...core.DBExecutor) ([]academic.Result, error) {
	q := `SELECT ` + resultColumns + ` FROM results
		WHERE ($1 = '' OR student_id::text = $1) AND ($2 = '' OR academic_year = $2) AND ($3 = '' OR term = $3)
		ORDER BY created_at DESC`

	results := make([]academic.Result, 0)
	err := sqlx.SelectContext(ctx, repo.getExec(exec), &results, q, filter.StudentID, filter.AcademicYear, string(filter.Term))
	if err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return results, nil
}
