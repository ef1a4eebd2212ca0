package academic

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrClassNotFound     = core.NewNotFoundError(errors.New("Class not found"))
	ErrSubjectNotFound   = core.NewNotFoundError(errors.New("Subject not found"))
	ErrTimetableNotFound = core.NewNotFoundError(errors.New("Timetable entry not found"))
	ErrResultNotFound    = core.NewNotFoundError(errors.New("Result not found"))
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class, exec ...core.DBExecutor) (Class, error)
		// ListClasses orders by name.
		ListClasses(ctx context.Context, exec ...core.DBExecutor) ([]Class, error)

		CreateSubject(ctx context.Context, s Subject, exec ...core.DBExecutor) (Subject, error)
		// QuerySubjects orders by name.
		QuerySubjects(ctx context.Context, filter SubjectFilter, exec ...core.DBExecutor) ([]Subject, error)

		CreateTimetable(ctx context.Context, t Timetable, exec ...core.DBExecutor) (Timetable, error)
		// QueryTimetables orders by day and start time.
		QueryTimetables(ctx context.Context, filter TimetableFilter, exec ...core.DBExecutor) ([]Timetable, error)
		DeleteTimetable(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateResult(ctx context.Context, r Result, exec ...core.DBExecutor) (Result, error)
		// QueryResults returns the newest results first.
		QueryResults(ctx context.Context, filter ResultFilter, exec ...core.DBExecutor) ([]Result, error)
	}

	// Settings exposes the results release flag.
	Settings interface {
		ResultsReleased(ctx context.Context) (bool, error)
	}

	Service struct {
		repo     Repository
		settings Settings
	}
)

func NewService(repo Repository, settings Settings) *Service {
	return &Service{repo: repo, settings: settings}
}

func (svc *Service) ListClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.ListClasses(ctx)
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	return svc.repo.CreateClass(ctx, Class{
		Name:         nc.Name,
		Level:        nc.Level,
		Department:   core.NullString(nc.Department),
		AcademicYear: nc.AcademicYear,
	})
}

func (svc *Service) ListSubjects(ctx context.Context, filter SubjectFilter) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter)
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	return svc.repo.CreateSubject(ctx, Subject{
		Name:      ns.Name,
		Code:      core.NullString(ns.Code),
		ClassID:   core.NullString(ns.ClassID),
		TeacherID: core.NullString(ns.TeacherID),
	})
}

func (svc *Service) ListTimetables(ctx context.Context, filter TimetableFilter) ([]Timetable, error) {
	return svc.repo.QueryTimetables(ctx, filter)
}

func (svc *Service) CreateTimetable(ctx context.Context, nt NewTimetable) (Timetable, error) {
	return svc.repo.CreateTimetable(ctx, Timetable{
		SubjectID:  core.NullString(nt.SubjectID),
		TeacherID:  core.NullString(nt.TeacherID),
		ClassID:    core.NullString(nt.ClassID),
		DayOfWeek:  nt.DayOfWeek,
		StartTime:  nt.StartTime,
		EndTime:    nt.EndTime,
		Room:       core.NullString(nt.Room),
		ClassLevel: core.NullString(nt.ClassLevel),
	})
}

func (svc *Service) DeleteTimetable(ctx context.Context, id string) error {
	return svc.repo.DeleteTimetable(ctx, id)
}

// EnterResult records a score entry, deriving the total and the grade.
func (svc *Service) EnterResult(ctx context.Context, nr NewResult, enteredBy string) (Result, error) {
	total := *nr.TestScore + *nr.ExamScore
	return svc.repo.CreateResult(ctx, Result{
		StudentID:    nr.StudentID,
		SubjectID:    nr.SubjectID,
		ClassID:      core.NullString(nr.ClassID),
		AcademicYear: nr.AcademicYear,
		Term:         nr.Term,
		TestScore:    *nr.TestScore,
		ExamScore:    *nr.ExamScore,
		TotalScore:   total,
		Grade:        Grade(total),
		Remarks:      core.NullString(nr.Remarks),
		EnteredBy:    core.NullString(enteredBy),
		CreatedAt:    NowFunc().UTC(),
	})
}

// ResultsFor returns the results the viewer may see.
// Students only get their own rows, and none at all until results are released.
func (svc *Service) ResultsFor(ctx context.Context, viewer user.User, filter ResultFilter) ([]Result, error) {
	if viewer.Role == user.RoleStudent || !viewer.Role.Valid() {
		released, err := svc.settings.ResultsReleased(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "reading results release flag")
		}
		if !released {
			return []Result{}, nil
		}
		filter.StudentID = viewer.ID
	}
	return svc.repo.QueryResults(ctx, filter)
}
