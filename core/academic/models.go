package academic

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

type Term string

// Terms
const (
	TermFirst  Term = "first"
	TermSecond Term = "second"
	TermThird  Term = "third"
	TermAll    Term = "all"
)

func (t Term) Valid() bool {
	switch t {
	case TermFirst, TermSecond, TermThird, TermAll:
		return true
	}
	return false
}

// Score bounds
const (
	MaxTestScore = 40
	MaxExamScore = 60
)

// Grade maps a total score to its letter grade.
func Grade(total int) string {
	switch {
	case total >= 70:
		return "A"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	case total >= 40:
		return "D"
	case total >= 30:
		return "E"
	default:
		return "F"
	}
}

type Class struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Level        string  `json:"level" db:"level"`
	Department   *string `json:"department" db:"department"`
	AcademicYear string  `json:"academicYear" db:"academic_year"`
}

type NewClass struct {
	Name         string `json:"name" validate:"required,max=100"`
	Level        string `json:"level" validate:"required,max=50"`
	Department   string `json:"department"`
	AcademicYear string `json:"academicYear" validate:"required,max=20"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Level = core.CleanString(nc.Level)
	nc.Department = core.CleanString(nc.Department)
	nc.AcademicYear = core.CleanString(nc.AcademicYear)
	return validate.Struct(nc)
}

type Subject struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Code      *string `json:"code" db:"code"`
	ClassID   *string `json:"classId" db:"class_id"`
	TeacherID *string `json:"teacherId" db:"teacher_id"`
}

type NewSubject struct {
	Name      string `json:"name" validate:"required,max=100"`
	Code      string `json:"code" validate:"max=20"`
	ClassID   string `json:"classId" validate:"omitempty,uuid"`
	TeacherID string `json:"teacherId" validate:"omitempty,uuid"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	ns.ClassID = core.CleanString(ns.ClassID)
	ns.TeacherID = core.CleanString(ns.TeacherID)
	return validate.Struct(ns)
}

type Timetable struct {
	ID         string  `json:"id" db:"id"`
	SubjectID  *string `json:"subjectId" db:"subject_id"`
	TeacherID  *string `json:"teacherId" db:"teacher_id"`
	ClassID    *string `json:"classId" db:"class_id"`
	DayOfWeek  string  `json:"dayOfWeek" db:"day_of_week"`
	StartTime  string  `json:"startTime" db:"start_time"`
	EndTime    string  `json:"endTime" db:"end_time"`
	Room       *string `json:"room" db:"room"`
	ClassLevel *string `json:"classLevel" db:"class_level"`
}

type NewTimetable struct {
	SubjectID  string `json:"subjectId" validate:"omitempty,uuid"`
	TeacherID  string `json:"teacherId" validate:"omitempty,uuid"`
	ClassID    string `json:"classId" validate:"omitempty,uuid"`
	DayOfWeek  string `json:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime  string `json:"startTime" validate:"required,hhmm"`
	EndTime    string `json:"endTime" validate:"required,hhmm"`
	Room       string `json:"room"`
	ClassLevel string `json:"classLevel"`
}

func (nt *NewTimetable) Validate(validate *validator.Validate) error {
	nt.SubjectID = core.CleanString(nt.SubjectID)
	nt.TeacherID = core.CleanString(nt.TeacherID)
	nt.ClassID = core.CleanString(nt.ClassID)
	nt.DayOfWeek = capitalize(core.CleanString(nt.DayOfWeek, true))
	nt.StartTime = core.CleanString(nt.StartTime)
	nt.EndTime = core.CleanString(nt.EndTime)
	nt.Room = core.CleanString(nt.Room)
	nt.ClassLevel = core.CleanString(nt.ClassLevel)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	// HH:MM values compare lexically
	if nt.EndTime <= nt.StartTime {
		return core.NewValidationError(nil, core.FieldError{Field: "endTime", Error: "endTime must be after startTime"})
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type TimetableFilter struct {
	TeacherID  string `query:"teacherId"`
	ClassLevel string `query:"classLevel"`
}

type SubjectFilter struct {
	TeacherID string `query:"teacherId"`
	ClassID   string `query:"classId"`
}

type Result struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"studentId" db:"student_id"`
	SubjectID    string    `json:"subjectId" db:"subject_id"`
	ClassID      *string   `json:"classId" db:"class_id"`
	AcademicYear string    `json:"academicYear" db:"academic_year"`
	Term         Term      `json:"term" db:"term"`
	TestScore    int       `json:"testScore" db:"test_score"`
	ExamScore    int       `json:"examScore" db:"exam_score"`
	TotalScore   int       `json:"totalScore" db:"total_score"`
	Grade        string    `json:"grade" db:"grade"`
	Remarks      *string   `json:"remarks" db:"remarks"`
	EnteredBy    *string   `json:"enteredBy" db:"entered_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// NewResult is a score entry. The total and the grade are derived, never taken from the client.
type NewResult struct {
	StudentID    string `json:"studentId" validate:"required,uuid"`
	SubjectID    string `json:"subjectId" validate:"required,uuid"`
	ClassID      string `json:"classId" validate:"omitempty,uuid"`
	AcademicYear string `json:"academicYear" validate:"required,max=20"`
	Term         Term   `json:"term" validate:"required,term"`
	TestScore    *int   `json:"testScore" validate:"required,min=0,max=40"`
	ExamScore    *int   `json:"examScore" validate:"required,min=0,max=60"`
	Remarks      string `json:"remarks"`
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.SubjectID = core.CleanString(nr.SubjectID)
	nr.ClassID = core.CleanString(nr.ClassID)
	nr.AcademicYear = core.CleanString(nr.AcademicYear)
	nr.Term = Term(core.CleanString(string(nr.Term), true))
	nr.Remarks = core.CleanString(nr.Remarks)
	return validate.Struct(nr)
}

type ResultFilter struct {
	StudentID    string `query:"studentId"`
	AcademicYear string `query:"academicYear"`
	Term         Term   `query:"term"`
}
