package tests

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/services/export"
)

func intPtr(i int) *int { return &i }

func (app *testApp) createSubject(t *testing.T, cookie *http.Cookie, name string) academic.Subject {
	t.Helper()
	rec := app.do(http.MethodPost, "/api/subjects", cookie, marshalObj(t, academic.NewSubject{Name: name, Code: "MTH101"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var subj academic.Subject
	decode(t, rec, &subj)
	return subj
}

func TestResults(t *testing.T) {
	app := setup(t)
	ctx := t.Context()
	adminCookie := app.adminCookie(t)
	staffCookie := app.staffCookie(t)
	studentCookie := app.studentCookie(t)

	student, err := app.svcs.User.GetByUniqueID(ctx, "STU24001")
	require.NoError(t, err)
	subj := app.createSubject(t, adminCookie, "Mathematics")

	nr := academic.NewResult{
		StudentID:    student.ID,
		SubjectID:    subj.ID,
		AcademicYear: "2024/2025",
		Term:         academic.TermFirst,
		TestScore:    intPtr(35),
		ExamScore:    intPtr(40),
	}
	rec := app.do(http.MethodPost, "/api/results", staffCookie, marshalObj(t, nr))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res academic.Result
	decode(t, rec, &res)
	assert.Equal(t, 75, res.TotalScore)
	assert.Equal(t, "A", res.Grade)

	t.Run("scores out of range", func(t *testing.T) {
		bad := nr
		bad.TestScore = intPtr(41)
		bad.ExamScore = intPtr(-1)
		rec := app.do(http.MethodPost, "/api/results", staffCookie, marshalObj(t, bad))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		herr := decodeErr(t, rec)
		assert.Contains(t, herr.Errors, "testScore")
		assert.Contains(t, herr.Errors, "examScore")
	})

	t.Run("students cannot enter results", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/results", studentCookie, marshalObj(t, nr))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	listResults := func(cookie *http.Cookie) []academic.Result {
		rec := app.do(http.MethodGet, "/api/results", cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var results []academic.Result
		decode(t, rec, &results)
		return results
	}

	assert.Len(t, listResults(staffCookie), 1)
	assert.Empty(t, listResults(studentCookie), "hidden until released")

	rec = app.do(http.MethodPost, "/api/settings", adminCookie,
		marshalObj(t, setting.Update{Settings: []setting.Pair{{Key: setting.KeyResultsReleased, Value: "true"}}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := listResults(studentCookie)
	require.Len(t, got, 1)
	assert.Equal(t, res.ID, got[0].ID)

	t.Run("students only see their own", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/results?studentId=someone-else", studentCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		var results []academic.Result
		decode(t, rec, &results)
		require.Len(t, results, 1)
		assert.Equal(t, student.ID, results[0].StudentID)
	})

	t.Run("export", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/results/export", staffCookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "results.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Results")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "STU24001", rows[1][0])
		assert.Equal(t, "Mathematics", rows[1][2])

		rec = app.do(http.MethodGet, "/api/results/export", studentCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTimetable(t *testing.T) {
	app := setup(t)
	adminCookie := app.adminCookie(t)

	entry := academic.NewTimetable{DayOfWeek: "monday", StartTime: "08:00", EndTime: "08:40", ClassLevel: "jss"}
	rec := app.do(http.MethodPost, "/api/timetable", adminCookie, marshalObj(t, entry))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tt academic.Timetable
	decode(t, rec, &tt)
	assert.Equal(t, "Monday", tt.DayOfWeek)

	bad := entry
	bad.EndTime = "07:00"
	rec = app.do(http.MethodPost, "/api/timetable", adminCookie, marshalObj(t, bad))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErr(t, rec).Errors, "endTime")

	rec = app.do(http.MethodGet, "/api/timetable?classLevel=jss", app.studentCookie(t))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []academic.Timetable
	decode(t, rec, &entries)
	assert.Len(t, entries, 1)

	rec = app.do(http.MethodDelete, "/api/timetable/"+tt.ID, app.staffCookie(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(http.MethodDelete, "/api/timetable/"+tt.ID, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Timetable entry deleted", decodeErr(t, rec).Message)
}

func TestPayroll(t *testing.T) {
	app := setup(t)
	managerCookie := app.managerCookie(t)

	staff, err := app.svcs.User.GetByUniqueID(t.Context(), "STF24001")
	require.NoError(t, err)

	rec := app.do(http.MethodPost, "/api/payroll/process", managerCookie, marshalObj(t, payroll.Process{StaffID: staff.ID, Amount: 150000}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var record payroll.Record
	decode(t, rec, &record)
	assert.Equal(t, payroll.StatusCompleted, record.Status)
	assert.NotEmpty(t, record.Month)
	assert.NotNil(t, record.ProcessedAt)

	rec = app.do(http.MethodPost, "/api/payroll/process", managerCookie, marshalObj(t, payroll.Process{StaffID: staff.ID, Amount: 0}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/payroll", app.staffCookie(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodGet, "/api/payroll/export", managerCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
}
