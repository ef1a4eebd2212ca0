//go:build integration
// +build integration

package sqlxrepos_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/user"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
	testutil "github.com/alfurqan/portal/tests"
	"github.com/alfurqan/portal/tests/testdb"
)

func setup(t *testing.T) (*container.Storage, *container.Services) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)
	core.ParseEmailTemplates(conf, logger)

	st := container.NewSQLStorage(testdb.PrepareDB(t), false)
	files, err := uploads.New(t.TempDir(), conf.Uploads.MaxBytes)
	require.NoError(t, err)
	notifier := registration.NewNotifierMock(emailsvc.NewConsoleServiceMock(conf, logger), logger)
	svcs := container.NewServices(conf, st, files, notifier, logger)
	require.NoError(t, container.Seed(context.Background(), svcs))
	return st, svcs
}

func TestUserRepository(t *testing.T) {
	st, svcs := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, st.Users, "STF259999", "Amina", "Yusuf", user.RoleStaff, true)

	_, err := st.Users.CreateUser(ctx, user.User{UniqueID: "STF259999", FirstName: "Other", Surname: "Person", Role: user.RoleStaff, CreatedAt: time.Now()})
	assert.Equal(t, user.ErrUniqueIDTaken, err)

	got, err := svcs.User.GetByUniqueID(ctx, "stf259999")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svcs.User.GetByID(ctx, "not-a-uuid")
	assert.Equal(t, user.ErrNotFound, err)

	found, err := svcs.User.Query(ctx, user.QueryFilter{Search: "yus", Roles: []user.Role{user.RoleStaff}})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, usr.ID, found[0].ID)

	updated, err := svcs.User.UpdateBankDetails(ctx, usr.ID, user.UpdateBankDetails{BankAccountNumber: "0123456789", BankName: "First Bank"})
	require.NoError(t, err)
	assert.Equal(t, "First Bank", *updated.BankName)
}

func TestSessionStore(t *testing.T) {
	st, svcs := setup(t)
	ctx := context.Background()

	usr, sess, err := svcs.Auth.Login(ctx, "STU24001", "student")
	require.NoError(t, err)

	got, err := st.Sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.UserID)

	require.NoError(t, st.Sessions.Set(ctx, auth.Session{ID: "expired", UserID: usr.ID, CreatedAt: time.Now().Add(-2 * time.Hour), ExpiresAt: time.Now().Add(-time.Hour)}))
	_, err = st.Sessions.Get(ctx, "expired")
	assert.Equal(t, auth.ErrSessionNotFound, err)

	n, err := svcs.Auth.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, svcs.Auth.Logout(ctx, sess.ID))
	_, err = st.Sessions.Get(ctx, sess.ID)
	assert.Equal(t, auth.ErrSessionNotFound, err)
}

func TestApproveInTransaction(t *testing.T) {
	_, svcs := setup(t)
	ctx := context.Background()

	app, err := svcs.Registration.Submit(ctx, registration.NewApplication{
		ApplicantName:   "Jane Doe",
		ApplicantPhone:  "08012345678",
		ApplicationType: registration.TypeStudentJSS,
	}, core.Upload{Filename: "doc.pdf", Content: bytes.NewReader([]byte("%PDF-1.4\n"))})
	require.NoError(t, err)

	approval, err := svcs.Registration.Approve(ctx, app.ID, "", "ok")
	require.NoError(t, err)
	assert.Regexp(t, `^STU\d{6}$`, approval.Credentials.Username)

	got, err := svcs.Registration.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusApproved, got.Status)
	assert.Equal(t, approval.User.ID, *got.GeneratedUserID)

	_, err = svcs.Registration.Approve(ctx, app.ID, "", "")
	assert.Equal(t, registration.ErrAlreadyReviewed, errors.Cause(err))
}

func TestNoticesAndResults(t *testing.T) {
	_, svcs := setup(t)
	ctx := context.Background()

	staff, err := svcs.User.GetByUniqueID(ctx, "STF24001")
	require.NoError(t, err)
	student, err := svcs.User.GetByUniqueID(ctx, "STU24001")
	require.NoError(t, err)

	_, err = svcs.Notice.Create(ctx, notice.NewNotice{Title: "Staff only", Content: "x", TargetAudience: notice.AudienceStaff, Priority: notice.PriorityNormal}, staff.ID)
	require.NoError(t, err)
	visible, err := svcs.Notice.ListFor(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, visible)
	visible, err = svcs.Notice.ListFor(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	subj, err := svcs.Academic.CreateSubject(ctx, academic.NewSubject{Name: "Mathematics"})
	require.NoError(t, err)
	test, exam := 29, 40
	res, err := svcs.Academic.EnterResult(ctx, academic.NewResult{
		StudentID: student.ID, SubjectID: subj.ID, AcademicYear: "2024/2025", Term: academic.TermFirst,
		TestScore: &test, ExamScore: &exam,
	}, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, 69, res.TotalScore)
	assert.Equal(t, "B", res.Grade)

	results, err := svcs.Academic.ResultsFor(ctx, student, academic.ResultFilter{})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = svcs.Setting.Upsert(ctx, setting.Pair{Key: setting.KeyResultsReleased, Value: "true"})
	require.NoError(t, err)
	results, err = svcs.Academic.ResultsFor(ctx, student, academic.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
