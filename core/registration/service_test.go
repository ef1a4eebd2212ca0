package registration_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/user"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
	inmemdb "github.com/alfurqan/portal/storage/database/inmem"
)

var pdf = []byte("%PDF-1.4\n%test document\n")

type failingUsers struct{}

func (failingUsers) Create(context.Context, user.NewUser, ...core.DBExecutor) (user.User, error) {
	return user.User{}, errors.New("database is down")
}

type fixture struct {
	svc     *registration.Service
	users   *user.Service
	mailSvc *emailsvc.ConsoleServiceMock
}

func newFixture(t *testing.T, users registration.Users) fixture {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)
	core.ParseEmailTemplates(conf, logger)

	db := inmemdb.Open()
	userSvc := user.NewService(inmemdb.NewUserRepository(db))
	if users == nil {
		users = userSvc
	}
	files, err := uploads.New(t.TempDir(), 1<<20)
	require.NoError(t, err)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	svc := registration.NewService(inmemdb.NewRegistrationRepository(db), db, users, files,
		registration.NewNotifierMock(mailSvc, logger), logger)
	return fixture{svc: svc, users: userSvc, mailSvc: mailSvc}
}

func (f fixture) submit(t *testing.T, name, email string, typ registration.ApplicationType) registration.Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), registration.NewApplication{
		ApplicantName:   name,
		ApplicantEmail:  email,
		ApplicantPhone:  "08012345678",
		ApplicationType: typ,
	}, core.Upload{Filename: "doc.pdf", Content: bytes.NewReader(pdf)})
	require.NoError(t, err)
	return app
}

func TestSubmitRequiresDocument(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Submit(context.Background(), registration.NewApplication{ApplicantName: "Jane Doe"}, core.Upload{})

	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "document", vErr.Fields[0].Field)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	app := f.submit(t, "Amina Yusuf", "amina@example.com", registration.TypeStaffTeaching)

	approval, err := f.svc.Approve(ctx, app.ID, "reviewer-id", "welcome aboard")
	require.NoError(t, err)

	assert.Regexp(t, `^STF\d{6}$`, approval.Credentials.Username)
	assert.Equal(t, "Yusuf", approval.Credentials.Password)
	assert.Equal(t, user.RoleStaff, approval.User.Role)
	assert.Nil(t, approval.User.ClassLevel)
	assert.Equal(t, registration.StatusApproved, approval.Application.Status)
	assert.Equal(t, approval.User.ID, *approval.Application.GeneratedUserID)

	usr, err := f.users.GetByUniqueID(ctx, approval.Credentials.Username)
	require.NoError(t, err)
	assert.True(t, usr.CheckPassword("yusuf"))

	sent := f.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.True(t, strings.Contains(sent[0].TextContent, approval.Credentials.Username))

	_, err = f.svc.Approve(ctx, app.ID, "reviewer-id", "")
	assert.Equal(t, registration.ErrAlreadyReviewed, errors.Cause(err))
	_, err = f.svc.Reject(ctx, app.ID, "reviewer-id", "")
	assert.Equal(t, registration.ErrAlreadyReviewed, errors.Cause(err))
}

func TestApproveFailureLeavesApplicationPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingUsers{})
	app := f.submit(t, "Jane Doe", "jane@example.com", registration.TypeStudentPrimary)

	_, err := f.svc.Approve(ctx, app.ID, "reviewer-id", "")
	require.Error(t, err)

	got, err := f.svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusPending, got.Status)
	assert.Nil(t, got.GeneratedUserID)
	assert.Empty(t, f.mailSvc.SentMessages())
}

func TestApproveUnknown(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Approve(context.Background(), "missing", "reviewer-id", "")
	assert.Equal(t, registration.ErrNotFound, errors.Cause(err))
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	app := f.submit(t, "Jane Doe", "", registration.TypeStudentSSS)

	rejected, err := f.svc.Reject(ctx, app.ID, "reviewer-id", "missing birth certificate")
	require.NoError(t, err)
	assert.Equal(t, registration.StatusRejected, rejected.Status)
	assert.Equal(t, "missing birth certificate", *rejected.ReviewNotes)
	assert.Nil(t, rejected.GeneratedUserID)

	students, err := f.users.ListByRole(ctx, user.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, students)

	pending, err := f.svc.List(ctx, registration.ApplicationFilter{Status: registration.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}
