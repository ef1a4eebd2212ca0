package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/user"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
)

func newServices(t *testing.T) *Services {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)
	st, _ := NewMemoryStorage()
	files, err := uploads.New(t.TempDir(), conf.Uploads.MaxBytes)
	require.NoError(t, err)
	notifier := registration.NewNotifierMock(emailsvc.NewConsoleServiceMock(conf, logger), logger)
	return NewServices(conf, st, files, notifier, logger)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svcs := newServices(t)

	require.NoError(t, Seed(ctx, svcs))
	require.NoError(t, Seed(ctx, svcs))

	users, err := svcs.User.Query(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, users, len(seedUsers))

	admin, err := svcs.User.GetByUniqueID(ctx, "ADM24001")
	require.NoError(t, err)
	assert.Equal(t, user.RoleSuperAdmin, admin.Role)
	assert.True(t, admin.CheckPassword("administrator"))

	released, err := svcs.Setting.ResultsReleased(ctx)
	require.NoError(t, err)
	assert.False(t, released)

	settings, err := svcs.Setting.List(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, len(seedSettings))
}

func TestOpenStorageUnknownEngine(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.Engine = "oracle"
	_, err := OpenStorage(conf)
	assert.Error(t, err)
}

func TestNewValidatorRegistersDomainTags(t *testing.T) {
	validate, _ := NewValidator()
	na := registration.NewApplication{
		ApplicantName:   "Jane Doe",
		ApplicantPhone:  "+2348031234567",
		ApplicationType: registration.TypeStudentPrimary,
	}
	assert.NoError(t, na.Validate(validate))

	na.ApplicationType = "staff_application"
	assert.Error(t, na.Validate(validate))
}
