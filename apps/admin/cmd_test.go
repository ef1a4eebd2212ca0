package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/user"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewTestLogger(conf)

	// set up DB & services
	st, _ := container.NewMemoryStorage()
	files, err := uploads.New(t.TempDir(), conf.Uploads.MaxBytes)
	require.NoError(t, err)
	notifier := registration.NewNotifierMock(emailsvc.NewConsoleServiceMock(conf, logger), logger)

	// a lazily connecting handle; the goose runner is mocked
	db, err := sql.Open("postgres", "postgres://localhost/alfurqan_test?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var out bytes.Buffer
	return &commandLine{
		db:   db,
		svcs: container.NewServices(conf, st, files, notifier, logger),
		out:  &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), tt.wantErrStr)
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	defer func(f func(string, *sql.DB, ...string) error) { gooseRunFunc = f }(gooseRunFunc)
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "attendance", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	t.Run("memory engine", func(t *testing.T) {
		cli.db = nil
		assert.Equal(t, errNoDatabase, cli.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Contains(t, out.String(), "Seeded")

	users, err := cli.svcs.User.Query(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 4)

	released, err := cli.svcs.Setting.ResultsReleased(ctx)
	require.NoError(t, err)
	assert.False(t, released)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, out := setup(t)

	type extra struct {
		surname string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no first name", args: []string{"adduser", "-role", "staff"}, extra: extra{"Yusuf"}, wantErr: errHelp},
		{name: "no surname", args: []string{"adduser", "-role", "staff", "-firstname", "Amina"}, wantErr: errHelp},
		{name: "unknown role", args: []string{"adduser", "-role", "parent", "-firstname", "Amina"}, extra: extra{"Yusuf"}, wantErrStr: "'role' tag"},
		{name: "staff", args: []string{"adduser", "-role", "staff", "-firstname", "Amina"}, extra: extra{"Yusuf"}},
		{name: "super admin with email", args: []string{"adduser", "-role", "super_admin", "-firstname", "Bola", "-email", "bola@example.com"}, extra: extra{"Ade"}},
		{name: "chosen unique ID", args: []string{"adduser", "-uniqueid", "adm24009", "-role", "super_admin", "-firstname", "Musa"}, extra: extra{"Bello"}},
		{name: "update by unique ID", args: []string{"adduser", "-uniqueid", "ADM24009", "-role", "super_admin", "-firstname", "Musa"}, extra: extra{"Sani"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.surname), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	staff, err := cli.svcs.User.ListByRole(context.Background(), user.RoleStaff)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Yusuf", staff[0].Surname)
	assert.Contains(t, out.String(), staff[0].UniqueID)

	usr, err := cli.svcs.User.GetByUniqueID(context.Background(), "ADM24009")
	require.NoError(t, err)
	assert.Equal(t, "Sani", usr.Surname)
}

func Test_commandLine_setActive(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	require.NoError(t, container.Seed(ctx, cli.svcs))

	tests := []cliTest{
		{name: "no args", args: []string{"setactive"}, wantErr: errHelp},
		{name: "user not found", args: []string{"setactive", "-uniqueid", "STU99999"}, wantErr: user.ErrNotFound},
		{name: "deactivate", args: []string{"setactive", "-uniqueid", "stu24001", "-active=false"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	usr, err := cli.svcs.User.GetByUniqueID(ctx, "STU24001")
	require.NoError(t, err)
	assert.False(t, usr.IsActive)
	assert.Contains(t, out.String(), "STU24001 deactivated")

	require.NoError(t, cli.run([]string{"admin", "setactive", "-uniqueid", "STU24001"}))
	usr, err = cli.svcs.User.GetByUniqueID(ctx, "STU24001")
	require.NoError(t, err)
	assert.True(t, usr.IsActive)
}
