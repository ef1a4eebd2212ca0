// Package container wires repositories and services together for the API server, the admin CLI and the tests.
package container

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/fee"
	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/showcase"
	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/storage/database"
	inmemdb "github.com/alfurqan/portal/storage/database/inmem"
	sqlxrepos "github.com/alfurqan/portal/storage/database/sqlx"
)

// Database engines
const (
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

// Storage holds one repository per domain, all backed by the same engine.
type Storage struct {
	Tx            core.Transactor
	Users         user.Repository
	Sessions      auth.SessionStore
	Registrations registration.Repository
	Notices       notice.Repository
	Academics     academic.Repository
	Payroll       payroll.Repository
	Fees          fee.Repository
	Showcase      showcase.Repository
	Settings      setting.Repository

	ping  func(ctx context.Context) error
	close func() error
}

func (st *Storage) Ping(ctx context.Context) error { return st.ping(ctx) }

func (st *Storage) Close() error { return st.close() }

// NewSQLStorage backs the repositories with db. Sessions stay in process memory when memorySessions is set.
func NewSQLStorage(db *sqlx.DB, memorySessions bool) *Storage {
	var sessions auth.SessionStore = sqlxrepos.NewSessionStore(db)
	if memorySessions {
		sessions = inmemdb.NewSessionStore(inmemdb.Open())
	}
	return &Storage{
		Tx:            sqlxrepos.NewTransactor(db),
		Users:         sqlxrepos.NewUserRepository(db),
		Sessions:      sessions,
		Registrations: sqlxrepos.NewRegistrationRepository(db),
		Notices:       sqlxrepos.NewNoticeRepository(db),
		Academics:     sqlxrepos.NewAcademicRepository(db),
		Payroll:       sqlxrepos.NewPayrollRepository(db),
		Fees:          sqlxrepos.NewFeeRepository(db),
		Showcase:      sqlxrepos.NewShowcaseRepository(db),
		Settings:      sqlxrepos.NewSettingRepository(db),
		ping:          db.PingContext,
		close:         db.Close,
	}
}

// NewMemoryStorage backs the repositories with process memory; everything is lost on exit.
func NewMemoryStorage() (*Storage, *inmemdb.DB) {
	db := inmemdb.Open()
	return &Storage{
		Tx:            db,
		Users:         inmemdb.NewUserRepository(db),
		Sessions:      inmemdb.NewSessionStore(db),
		Registrations: inmemdb.NewRegistrationRepository(db),
		Notices:       inmemdb.NewNoticeRepository(db),
		Academics:     inmemdb.NewAcademicRepository(db),
		Payroll:       inmemdb.NewPayrollRepository(db),
		Fees:          inmemdb.NewFeeRepository(db),
		Showcase:      inmemdb.NewShowcaseRepository(db),
		Settings:      inmemdb.NewSettingRepository(db),
		ping:          func(context.Context) error { return nil },
		close:         func() error { return nil },
	}, db
}

// OpenStorage picks the storage engine from conf. Postgres databases are created and migrated as needed.
func OpenStorage(conf *core.Config) (*Storage, error) {
	switch conf.Database.Engine {
	case EngineMemory:
		st, _ := NewMemoryStorage()
		return st, nil
	case EnginePostgres, "":
		if conf.Database.AdminUser != "" {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, errors.Wrap(err, "creating database")
			}
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrating database")
		}
		return NewSQLStorage(db, conf.Session.Store == EngineMemory), nil
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}

// Services holds the domain services.
type Services struct {
	Auth         *auth.Service
	User         *user.Service
	Registration *registration.Service
	Notice       *notice.Service
	Academic     *academic.Service
	Payroll      *payroll.Service
	Fee          *fee.Service
	Showcase     *showcase.Service
	Setting      *setting.Service
}

func NewServices(conf *core.Config, st *Storage, files core.FileStore, notifier *registration.Notifier, logger core.Logger) *Services {
	usrSvc := user.NewService(st.Users)
	settingSvc := setting.NewService(st.Settings, st.Tx)
	return &Services{
		Auth:         auth.NewService(usrSvc, st.Sessions, conf.Session.TTL, logger),
		User:         usrSvc,
		Registration: registration.NewService(st.Registrations, st.Tx, usrSvc, files, notifier, logger),
		Notice:       notice.NewService(st.Notices),
		Academic:     academic.NewService(st.Academics, settingSvc),
		Payroll:      payroll.NewService(st.Payroll, usrSvc),
		Fee:          fee.NewService(st.Fees),
		Showcase:     showcase.NewService(st.Showcase),
		Setting:      settingSvc,
	}
}

// NewValidator returns a validator with every domain's custom tags and their english messages registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	registration.InitValidators(validate, translator)
	notice.InitValidators(validate, translator)
	academic.InitValidators(validate, translator)
	return validate, translator
}
