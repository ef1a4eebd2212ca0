package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
	"github.com/alfurqan/portal/storage/database"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap(conf.LogLevel, conf.Debug)
	if err != nil {
		log.Fatalf("setting up zap: %v", err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("admin"), conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	// set up DB; migrations are left to the migrate command
	var (
		db *sql.DB
		st *container.Storage
	)
	switch conf.Database.Engine {
	case container.EngineMemory:
		st, _ = container.NewMemoryStorage()
	default:
		if conf.Database.AdminUser != "" {
			errAndDie(logger, database.CreateIfNotExist(conf))
		}
		sqlxDB, err := database.Open(conf)
		errAndDie(logger, err)
		db = sqlxDB.DB
		st = container.NewSQLStorage(sqlxDB, false)
	}
	defer func() { _ = st.Close() }()

	files, err := uploads.New(conf.Uploads.Dir, conf.Uploads.MaxBytes)
	errAndDie(logger, err)
	notifier := registration.NewNotifier(emailsvc.NewConsoleService(conf, logger), conf.MailTimeout, logger)

	// start CLI
	cli := commandLine{
		db:   db,
		svcs: container.NewServices(conf, st, files, notifier, logger),
		out:  os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
