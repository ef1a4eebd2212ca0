package main

import (
	"errors"

	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/storage/database"
)

var (
	gooseRunFunc = database.RunMigrations // mockable

	errNoDatabase = errors.New("migrations need the " + container.EnginePostgres + " engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return gooseRunFunc(args[0], cli.db, args[1:]...)
}
