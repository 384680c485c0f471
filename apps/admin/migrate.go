package main

import (
	"context"
	"errors"

	"github.com/upbhushan/placement-iiitn--sub001/storage"
	"github.com/upbhushan/placement-iiitn--sub001/storage/database"
)

var (
	gooseRunFunc = database.RunMigrations // mockable

	errNoMigrations = errors.New("migrations are only available with the postgres engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.conf.Database.Engine != storage.EnginePostgres {
		return errNoMigrations
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), cli.db, args[0], arguments...)
}
