package main

import (
	"context"
	"log"
	"os"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	emailsvc "github.com/upbhushan/placement-iiitn--sub001/services/email"
	logsvc "github.com/upbhushan/placement-iiitn--sub001/services/logger"
	"github.com/upbhushan/placement-iiitn--sub001/storage"
)

var logger *log.Logger

func main() {
	os.Exit(run())
}

func run() int {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	ctx := context.Background()

	// set up storage; migrations are left to the migrate command
	repos, err := storage.Open(ctx, conf, false)
	if err != nil {
		logger.Printf("error: %s\n", err)
		return 1
	}
	defer func() {
		if err := repos.Close(ctx); err != nil {
			logger.Printf("error: closing storage: %s\n", err)
		}
	}()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)
	defer appLogger.Close()

	// start CLI
	cli, err := newCommandLine(conf, repos, emailsvc.NewConsoleService(conf, appLogger), appLogger)
	if err != nil {
		logger.Printf("error: %s\n", err)
		return 1
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}
