package main

import (
	"log"
	"os"

	"github.com/trezcool/findgreatschool/client"
	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/compare"
	logsvc "github.com/trezcool/findgreatschool/services/logger"
	localstore "github.com/trezcool/findgreatschool/storage/local"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "CLI : ", log.LstdFlags)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up the local selection
	path := conf.Client.StatePath
	if path == "" {
		var err error
		path, err = localstore.DefaultPath()
		errAndDie(err)
	}
	storage, err := localstore.Open(path)
	errAndDie(err)
	store, err := compare.NewStore(storage)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		api:   client.New(conf.Client.APIBaseURL, client.WithToken(conf.Client.Token), client.WithLogger(appLogger)),
		store: store,
		in:    os.Stdin,
		out:   os.Stdout,
	}
	code := 0
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s\n", err)
		}
		code = 1
	}
	_ = storage.Close()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
