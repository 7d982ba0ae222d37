package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
	eventsvc "github.com/trezcool/findgreatschool/services/events"
	logsvc "github.com/trezcool/findgreatschool/services/logger"
	"github.com/trezcool/findgreatschool/storage/database"
	sqlxrepos "github.com/trezcool/findgreatschool/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	errAndDie(database.Ping(context.Background(), db))

	var events core.EventPublisher = eventsvc.NewLogPublisher(appLogger)
	var kp *eventsvc.KafkaPublisher
	if len(conf.Kafka.Brokers) > 0 {
		kp = eventsvc.NewKafkaPublisher(conf, appLogger)
		events = kp
	}

	// start CLI
	cli := commandLine{
		conf: conf,
		db:   db.DB,
		instSvc: institution.NewService(
			sqlxrepos.NewInstitutionRepository(db),
			nil, /* cache */
			nil, /* images */
			events,
			validator.New(),
			appLogger,
		),
		out: os.Stdout,
	}
	code := 0
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		code = 1
	}
	if kp != nil {
		_ = kp.Close()
	}
	_ = db.Close()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
