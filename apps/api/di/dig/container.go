package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/findgreatschool/apps/api/echo"
	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/contact"
	"github.com/trezcool/findgreatschool/core/institution"
	emailsvc "github.com/trezcool/findgreatschool/services/email"
	eventsvc "github.com/trezcool/findgreatschool/services/events"
	logsvc "github.com/trezcool/findgreatschool/services/logger"
	blobstore "github.com/trezcool/findgreatschool/storage/blob"
	"github.com/trezcool/findgreatschool/storage/cache"
	"github.com/trezcool/findgreatschool/storage/database"
	sqlxrepos "github.com/trezcool/findgreatschool/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// SearchCacheResult is nil-valued when Redis is not configured.
type SearchCacheResult struct {
	dig.Out
	Cache institution.SearchCache
	Stats echoapi.CacheStats
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, sqlx.ExtContext) {
	setUp := func() (*sqlx.DB, error) {
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(ctx, db); err != nil {
			return nil, err
		}
		if err = database.Migrate(ctx, db.DB); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newSearchCache(conf *core.Config, logger core.Logger) SearchCacheResult {
	if conf.Redis.Addr == "" {
		logger.Info("search cache disabled: no redis address")
		return SearchCacheResult{}
	}
	client, err := cache.NewClient(conf)
	if err != nil {
		// searches still work without a cache
		logger.Error(fmt.Sprintf("search cache disabled: %v", err), err)
		return SearchCacheResult{}
	}
	qc := cache.NewQueryCache(client, conf, logger)
	return SearchCacheResult{Cache: qc, Stats: qc}
}

func newImageStore(conf *core.Config, logger core.Logger) institution.ImageStore {
	store, err := blobstore.New(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up image store: %v", err), err)
	}
	return store
}

func newEventPublisher(conf *core.Config, logger core.Logger) core.EventPublisher {
	if len(conf.Kafka.Brokers) == 0 {
		return eventsvc.NewLogPublisher(logger)
	}
	return eventsvc.NewKafkaPublisher(conf, logger)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newApplicationInstitutions(svc *institution.Service) application.Institutions {
	return svc
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newSearchCache))
	must(c.Provide(newImageStore))
	must(c.Provide(newEventPublisher))
	must(c.Provide(newEmailService))
	must(c.Provide(sqlxrepos.NewInstitutionRepository, dig.As(new(institution.Repository))))
	must(c.Provide(sqlxrepos.NewApplicationRepository, dig.As(new(application.Repository))))
	must(c.Provide(sqlxrepos.NewContactRepository, dig.As(new(contact.Repository))))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(institution.NewService))
	must(c.Provide(newApplicationInstitutions))
	must(c.Provide(application.NewService))
	must(c.Provide(contact.NewService))
	must(c.Provide(echoapi.NewMetrics))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
