package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/Mohan-b-dev/std-dash/apps/api/echo"
	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
	emailsvc "github.com/Mohan-b-dev/std-dash/services/email"
	logsvc "github.com/Mohan-b-dev/std-dash/services/logger"
	"github.com/Mohan-b-dev/std-dash/storage/database"
	inmemdb "github.com/Mohan-b-dev/std-dash/storage/database/inmem"
	sqlxdb "github.com/Mohan-b-dev/std-dash/storage/database/sqlx"
	firestoredb "github.com/Mohan-b-dev/std-dash/storage/firestore"
	redisstore "github.com/Mohan-b-dev/std-dash/storage/redis"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Closers are the store handles to release on shutdown.
type Closers []io.Closer

// Stores are the account, record and revocation stores selected by the configuration.
type Stores struct {
	dig.Out
	Accounts session.Repository
	Records  student.Repository
	Revoker  session.Revoker
	Closers  Closers
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newStores keeps everything in memory unless conf.Storage names a backend.
// Accounts live in Postgres for both the postgres and firestore backends;
// signed-out tokens go to Redis when an address is configured.
func newStores(conf *core.Config, loggerParam DBLoggerParam) Stores {
	ctx := context.Background()
	logger := loggerParam.Logger
	fatal := func(msg string, err error) {
		logger.Fatal(fmt.Sprintf("%s: %v", msg, err), err)
	}

	mem := inmemdb.Open()
	stores := Stores{
		Accounts: inmemdb.NewAccountRepository(mem),
		Records:  inmemdb.NewStudentRepository(mem),
		Revoker:  inmemdb.NewRevoker(mem),
	}

	switch conf.Storage {
	case core.StorageMemory:
		logger.Warn("using the in-memory store: data is lost on restart")

	case core.StoragePostgres, core.StorageFirestore:
		db, err := database.Open(ctx, conf)
		if err != nil {
			fatal("setting up database", err)
		}
		if err = database.Migrate(db); err != nil {
			fatal("migrating database", err)
		}
		stores.Closers = append(stores.Closers, db)
		stores.Accounts = sqlxdb.NewAccountRepository(db)
		stores.Records = sqlxdb.NewStudentRepository(db)

		if conf.Storage == core.StorageFirestore {
			client, err := firestoredb.Open(ctx, conf)
			if err != nil {
				fatal("setting up firestore", err)
			}
			stores.Closers = append(stores.Closers, client)
			stores.Records = firestoredb.NewStudentRepository(client, conf.Firestore.Collection)
		}

	default:
		fatal("setting up stores", errors.Errorf("unknown storage %q", conf.Storage))
	}

	if conf.Redis.Address != "" {
		client := redisstore.NewClient(conf)
		if err := redisstore.Ping(ctx, client); err != nil {
			fatal("setting up redis", err)
		}
		stores.Closers = append(stores.Closers, client)
		stores.Revoker = redisstore.NewRevoker(client)
	}
	return stores
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "EMAIL : ", log.LstdFlags), logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newInsightSource() student.InsightSource {
	return student.NewPlaceholderInsights()
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Sessions   *session.Service
	Records    student.Repository
	Insights   student.InsightSource
	Validate   *validator.Validate
	Translator ut.Translator
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Sessions:   p.Sessions,
		Records:    p.Records,
		Insights:   p.Insights,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(session.NewService))
	must(c.Provide(newInsightSource))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
