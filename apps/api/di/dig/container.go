package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/skillbridge/portal/apps/api/echo"
	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/interview"
	"github.com/skillbridge/portal/core/lead"
	"github.com/skillbridge/portal/core/program"
	"github.com/skillbridge/portal/core/user"
	appfs "github.com/skillbridge/portal/fs"
	"github.com/skillbridge/portal/services/crmapi"
	emailsvc "github.com/skillbridge/portal/services/email"
	eventsvc "github.com/skillbridge/portal/services/events"
	logsvc "github.com/skillbridge/portal/services/logger"
	metricsvc "github.com/skillbridge/portal/services/metrics"
	"github.com/skillbridge/portal/storage/database"
	inmemdb "github.com/skillbridge/portal/storage/database/inmem"
	sqlxrepos "github.com/skillbridge/portal/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Backend holds the repositories served by the backend REST API (or its fixtures in debug mode).
	Backend struct {
		dig.Out
		Leads      lead.Repository
		Members    user.Repository
		Interviews interview.Repository
		Programs   program.Repository
	}

	// Events is the stage-change publisher and its closer.
	Events struct {
		Observer lead.Observer
		Close    func() error
	}

	ServerParams struct {
		dig.In
		Conf         *core.Config
		Logger       core.Logger
		Metrics      *metricsvc.Collector
		PipelineSvc  lead.ServiceInterface
		TeamSvc      user.ServiceInterface
		InterviewSvc interview.ServiceInterface
		ProgramSvc   program.ServiceInterface
		Validate     *validator.Validate
		Translator   ut.Translator
	}
)

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

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newTransitionRepository(db *sqlx.DB) lead.TransitionRepository {
	return sqlxrepos.NewTransitionRepository(db)
}

func newBackend(conf *core.Config, logger core.Logger) (Backend, error) {
	if conf.Backend.BaseURL == "" {
		db, err := inmemdb.OpenFixtures(appfs.FS, inmemdb.FixturesPath)
		if err != nil {
			return Backend{}, errors.Wrap(err, "loading backend fixtures")
		}
		logger.Warn("no backend configured: serving fixtures")
		return Backend{
			Leads:      inmemdb.NewLeadRepository(db),
			Members:    inmemdb.NewMemberRepository(db),
			Interviews: inmemdb.NewInterviewRepository(db),
			Programs:   inmemdb.NewProgramRepository(db),
		}, nil
	}

	client := crmapi.New(conf.Backend)
	return Backend{
		Leads:      client,
		Members:    client,
		Interviews: client,
		Programs:   client,
	}, nil
}

func newEvents(conf *core.Config, logger core.Logger) (Events, error) {
	observer, closer, err := eventsvc.New(conf.Events, logger)
	if err != nil {
		return Events{}, errors.Wrap(err, "connecting to the events broker")
	}
	return Events{Observer: observer, Close: closer}, nil
}

func newPipelineService(
	repo lead.Repository,
	team lead.TeamResolver,
	audit lead.TransitionRepository,
	logger core.Logger,
	metrics *metricsvc.Collector,
	events Events,
	mailer core.EmailService,
) lead.ServiceInterface {
	svc := lead.NewService(repo, team, audit, logger)
	svc.Observe(metrics, events.Observer, lead.NewOwnerNotifier(mailer))
	return svc
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Metrics:      p.Metrics,
		PipelineSvc:  p.PipelineSvc,
		TeamSvc:      p.TeamSvc,
		InterviewSvc: p.InterviewSvc,
		ProgramSvc:   p.ProgramSvc,
		Validate:     p.Validate,
		Translator:   p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTransitionRepository))
	must(c.Provide(newBackend))
	must(c.Provide(newEvents))
	must(c.Provide(emailsvc.New))
	must(c.Provide(metricsvc.NewCollector))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface), new(lead.TeamResolver))))
	must(c.Provide(newPipelineService))
	must(c.Provide(interview.NewService, dig.As(new(interview.ServiceInterface))))
	must(c.Provide(program.NewService, dig.As(new(program.ServiceInterface))))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
