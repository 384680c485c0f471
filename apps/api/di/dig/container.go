package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/upbhushan/placement-iiitn--sub001/apps/api/echo"
	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	emailsvc "github.com/upbhushan/placement-iiitn--sub001/services/email"
	logsvc "github.com/upbhushan/placement-iiitn--sub001/services/logger"
	uploadsvc "github.com/upbhushan/placement-iiitn--sub001/services/upload"
	"github.com/upbhushan/placement-iiitn--sub001/storage"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
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

type repositoriesOut struct {
	dig.Out
	Repos    *storage.Repositories
	Users    user.Repository
	Profiles profile.Repository
	Forms    form.Repository
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) repositoriesOut {
	repos, err := storage.Open(context.Background(), conf, true)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Database.Engine, err), err)
	}
	return repositoriesOut{Repos: repos, Users: repos.Users, Profiles: repos.Profiles, Forms: repos.Forms}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newUploader(conf *core.Config, logger core.Logger) core.FileUploader {
	uploader, err := uploadsvc.NewUploader(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
	}
	return uploader
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newResolver(conf *core.Config, validate *validator.Validate, translator ut.Translator) (*form.Resolver, error) {
	resolver, err := form.NewResolver(conf.Form.AutoFillKeys)
	if err != nil {
		return nil, errors.Wrap(err, "form.autoFillKeys")
	}
	form.InitValidators(validate, translator, resolver)
	return resolver, nil
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(newUploader))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newResolver))
	must(c.Provide(form.NewSchemaGenerator))
	must(c.Provide(form.NewSubmissionValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(profile.NewService))
	must(c.Provide(func(svc *user.Service) form.UserLookup { return svc }))
	must(c.Provide(func(svc *profile.Service) profile.Lookup { return svc }))
	must(c.Provide(form.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
