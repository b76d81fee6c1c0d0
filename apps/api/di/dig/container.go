package dig_container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/edutube/apps/api/echo"
	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/core/video"
	cachesvc "github.com/trezcool/edutube/services/cache"
	filesvc "github.com/trezcool/edutube/services/filestore"
	geminisvc "github.com/trezcool/edutube/services/gemini"
	logsvc "github.com/trezcool/edutube/services/logger"
	youtubesvc "github.com/trezcool/edutube/services/youtube"
	"github.com/trezcool/edutube/storage/database"
)

const setupTimeout = 30 * time.Second

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newRollbarLogger(conf *core.Config, name string) *logsvc.RollbarLogger {
	zl, err := logsvc.NewZapLogger(conf, name)
	if err != nil {
		log.Fatalf("building %s logger: %v", name, err)
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "API")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "DB")
}

func newRepos(conf *core.Config, loggerParam DBLoggerParam) *database.Repos {
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	setUp := func() (*database.Repos, error) {
		repos, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if _, err = repos.Migrate(ctx); err != nil {
			_ = repos.Close(ctx)
			return nil, err
		}
		return repos, nil
	}

	repos, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return repos
}

func newUserRepository(repos *database.Repos) user.Repository {
	return repos.User
}

func newContentRepository(repos *database.Repos) content.Repository {
	return repos.Content
}

func newGeminiClient(conf *core.Config) (*geminisvc.Client, error) {
	return geminisvc.NewClient(context.Background(), conf.AI.APIKey)
}

func newModelClient(client *geminisvc.Client) content.ModelClient {
	return client
}

func newFileStore(conf *core.Config) (content.FileStore, error) {
	return filesvc.NewLocalStore(conf.Upload.Dir)
}

func newContentService(
	conf *core.Config,
	repo content.Repository,
	files content.FileStore,
	model content.ModelClient,
	validate *validator.Validate,
	logger core.Logger,
) (content.Service, error) {
	cands, err := content.ParseCandidates(conf.AI.Models)
	if err != nil {
		return nil, errors.Wrap(err, "reading ai.models")
	}
	return content.NewService(content.ServiceDeps{
		Repo:       repo,
		Files:      files,
		Model:      model,
		Candidates: cands,
		Limits:     content.UploadLimits{MaxFiles: conf.Upload.MaxFiles, MaxFileSize: conf.Upload.MaxFileSize},
		Validate:   validate,
		Logger:     logger,
	}), nil
}

func newVideoSearcher(conf *core.Config) (video.Searcher, error) {
	return youtubesvc.NewSearcher(context.Background(), conf.YouTube.APIKey)
}

// newVideoCache returns nil when no redis is configured or reachable; search then goes uncached.
func newVideoCache(conf *core.Config, logger core.Logger) video.Cache {
	if conf.Cache.RedisAddr == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	rdb, err := cachesvc.Connect(ctx, conf.Cache.RedisAddr, conf.Cache.RedisPassword, conf.Cache.RedisDB)
	if err != nil {
		logger.Warn(fmt.Sprintf("video cache disabled: %v", err), err)
		return nil
	}
	return cachesvc.NewVideoCache(rdb, conf.Cache.TTL)
}

func newVideoService(conf *core.Config, searcher video.Searcher, cache video.Cache, logger core.Logger) video.Service {
	return video.NewService(searcher, cache, conf.YouTube.Qualifier, logger)
}

// newValidator returns a validator with every app validator registered.
func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	return validate
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type ServerParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	UserSvc    user.Service
	ContentSvc content.Service
	VideoSvc   video.Service
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		UserSvc:    p.UserSvc,
		ContentSvc: p.ContentSvc,
		VideoSvc:   p.VideoSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepos))
	must(c.Provide(newUserRepository))
	must(c.Provide(newContentRepository))
	must(c.Provide(newGeminiClient))
	must(c.Provide(newModelClient))
	must(c.Provide(newFileStore))
	must(c.Provide(newVideoSearcher))
	must(c.Provide(newVideoCache))
	must(c.Provide(newValidator))
	must(c.Provide(newTranslator))
	must(c.Provide(user.NewService))
	must(c.Provide(newContentService))
	must(c.Provide(newVideoService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
