package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	geminisvc "github.com/trezcool/edutube/services/gemini"
	logsvc "github.com/trezcool/edutube/services/logger"
	"github.com/trezcool/edutube/storage/database"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf, "ADMIN")
	if err != nil {
		log.Fatal(err)
	}
	rl := logsvc.NewRollbarLogger(zl, conf)
	rl.Enable(!conf.Debug)
	defer func() { _ = rl.Sync() }()
	logger = rl

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// set up DB
	repos, err := database.Open(ctx, conf)
	errAndDie(err)
	defer func() { _ = repos.Close(context.Background()) }()

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	cands, err := content.ParseCandidates(conf.AI.Models)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		usrSvc:     user.NewService(repos.User, validate),
		migrate:    repos.Migrate,
		candidates: cands,
		out:        os.Stdout,
	}
	if conf.AI.APIKey != "" {
		client, err := geminisvc.NewClient(context.Background(), conf.AI.APIKey)
		errAndDie(err)
		defer func() { _ = client.Close() }()
		cli.models, cli.model = client, client
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
