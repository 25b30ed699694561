package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/user"
	logsvc "github.com/trezcool/rapor/services/logger"
	"github.com/trezcool/rapor/storage/database"
	sqlxrepos "github.com/trezcool/rapor/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger("ADMIN", conf.Log.Level, conf.Log.File), conf)
	logger.Enable(false)

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout*6)
	db, err := database.Open(ctx, conf.Database.URL, 1)
	cancel()
	if err != nil {
		logger.Fatal("setting up database", err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), validate),
		translator: translator,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		switch {
		case err == errHelp:
		case core.IsValidationError(err):
			logger.Warn(cli.describe(err))
		default:
			logger.Error(cli.describe(err), err)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
