package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/rapor/apps/api/echo"
	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/session"
	"github.com/trezcool/rapor/core/user"
	logsvc "github.com/trezcool/rapor/services/logger"
	"github.com/trezcool/rapor/storage/database"
	sqlxrepos "github.com/trezcool/rapor/storage/database/sqlx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger("API", conf.Log.Level, conf.Log.File), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Sync()

	dbLogger := logsvc.NewRollbarLogger(logsvc.NewZapLogger("DB", conf.Log.Level, conf.Log.File), conf)

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout*6)
	db, err := database.Open(ctx, conf.Database.URL, conf.Database.MaxOpenConns)
	cancel()
	if err != nil {
		return errors.Wrap(err, "setting up database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()
	if err = database.Migrate(db.DB); err != nil {
		return err
	}

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), validate)
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))

	codec, err := session.NewCodec(conf.Session.SecretKey, conf.AppName, conf.Session.TTL)
	if err != nil {
		return errors.Wrap(err, "creating session codec")
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			SchoolSvc:  schoolSvc,
			Codec:      codec,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		return errors.Wrap(err, "server error")

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				return errors.Wrap(err, "could not force stop server")
			}
		}
	}
	return nil
}
